/*
Package samsung implements the display ports on top of the Samsung Tizen remote API
exposed by Frame televisions.

Three surfaces of the television are used:

  - the REST device description at /api/v2/, which carries the PowerState field;
  - the samsung.remote.control websocket channel, used to send the power key;
  - the com.samsung.art-app websocket channel, used to read and set Art Mode.

Authenticated sessions talk to the TLS port (8002) with the pairing token; anonymous sessions
talk to the plain port (8001) without it. Every session dials its channels lazily and closes
them on Close, so no connection outlives a single probe or command.
*/
package samsung
