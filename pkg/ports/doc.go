/*
Package ports defines the driven ports (interfaces) of the framesync controller.

These interfaces decouple the reconciliation logic from the devices it talks to, allowing
the controller to run against real hardware, test fakes, or recorded sessions.

# Key Interfaces

  - CompanionQuerier: Asks the companion streaming device for its power state.
  - DisplayConnector: Opens a fresh control session to the display.
  - DisplaySession: The primitives the controller consumes on a display session.
  - Clock: Time source and context-aware sleep used for pacing and backoff.
  - DistributedLocker: Provides a lease so only one controller drives a display.
*/
package ports
