/*
Package probe observes the two devices the controller keeps in sync.

Each probe hides its own retry discipline behind a resolved result:

  - CompanionPower retries the companion helper until it answers with a PowerState value.
  - DisplayPower makes a single attempt and reports DisplayPowerError on any failure.
  - ArtMode waits a short settle delay, then retries until the display answers "on" or "off".

Retries use a fixed backoff with no delay before the first attempt. Blocking probes are
bounded by RetryPolicy.MaxAttempts and by the caller's context.
*/
package probe
