/*
Package controller implements the reconciliation loop that keeps a Frame TV in step with its
companion streaming device.

A tick evaluates, in strict priority order:

 1. Companion on and display awake: engaged, remember the companion was on.
 2. Companion off (probed again), then:
    a. art mode already on: ambient, nothing to do;
    b. companion was on until now: toggle power, enable art mode, settle, and toggle once
    more if art mode is still off;
    c. companion on and display in standby on a fresh probe: toggle power to wake it;
    d. otherwise: sleeping.

Actions are edge-triggered through ControllerState, which is threaded through every tick.
Actuator failures are recorded in the TickReport and never abort a tick; the next tick
re-observes both devices.
*/
package controller
