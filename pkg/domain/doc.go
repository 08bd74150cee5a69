/*
Package domain contains the core domain models of the framesync controller.

It defines the observations the controller makes about the two devices it keeps in sync,
the flags it carries across ticks, and the reports and events it emits. This package is
kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - CompanionPower: Power state of the streaming device (Apple TV).
  - DisplayPower: Power state reported by the Frame TV.
  - ArtMode: Whether the Frame TV is rendering Art Mode.
  - ControllerState: Edge-trigger flags owned by the reconciliation loop.
  - TickReport: What a single pass of the loop observed and did.
*/
package domain
