/*
Package framesync keeps a Samsung Frame TV in art mode whenever its companion streaming box
(an Apple TV) is off.

When the companion is on, the TV is left alone. When the companion turns off, the TV is
woken and switched into art mode, so that it shows artwork instead of going dark. If the
companion is on while the TV sits in standby, the TV is nudged awake.

# Architecture

The package follows a hexagonal layout. The reconciliation loop in pkg/controller depends
only on probes (pkg/probe) and actuators (pkg/actuator), which in turn talk to the devices
through the ports in pkg/ports:

  - pkg/adapters/process runs the companion helper (atvremote).
  - pkg/adapters/samsung speaks the TV's REST and websocket API.
  - pkg/adapters/redis and pkg/adapters/memory provide the single-controller lease.
  - pkg/adapters/http serves /healthz, /status, /events and /metrics.

# Usage

	cfg, err := config.Load("framesync.yaml")
	if err != nil {
		log.Fatal(err)
	}
	d, err := framesync.New(cfg, framesync.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := d.Run(ctx); err != nil {
		log.Fatal(err)
	}

The cmd/framesync binary does exactly this, with flags for the common overrides.
*/
package framesync
