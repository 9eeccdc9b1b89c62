// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package supervisor provides process supervision for Cinerec using suture v4.

The tree restarts crashed services with exponential backoff and shuts them
down gracefully when the root context is canceled.

# Tree Layout

	cinerec (root)
	├── data-layer
	│   └── nats-server (embedded, optional)
	├── training-layer
	│   ├── recommend-service (retrain worker)
	│   └── retrain-subscriber (NATS, optional)
	└── api-layer
	    └── http-server

Training is isolated from the API layer. A panic inside a retrain restarts
the worker while requests keep being answered from the active snapshot.

# Usage

	logger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddTrainingService(services.NewRecommendService(engine, svcCfg))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)

# Configuration

Zero values in TreeConfig fall back to suture's defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# Service Interface

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return nil to stop without restart, an error to be restarted, or ctx.Err()
after shutdown was requested.

# What Is NOT Supervised

DuckDB and the snapshot store are embedded libraries owned by main; they
are closed after the tree stops.

# See Also

  - github.com/thejerf/suture/v4
  - internal/supervisor/services
*/
package supervisor
