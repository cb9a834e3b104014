// Package logger builds the zap logger shared by the server, the CLI and the
// comparison engine.
//
// Level is one of debug, info, warn or error; debug switches to zap's
// development preset. Format is json (default) or console for local runs.
//
// Request handlers derive a per-request logger with WithRayID so every line
// written while serving a request carries the ray_id assigned by the rayid
// middleware.
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("Comparison finished", zap.String("table", "orders"))
//
//	l := logger.WithRayID(log, c)
//	l.Error("Comparison failed", zap.Error(err))
package logger
