// Package logging provides structured logging for upkeep runs.
//
// It wraps Go's log/slog to write JSON log lines to a file in the state
// directory, with persistent context attributes so that every line emitted
// while a task runs carries the run ID, the phase and the task name.
//
// # Basic Usage
//
//	logger, err := logging.NewLoggerWithRotation(dir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLogger := logger.WithRun("3f9a1c2e")
//	runLogger.WithPhase("parallel").WithTask("orphans").Info("task finished", "succeeded", true)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"task finished","run_id":"3f9a1c2e","phase":"parallel","task":"orphans","succeeded":true}
//
// # Log Rotation
//
// The log file is appended to across runs. [RotatingWriter] rotates it once it
// grows past MaxSizeMB, keeping MaxBackups numbered backups (upkeep.log.1 is
// the newest), optionally gzip-compressed.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Parallel tasks log
// through child loggers that share one writer.
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] to capture it in a
// buffer.
package logging
