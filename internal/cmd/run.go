package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/upkeep/internal/command"
	"github.com/Iron-Ham/upkeep/internal/config"
	"github.com/Iron-Ham/upkeep/internal/errors"
	"github.com/Iron-Ham/upkeep/internal/event"
	"github.com/Iron-Ham/upkeep/internal/logging"
	"github.com/Iron-Ham/upkeep/internal/orchestrator"
	"github.com/Iron-Ham/upkeep/internal/progress"
	"github.com/Iron-Ham/upkeep/internal/report"
	"github.com/Iron-Ham/upkeep/internal/results"
	"github.com/Iron-Ham/upkeep/internal/task"
)

func runUpkeep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: debug log disabled: %v\n", err)
		logger = logging.NopLogger()
	}
	defer func() { _ = logger.Close() }()

	out := cmd.OutOrStdout()
	mode := progress.Resolve(cfg.UI.Progress, progress.IsTerminal(out))

	opts := []command.Option{
		command.WithLogger(logger),
		command.WithTimeout(cfg.Commands.Timeout()),
	}
	// The interactive display owns the terminal, so child output is dropped.
	if mode != config.ProgressInteractive {
		opts = append(opts, command.WithStdio(os.Stdin, os.Stdout, os.Stderr))
	}

	_, err = runMaintenance(cmd.Context(), maintenance{
		cfg:    cfg,
		mode:   mode,
		out:    out,
		runner: command.NewExecRunner(opts...),
		fs:     afero.NewOsFs(),
		logger: logger,
	})
	if cfg.Logging.Enabled {
		if hint := failureHint(err, cfg.Logging.ResolveDir()); hint != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), hint)
		}
	}
	return err
}

// failureHint points at the debug log for errors whose message alone does
// not explain the failure. Configuration mistakes and other user-facing
// errors need no hint.
func failureHint(err error, logDir string) string {
	if err == nil || errors.IsUserFacing(err) || errors.Is(err, errors.ErrInvalidConfig) {
		return ""
	}
	return fmt.Sprintf("See the debug log in %s for details.", logDir)
}

// maintenance is everything one run needs from the outside world.
type maintenance struct {
	cfg    *config.Config
	mode   string
	out    io.Writer
	runner command.Runner
	fs     afero.Fs
	logger *logging.Logger
}

// runMaintenance builds the registry, runs both phases with progress output
// and prints the report. It returns ErrTasksFailed only when the
// configuration asks for a failing exit status.
func runMaintenance(ctx context.Context, m maintenance) (*results.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reg, err := task.Builtin(m.cfg, m.runner, m.fs).Without(m.cfg.Tasks.Skip)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus(event.WithLogger(m.logger))
	display := progress.New(m.mode, m.out, progress.Items(reg.Tasks()))
	if err := display.Start(bus); err != nil {
		return nil, errors.Wrap(err, "start progress display")
	}
	defer display.Stop()

	orch := orchestrator.New(reg,
		orchestrator.WithLogger(m.logger),
		orchestrator.WithBus(bus),
		orchestrator.WithReporter(report.New(m.out)),
	)
	table, err := orch.Run(ctx)
	if err != nil {
		return table, err
	}

	if failed := table.Failures(); failed > 0 && m.cfg.Report.FailOnError {
		return table, errors.Wrapf(errors.ErrTasksFailed, "%d of %d tasks", failed, table.Len())
	}
	return table, nil
}

// newLogger opens the rotating debug log, or a no-op logger when logging is
// disabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLoggerWithRotation(cfg.Logging.ResolveDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   true,
	})
}
