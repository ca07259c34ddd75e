package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/stalk/internal/engine"
	"github.com/roach88/stalk/internal/ingest"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest [file|-]",
		Short: "Replay a JSON-lines event stream into the log",
		Long: `Read newline-delimited JSON events from a file or stdin and record
each one. Malformed lines are skipped with a warning.

Send SIGHUP to reload the disabled-actions list from the config file
while ingesting.

Example:
  stalk ingest events.jsonl
  tail -f server-events.jsonl | stalk ingest -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			return runIngest(cmd, opts, src)
		},
	}

	return cmd
}

// ingestResult is the payload of the ingest command.
type ingestResult struct {
	Lines    int `json:"lines"`
	Recorded int `json:"recorded"`
	Skipped  int `json:"skipped"`
}

func (r ingestResult) String() string {
	return fmt.Sprintf("Ingested %d events (%d skipped).", r.Recorded, r.Skipped)
}

func runIngest(cmd *cobra.Command, opts *IngestOptions, src string) error {
	var r io.Reader = cmd.InOrStdin()
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open input", err)
		}
		defer f.Close()
		r = f
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	eng, err := opts.openEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	// Interrupts cancel the command context; SIGHUP reloads.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	go func() {
		for {
			select {
			case <-hup:
				opts.reload(eng)
			case <-ctx.Done():
				return
			}
		}
	}()

	stats, replayErr := ingest.Replay(ctx, r, eng, opts.Logger())
	if err := settle(context.WithoutCancel(ctx), eng); err != nil {
		return err
	}
	if replayErr != nil && ctx.Err() == nil {
		return WrapExitError(ExitFailure, "ingest failed", replayErr)
	}

	return opts.formatter(cmd).Success(ingestResult{
		Lines:    stats.Lines,
		Recorded: stats.Recorded,
		Skipped:  stats.Skipped,
	})
}

// reload re-reads the config file and applies its disabled actions. A bad
// file keeps the current settings.
func (o *RootOptions) reload(eng *engine.Engine) {
	cfg, err := o.loadConfig()
	if err != nil {
		o.Logger().Warn("config reload failed, keeping current settings", "path", o.Config, "error", err)
		return
	}
	if err := eng.Configure(cfg.DisabledActions()); err != nil {
		o.Logger().Warn("config reload not applied", "error", err)
		return
	}
	o.Logger().Info("config reloaded", "disabled", eng.DisabledActions())
}
