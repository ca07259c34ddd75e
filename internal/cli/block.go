package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/stalk/internal/engine"
	"github.com/roach88/stalk/internal/event"
)

// BlockOptions holds flags for the block command.
type BlockOptions struct {
	*RootOptions
	Limit int
}

// NewBlockCommand creates the block command.
func NewBlockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BlockOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "block <world> <x> <y> <z>",
		Short: "Show the history of one block position",
		Long: `Show the most recent records of any action kind at an exact block
position. Put "--" before the position when a coordinate is negative.

Example:
  stalk block world 10 64 3
  stalk block --limit 25 -- world_nether 0 70 -12`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlock(cmd, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum records to show (0 = configured default)")

	return cmd
}

func runBlock(cmd *cobra.Command, opts *BlockOptions, args []string) error {
	loc, err := parseLocation(args[0], args[1:])
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	eng, err := opts.openEngine(cfg)
	if err != nil {
		return err
	}

	return runSearch(commandContext(cmd), eng, opts.formatter(cmd), func(sink engine.Sink) error {
		return eng.SearchByLocation(loc, opts.Limit, sink)
	})
}

// parseLocation reads x, y and z block coordinates.
func parseLocation(world string, coords []string) (event.Location, error) {
	if len(coords) != 3 {
		return event.Location{}, NewExitError(ExitCommandError, "expected x, y and z coordinates")
	}
	var xyz [3]int
	for i, s := range coords {
		n, err := strconv.Atoi(s)
		if err != nil {
			return event.Location{}, WrapExitError(ExitCommandError, fmt.Sprintf("invalid coordinate %q", s), err)
		}
		xyz[i] = n
	}
	return event.Location{World: world, X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
