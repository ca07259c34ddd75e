package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/stalk/internal/engine"
	"github.com/roach88/stalk/internal/event"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	NoAction     []string
	NoPlayerUUID bool
}

// flagAliases maps the short in-game spellings to the long flag names.
var flagAliases = map[string]string{
	"na":  "no-action",
	"npu": "no-player-uuid",
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <player> [limit]",
		Short: "Show recent activity for a player name prefix",
		Long: `Show the most recent records whose player name starts with <player>.

Matching is case-sensitive. The limit defaults to the configured default
and is capped at the configured maximum.

Example:
  stalk search Alice
  stalk search Al 50 --na CHAT,CHUNK_MOVE
  stalk search Bob --npu`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchActor(cmd, opts, args)
		},
	}

	cmd.Flags().StringSliceVar(&opts.NoAction, "no-action", nil, "comma-separated action kinds to exclude (alias --na)")
	cmd.Flags().BoolVar(&opts.NoPlayerUUID, "no-player-uuid", false, "omit player ids from output (alias --npu)")
	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if long, ok := flagAliases[name]; ok {
			name = long
		}
		return pflag.NormalizedName(name)
	})
	_ = cmd.RegisterFlagCompletionFunc("no-action", completeKinds)

	return cmd
}

func runSearchActor(cmd *cobra.Command, opts *SearchOptions, args []string) error {
	limit := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			// A non-numeric limit falls back to the default, as in-game.
			opts.Logger().Debug("ignoring invalid limit", "limit", args[1])
		} else {
			limit = n
		}
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	eng, err := opts.openEngine(cfg)
	if err != nil {
		return err
	}

	q := engine.ActorQuery{
		Prefix:          args[0],
		Limit:           limit,
		Exclude:         opts.NoAction,
		SuppressActorID: opts.NoPlayerUUID,
	}
	return runSearch(commandContext(cmd), eng, opts.formatter(cmd), func(sink engine.Sink) error {
		return eng.SearchByActor(q, sink)
	})
}

// completeKinds completes a comma-separated list of action kinds, keeping
// what was already typed and skipping kinds already listed.
func completeKinds(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	partial := toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		partial = toComplete[i+1:]
	}

	listed := event.NewKindSet(strings.Split(prefix, ",")...)
	partial = event.NormalizeKind(partial).String()

	var out []string
	for _, k := range event.Kinds() {
		if listed.Has(k) {
			continue
		}
		if strings.HasPrefix(k.String(), partial) {
			out = append(out, prefix+k.String())
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
