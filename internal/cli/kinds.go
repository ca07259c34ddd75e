package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stalk/internal/event"
)

// NewKindsCommand creates the kinds command.
func NewKindsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the action kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := event.Kinds()
			names := make([]string, len(kinds))
			for i, k := range kinds {
				names[i] = k.String()
			}
			out := rootOpts.formatter(cmd)
			if out.Format == "json" {
				return out.Success(names)
			}
			return out.Success(strings.Join(names, "\n"))
		},
	}
}
