package cli

import (
	"fmt"

	"membersearch/internal/core/version"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bi := version.Info()
			return render(opts, cmd.OutOrStdout(), bi, func() string {
				s := fmt.Sprintf("membersearch %s (commit %s", bi.Version, bi.Commit)
				if bi.GoVersion != "" {
					s += ", " + bi.GoVersion
				}
				return s + ")"
			})
		},
	}
}
