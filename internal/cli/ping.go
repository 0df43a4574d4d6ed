package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newPingCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that postgres answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			start := time.Now()
			st, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(ctx, st)

			if err := st.Guard(ctx); err != nil {
				return err
			}
			took := time.Since(start).Round(time.Millisecond)
			return render(opts, cmd.OutOrStdout(), map[string]any{"ok": true, "elapsed_ms": took.Milliseconds()},
				func() string { return "postgres ok in " + took.String() })
		},
	}
}
