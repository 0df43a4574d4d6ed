package cli

import (
	"fmt"

	membersrepo "membersearch/internal/services/api/members/repo"
	"membersearch/internal/services/api/members/seed"

	"github.com/spf13/cobra"
)

type seedOptions struct {
	dataset string
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	so := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all teams and members with a seed dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := seed.ByName(so.dataset)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(ctx, st)

			if err := seed.Load(ctx, st.PG, membersrepo.NewPG(), d); err != nil {
				return err
			}
			summary := struct {
				Dataset string `json:"dataset"`
				Teams   int    `json:"teams"`
				Members int    `json:"members"`
			}{d.Name, len(d.Teams), len(d.Members)}
			return render(opts, cmd.OutOrStdout(), summary, func() string {
				return fmt.Sprintf("seeded %s: %d teams, %d members", d.Name, len(d.Teams), len(d.Members))
			})
		},
	}
	cmd.Flags().StringVar(&so.dataset, "dataset", "demo", "dataset to load (demo|scenario)")
	return cmd
}
