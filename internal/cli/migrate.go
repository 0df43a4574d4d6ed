package cli

import (
	"fmt"

	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/store/migrate"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(apply func(*migrate.Runner) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			if opts.dbURL() == "" {
				return fmt.Errorf("database url is required: set --dburl or MEMBERSEARCH_DBURL")
			}
			r, err := migrate.Open(opts.dbURL(), *logger.Named("migrate"))
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()
			if err := apply(r); err != nil {
				return err
			}
			v, dirty, ok, err := r.Version()
			if err != nil {
				return err
			}
			return render(opts, cmd.OutOrStdout(), migrate.Status{Version: v, Dirty: dirty, Applied: ok}, func() string {
				if !ok {
					return "schema: none applied"
				}
				return fmt.Sprintf("schema: version %d dirty=%t", v, dirty)
			})
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE:  run(func(r *migrate.Runner) error { return r.Up() }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE:  run(func(r *migrate.Runner) error { return r.Down() }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE:  run(func(*migrate.Runner) error { return nil }),
	})
	return cmd
}
