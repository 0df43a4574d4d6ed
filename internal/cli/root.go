// Package cli implements the membersearch admin command
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ValidFormats are the accepted --format values
var ValidFormats = []string{"text", "json"}

// rootOptions holds the resolved global settings
type rootOptions struct {
	v   *viper.Viper
	out io.Writer
}

func (o *rootOptions) dbURL() string    { return o.v.GetString("dburl") }
func (o *rootOptions) format() string   { return o.v.GetString("format") }
func (o *rootOptions) logLevel() string { return o.v.GetString("log_level") }

// NewRootCommand builds the command tree
// flags win over MEMBERSEARCH_* env vars which win over defaults
func NewRootCommand(out io.Writer) *cobra.Command {
	cmd, _ := newRoot(out)
	return cmd
}

func newRoot(out io.Writer) (*cobra.Command, *rootOptions) {
	v := viper.New()
	v.SetEnvPrefix("MEMBERSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("statement_timeout", "30s")

	opts := &rootOptions{v: v, out: out}

	cmd := &cobra.Command{
		Use:           "membersearch",
		Short:         "Member search admin tool",
		Long:          "Applies the schema, loads seed data and runs member searches against postgres.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !isValidFormat(opts.format()) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.format(), ValidFormats)
			}
			logger.Init(logger.Options{
				Level:     opts.logLevel(),
				Format:    "console",
				Service:   "membersearch",
				Component: cmd.Name(),
				Writer:    cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	cmd.SetOut(out)

	pf := cmd.PersistentFlags()
	pf.String("dburl", "", "postgres url (env MEMBERSEARCH_DBURL)")
	pf.String("log-level", "info", "log level (env MEMBERSEARCH_LOG_LEVEL)")
	pf.String("format", "text", "output format (text|json)")
	_ = v.BindPFlag("dburl", pf.Lookup("dburl"))
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("format", pf.Lookup("format"))

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newPingCommand(opts))
	cmd.AddCommand(newVersionCommand(opts))
	return cmd, opts
}

// Execute runs the command tree with ctx
func Execute(ctx context.Context, out io.Writer, args []string) error {
	cmd := NewRootCommand(out)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openStore connects to postgres with the resolved url
func (o *rootOptions) openStore(ctx context.Context) (*store.Store, error) {
	url := o.dbURL()
	if url == "" {
		return nil, fmt.Errorf("database url is required: set --dburl or MEMBERSEARCH_DBURL")
	}
	return store.Open(ctx,
		store.Config{
			AppName: "membersearch-cli",
			PG: store.PGConfig{
				Enabled:          true,
				URL:              url,
				MaxConns:         4,
				SlowQueryMs:      500,
				LogSQL:           o.logLevel() == "debug" || o.logLevel() == "trace",
				StatementTimeout: o.v.GetDuration("statement_timeout"),
				ConnectRetries:   1,
			},
		},
		store.WithLogger(*logger.Get()),
	)
}

func closeStore(ctx context.Context, st *store.Store) {
	if err := st.Close(ctx); err != nil {
		logger.C(ctx).Error().Err(err).Msg("failed to close store")
	}
}
