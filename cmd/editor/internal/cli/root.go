// Package cli implements the editor command line.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document/client"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/fixtures"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/service"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// NewRootCmd builds the editor command tree. Flags can also be set through
// EDITOR_* environment variables (EDITOR_SERVICE_URL, EDITOR_LATENCY, ...).
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("editor")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "editor",
		Short: "Edit a draft post and move it through review",
		Long: `editor loads an owner's draft post, lets you change its title and body,
and saves, publishes, approves or rejects it.

Without --service-url the editor runs against an in-process document
service seeded with a sample draft for "agent-1"; every call then waits
--latency to simulate the network.

EXAMPLES:
  # Interactive session against the built-in sample
  editor

  # Owner without a draft
  editor session --owner pending

  # Against a running document service
  editor --service-url http://localhost:5002 fetch agent-1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			logger.Init(v.GetString("log-level"))
			return nil
		},
	}

	// --service_url and --service-url are the same flag
	root.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	pf := root.PersistentFlags()
	pf.String("service-url", "", "document service base URL (empty: in-process service)")
	pf.Duration("latency", 500*time.Millisecond, "simulated latency of the in-process service")
	pf.String("owner", fixtures.DefaultOwner, "owner whose draft is loaded")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")

	session := newSessionCmd(v)
	root.RunE = session.RunE
	root.AddCommand(session)
	root.AddCommand(newFetchCmd(v))
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// newClient returns an HTTP client for --service-url, or an in-process client
// over a seeded memory service.
func newClient(ctx context.Context, v *viper.Viper) (client.Client, error) {
	if u := v.GetString("service-url"); u != "" {
		c, err := client.NewHTTPClient(u)
		if err != nil {
			return nil, fmt.Errorf("service url: %w", err)
		}
		return c, nil
	}
	svc := service.NewMemoryService()
	if _, err := fixtures.Seed(ctx, svc, fixtures.DefaultOwner); err != nil {
		return nil, err
	}
	return client.NewLocalClient(svc, v.GetDuration("latency")), nil
}
