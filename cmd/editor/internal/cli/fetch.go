package cli

import (
	"fmt"

	"github.com/gogotex/gogotex/backend/go-editor/cmd/editor/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newFetchCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [owner]",
		Short: "Print an owner's draft",
		Long: `Fetch and print the current draft of an owner once.

EXAMPLES:
  editor fetch agent-1
  editor --service-url http://localhost:5002 fetch pending`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := v.GetString("owner")
			if len(args) == 1 {
				owner = args[0]
			}
			c, err := newClient(cmd.Context(), v)
			if err != nil {
				return err
			}
			d, err := c.FetchDraft(cmd.Context(), owner)
			if err != nil {
				return fmt.Errorf("fetch draft for %s: %w", owner, err)
			}
			p := ui.NewPrinter(cmd.OutOrStdout())
			if d == nil {
				p.Info(fmt.Sprintf("No draft found for owner %q.", owner))
				return nil
			}
			p.Document(d)
			return nil
		},
	}
}
