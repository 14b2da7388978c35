// Package catalog provides the command that browses the storefront catalog.
package catalog

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/wishlist/cmd/application"
	cat "github.com/agentstation/wishlist/internal/catalog"
	"github.com/agentstation/wishlist/internal/cmd/output"
	"github.com/agentstation/wishlist/pkg/items"
)

// NewCommand creates the catalog command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		kind     string
		category string
		store    string
	)

	cmd := &cobra.Command{
		Use:     "catalog [id]",
		GroupID: "core",
		Short:   "Browse catalog products and services",
		Example: `  wishlist catalog --kind service
  wishlist catalog anaqa-prod1 -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Catalog()
			if err != nil {
				return err
			}
			format := output.Format(app.OutputFormat())

			if len(args) == 1 {
				it, err := c.Get(args[0])
				if err != nil {
					return err
				}
				if format.IsTable() {
					format = output.FormatWide
				}
				return output.FormatItems(cmd.OutOrStdout(), []items.Item{it}, format)
			}

			f := cat.Filter{Category: category, Store: store}
			if kind != "" {
				if f.Kind, err = items.ParseKind(kind); err != nil {
					return err
				}
			}
			return output.FormatItems(cmd.OutOrStdout(), c.List(f), format)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "purchasable or service")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&store, "store", "", "filter by store slug")
	return cmd
}
