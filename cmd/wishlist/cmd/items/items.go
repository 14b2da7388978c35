// Package items provides the commands that read and change the wishlist.
package items

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/wishlist/cmd/application"
	"github.com/agentstation/wishlist/internal/cmd/output"
	"github.com/agentstation/wishlist/pkg/collection"
	"github.com/agentstation/wishlist/pkg/items"
	"github.com/agentstation/wishlist/pkg/logging"
)

// NewListCommand creates the list command.
func NewListCommand(app application.Application) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "core",
		Short:   "Show the wishlist",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.Wishlist()
			if err != nil {
				return err
			}

			list := store.State().Items()
			if kind != "" {
				k, err := items.ParseKind(kind)
				if err != nil {
					return err
				}
				list = filterKind(list, k)
			}

			return output.FormatItems(cmd.OutOrStdout(), list, output.Format(app.OutputFormat()))
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only show purchasable or service items")
	return cmd
}

// NewAddCommand creates the add command. Items are looked up in the
// catalog by id.
func NewAddCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "add <id>...",
		GroupID: "core",
		Short:   "Add catalog items to the wishlist",
		Example: `  wishlist add anaqa-prod1 lamsa-serv1`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.Catalog()
			if err != nil {
				return err
			}

			// resolve every id before changing anything
			toAdd := make([]items.Item, 0, len(args))
			for _, id := range args {
				it, err := cat.Get(id)
				if err != nil {
					return err
				}
				toAdd = append(toAdd, it)
			}

			store, err := app.Wishlist()
			if err != nil {
				return err
			}
			ctx := actionContext(cmd, app, collection.ActionAdd)
			for _, it := range toAdd {
				if !store.Add(it) {
					logging.FromContext(logging.WithItemID(ctx, it.ID)).Info().Msg("Already on the wishlist")
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", it.ID, it.Name)
			}
			return nil
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		GroupID: "core",
		Short:   "Remove items from the wishlist",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Wishlist()
			if err != nil {
				return err
			}
			ctx := actionContext(cmd, app, collection.ActionRemove)
			for _, id := range args {
				if !store.Remove(id) {
					logging.FromContext(logging.WithItemID(ctx, id)).Info().Msg("Not on the wishlist")
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			}
			return nil
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		GroupID: "core",
		Short:   "Remove every item from the wishlist",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.Wishlist()
			if err != nil {
				return err
			}
			n := store.State().Len()
			store.Dispatch(collection.Load{Items: nil})
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d item(s)\n", n)
			return nil
		},
	}
}

// actionContext carries the app logger tagged with the action a command
// dispatches.
func actionContext(cmd *cobra.Command, app application.Application, action collection.ActionType) context.Context {
	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	return logging.WithAction(ctx, action.String())
}

func filterKind(list []items.Item, kind items.Kind) []items.Item {
	out := make([]items.Item, 0, len(list))
	for _, it := range list {
		if it.Kind() == kind {
			out = append(out, it)
		}
	}
	return out
}
