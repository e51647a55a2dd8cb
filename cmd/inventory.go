package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pantry/internal/bootstrap"
	"pantry/internal/bootstrap/logging"
	"pantry/internal/domain/inventory"
	"pantry/internal/errs"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage pantry items",
}

var inventoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item to the pantry",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, _ *bootstrap.App, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		owner, _ := cmd.Flags().GetString("owner")
		quantity, _ := cmd.Flags().GetFloat64("quantity")
		unit, _ := cmd.Flags().GetString("unit")

		item, err := svc.Inventory.AddItem(ctx, inventory.NewItemInput{
			OwnerID:  owner,
			Name:     cmd.Flags().Arg(0),
			Quantity: quantity,
			Unit:     unit,
		})
		if err != nil {
			return errs.Wrap(err, "add item")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "added %s: %s %g %s\n", item.ID, item.Name, item.Quantity, item.Unit); err != nil {
			return errs.Wrap(err, "write inventory output")
		}
		return nil
	}),
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pantry items",
	RunE: withServices(func(cmd *cobra.Command, _ *bootstrap.App, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		owner, _ := cmd.Flags().GetString("owner")
		items, err := svc.Inventory.ListItems(ctx, owner)
		if err != nil {
			return errs.Wrap(err, "list items")
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tQUANTITY\tUNIT\tADDED")
		for _, item := range items {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s\n", item.ID, item.Name, item.Quantity, item.Unit, item.CreatedAt)
		}
		if err := tw.Flush(); err != nil {
			return errs.Wrap(err, "write inventory output")
		}
		return nil
	}),
}

var inventoryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an item from the pantry",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, _ *bootstrap.App, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		owner, _ := cmd.Flags().GetString("owner")
		id := cmd.Flags().Arg(0)
		if err := svc.Inventory.DeleteItem(ctx, owner, id); err != nil {
			return errs.Wrap(err, "remove item")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id); err != nil {
			return errs.Wrap(err, "write inventory output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventoryAddCmd, inventoryListCmd, inventoryRemoveCmd)

	inventoryCmd.PersistentFlags().String("owner", "local", "Owner id the items belong to")
	inventoryAddCmd.Flags().Float64("quantity", 1, "Quantity on hand")
	inventoryAddCmd.Flags().String("unit", "unit", "Unit (unit, g, kg, ml, l, cup, tbsp, tsp, pack)")
}
