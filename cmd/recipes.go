package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pantry/internal/bootstrap"
	"pantry/internal/bootstrap/logging"
	"pantry/internal/domain/recipe"
	"pantry/internal/errs"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Search recipes with the pantry contents",
}

var recipesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search recipes that use the owner's inventory",
	RunE: withServices(func(cmd *cobra.Command, _ *bootstrap.App, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		owner, _ := cmd.Flags().GetString("owner")
		filters := recipe.Filters{}
		filters.Diet, _ = cmd.Flags().GetString("diet")
		filters.MaxCalories, _ = cmd.Flags().GetInt("max-calories")
		filters.MaxCarbs, _ = cmd.Flags().GetInt("max-carbs")
		filters.MaxProtein, _ = cmd.Flags().GetInt("max-protein")
		filters.MaxSugar, _ = cmd.Flags().GetInt("max-sugar")

		results, err := svc.Recipes.Search(ctx, owner, filters)
		if err != nil {
			return errs.Wrap(err, "search recipes")
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSONOutput(cmd, results)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tUSED\tMISSING")
		for _, r := range results {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", r.ID, r.Title, r.UsedIngredientCount, r.MissedIngredientCount)
		}
		if err := tw.Flush(); err != nil {
			return errs.Wrap(err, "write recipes output")
		}
		return nil
	}),
}

var recipesDetailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Show one recipe",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, _ *bootstrap.App, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, err := strconv.ParseInt(cmd.Flags().Arg(0), 10, 64)
		if err != nil {
			return errs.Invalid(recipe.ErrInvalidRecipeID)
		}

		detail, err := svc.Recipes.Details(ctx, id)
		if err != nil {
			return errs.Wrap(err, "fetch recipe")
		}
		return writeJSONOutput(cmd, detail)
	}),
}

func writeJSONOutput(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return errs.Wrap(err, "write json output")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(recipesCmd)
	recipesCmd.AddCommand(recipesSearchCmd, recipesDetailsCmd)

	recipesSearchCmd.Flags().String("owner", "local", "Owner id whose inventory is searched")
	recipesSearchCmd.Flags().String("diet", "", "Diet filter, e.g. vegetarian")
	recipesSearchCmd.Flags().Int("max-calories", 0, "Maximum calories per serving")
	recipesSearchCmd.Flags().Int("max-carbs", 0, "Maximum carbohydrates (g) per serving")
	recipesSearchCmd.Flags().Int("max-protein", 0, "Maximum protein (g) per serving")
	recipesSearchCmd.Flags().Int("max-sugar", 0, "Maximum sugar (g) per serving")
	recipesSearchCmd.Flags().Bool("json", false, "Print results as JSON")
}
