package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/riseplan/internal/output"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage saved runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved runs")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSAVED\tFINAL CAPITAL\tINCOME/MONTH\tGOAL")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID,
				r.Name,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				output.FormatCurrency(r.FinalCapital),
				output.FormatCurrency(r.MonthlyIncomeAfterTax),
				output.FormatGoal(r.GoalReachedAt))
		}
		return tw.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return output.GenerateReport(cmd.OutOrStdout(), output.ReportFromRun(&run), format)
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a saved run as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		data, err := output.CSVFormatter{}.Format(output.ReportFromRun(&run))
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run %s exported to %s\n", run.ID, path)
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		logger.WithField("run_id", args[0]).Info("run deleted")
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
		return nil
	},
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 uses the store default)")
	runsShowCmd.Flags().StringP("format", "f", "console", "Output format (console, console-verbose, json, csv, html)")
	runsExportCmd.Flags().String("file", "", "Write the CSV to this file instead of stdout")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsExportCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}
