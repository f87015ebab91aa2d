package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/config"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/logging"
	"github.com/rgehrsitz/riseplan/internal/output"
	"github.com/rgehrsitz/riseplan/internal/storage/sqlite"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Process settings, filled by the root command before any subcommand runs.
var (
	appCfg config.AppConfig
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "riseplan",
	Short: "Savings projection calculator CLI",
	Long: `Projects month by month how savings grow under a deposit schedule, how much tax the
final capital carries and what monthly income it can pay out after tax.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAppConfig()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("db") {
			cfg.DBPath, _ = flags.GetString("db")
		}
		if flags.Changed("log-level") {
			cfg.LogLevel, _ = flags.GetString("log-level")
		}
		if flags.Changed("log-format") {
			cfg.LogFormat, _ = flags.GetString("log-format")
		}
		appCfg = cfg
		logger = logging.New(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "riseplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// loadPlan reads and validates a plan file. A plan without a name takes the file's base name.
func loadPlan(path string) (*config.PlanFile, error) {
	plan, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if plan.Name == "" {
		plan.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return plan, nil
}

// newEngine builds a projection engine, logging through logger when debug is set.
func newEngine(debugMode bool) *calculation.ProjectionEngine {
	engine := calculation.NewProjectionEngine()
	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		engine.SetLogger(logger)
	}
	return engine
}

func openStore() (*sqlite.Store, error) {
	store, err := sqlite.Open(appCfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open run store %s: %w", appCfg.DBPath, err)
	}
	return store, nil
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [plan-file]",
	Short: "Project a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		debugMode, _ := cmd.Flags().GetBool("debug")
		in := plan.ToSimulationInput()
		result, err := newEngine(debugMode).Project(cmd.Context(), in)
		if err != nil {
			return err
		}

		report := output.NewReport(plan.Name, in, result)

		if cmd.Flags().Changed("save") {
			saveName, _ := cmd.Flags().GetString("save")
			saveName = strings.TrimSpace(saveName)
			if saveName == "" {
				saveName = plan.Name
			}
			if err := saveRun(cmd.Context(), saveName, in, result); err != nil {
				return err
			}
		}

		format := appCfg.DefaultFormat
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		if dir, _ := cmd.Flags().GetString("output"); dir != "" {
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unsupported format: %s (available: %v)", format, output.AvailableFormatterNames())
			}
			path, err := output.WriteFormatted(f, report, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		}

		return output.GenerateReport(cmd.OutOrStdout(), report, format)
	},
}

func saveRun(ctx context.Context, name string, in domain.SimulationInput, result *domain.SimulationResult) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := store.SaveRun(ctx, domain.SavedRun{Name: name, Input: in, Result: *result})
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.WithFields(logrus.Fields{"run_id": saved.ID, "name": saved.Name}).Info("run saved")
	return nil
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadPlan(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the saved-run database (default $RISEPLAN_DB_PATH or riseplan.db)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")

	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, console-verbose, json, csv, html)")
	calculateCmd.Flags().String("save", "", "Save the run under this name (empty uses the plan name)")
	calculateCmd.Flags().Lookup("save").NoOptDefVal = " "
	calculateCmd.Flags().Bool("debug", false, "Log engine diagnostics")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report into this directory instead of stdout")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
