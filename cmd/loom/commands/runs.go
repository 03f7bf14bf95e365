package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom"
	"github.com/loomhq/loom/internal/adapters/archive"
	"github.com/loomhq/loom/internal/printer"
)

var (
	runsLimit  int
	runsConfig string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived runs",
	Long: `Runs lists archived run results, newest first. Runs are archived when
generate is invoked with --archive.`,
	RunE: runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one archived run with its execution trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to show")
	runsCmd.PersistentFlags().StringVarP(&runsConfig, "config", "c", "", "Engine config file (YAML)")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func openArchive() (*archive.Store, error) {
	config := loom.DefaultConfig()
	if runsConfig != "" {
		loaded, err := loom.LoadConfig(runsConfig)
		if err != nil {
			printer.Failure("failed to load config: %v\n", err)
			return nil, err
		}
		config = loaded
	}

	store, err := archive.Open(config.Archive.Path, nil)
	if err != nil {
		printer.Failure("failed to open archive: %v\n", err)
		return nil, err
	}
	return store, nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		printer.Printf("no archived runs\n")
		return nil
	}

	printer.Printf("%-38s %-20s %10s %8s %8s\n", "RUN", "STARTED", "SUCCEEDED", "FAILED", "SKIPPED")
	for _, summary := range summaries {
		printer.Printf("%-38s %-20s %10d %8d %8d\n",
			summary.RunID,
			summary.StartedAt.Local().Format("2006-01-02 15:04:05"),
			summary.Succeeded,
			summary.Failed,
			summary.Skipped,
		)
	}
	fmt.Println()
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.GetRun(cmd.Context(), args[0])
	if err != nil {
		printer.Failure("failed to load run: %v\n", err)
		return err
	}

	printer.Printf("run %s\n", result.RunID)
	printer.Printf("started   %s\n", result.StartedAt.Local().Format("2006-01-02 15:04:05"))
	printer.Printf("completed %s\n", result.CompletedAt.Local().Format("2006-01-02 15:04:05"))
	if result.Cancelled {
		printer.Warning("run was cancelled before completion\n")
	}
	fmt.Println()

	for _, name := range result.Succeeded() {
		printer.Success("%s succeeded\n", name)
	}
	for _, name := range result.Failed() {
		detail := ""
		if unitResult, ok := result.Units[name]; ok && unitResult.Error != nil {
			detail = *unitResult.Error
		}
		printer.Failure("%s failed: %s\n", name, detail)
	}
	for _, name := range result.Skipped() {
		printer.Warning("%s skipped\n", name)
	}

	printer.Printf("\ntrace:\n")
	for _, event := range result.Trace {
		printer.Printf("  %3d  %-20s %-10s %s\n",
			event.Seq, event.Unit, event.Transition, event.At.Local().Format("15:04:05.000"))
	}
	return nil
}
