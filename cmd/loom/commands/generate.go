package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/loomhq/loom"
	"github.com/loomhq/loom/internal/printer"
	"github.com/loomhq/loom/internal/xjson"
)

var (
	generateInput   string
	generateOut     string
	generateConfig  string
	generateArchive bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate content pages from a product record",
	Long: `Generate runs the built-in units (parser, questions, product, comparison,
faq) over the product record in --input and writes one JSON file per
succeeded unit into --out.

The generation provider is configured via --config and the LOOM_API_KEY
environment variable. A failing unit skips its dependents but leaves the
rest of the run intact; partial results are still written.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Product record file (YAML or JSON)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "./out", "Directory for generated pages")
	generateCmd.Flags().StringVarP(&generateConfig, "config", "c", "", "Engine config file (YAML)")
	generateCmd.Flags().BoolVar(&generateArchive, "archive", false, "Archive the run result")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	record, err := loadRecord(generateInput)
	if err != nil {
		printer.Failure("failed to load record: %v\n", err)
		return err
	}

	config := loom.DefaultConfig()
	if generateConfig != "" {
		config, err = loom.LoadConfig(generateConfig)
		if err != nil {
			printer.Failure("failed to load config: %v\n", err)
			return err
		}
	}
	if key := os.Getenv("LOOM_API_KEY"); key != "" {
		config.Provider.APIKey = key
	}
	if generateArchive {
		config.Archive.Enabled = true
	}

	engine, err := loom.New(config)
	if err != nil {
		printer.Failure("failed to start engine: %v\n", err)
		return err
	}
	defer engine.Close()

	for _, unit := range loom.DefaultUnits(engine) {
		if err := engine.RegisterUnit(unit); err != nil {
			return err
		}
	}

	printer.Step("generating content for %q\n", record.StringField("name"))
	result, err := engine.Run(ctx, record)
	if err != nil {
		printer.Failure("run aborted: %v\n", err)
		return err
	}

	if err := os.MkdirAll(generateOut, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, name := range result.Succeeded() {
		output, _ := result.Output(name)
		data, err := xjson.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s output: %w", name, err)
		}
		path := filepath.Join(generateOut, name+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printer.Success("%s → %s\n", name, path)
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

	if result.Cancelled {
		printer.Warning("run cancelled before completion\n")
	}
	printer.Printf("run %s: %d succeeded, %d failed, %d skipped\n",
		result.RunID, len(result.Succeeded()), len(result.Failed()), len(result.Skipped()))

	if len(result.Succeeded()) == 0 {
		return fmt.Errorf("no unit produced output")
	}
	return nil
}

func loadRecord(path string) (loom.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record loom.Record
	if strings.HasSuffix(path, ".json") {
		if err := xjson.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if len(record) == 0 {
		return nil, fmt.Errorf("record %s is empty", path)
	}
	return record, nil
}
