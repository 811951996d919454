package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"goclean/app"
	"goclean/domain/cleaning"
	"goclean/internal/container"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	processConfigPath    string
	processDecisionsPath string
	processOut           string
	processFormat        string
	processIncludeFlags  bool
	processKeepText      bool
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Run the cleaning pipeline and write the cleaned dataset",
	Long: `Run the cleaning pipeline on a CSV or Excel file.

Mixed-type columns need decisions. Pass them with --decisions (YAML or JSON,
column name to action) or use --keep-text to keep every mixed column as text.

Example: goclean process sales.xlsx --config clean.yaml --decisions decisions.yaml --format excel`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readProcessingConfig(processConfigPath)
		if err != nil {
			return err
		}
		decisions, err := readDecisions(processDecisionsPath)
		if err != nil {
			return err
		}
		if decisions == nil && processKeepText {
			decisions = cleaning.Decisions{}
		}

		deps, err := container.New(appConfig)
		if err != nil {
			return err
		}
		ds, name, err := readDataset(cmd.Context(), deps, args[0])
		if err != nil {
			return err
		}

		run, err := deps.Pipeline.Run(cmd.Context(), app.RunRequest{
			Dataset:   ds,
			Filename:  name,
			Config:    cfg,
			Decisions: decisions,
		})
		if err != nil {
			return err
		}
		if run.RequiresDecisions() {
			w := cmd.ErrOrStderr()
			fmt.Fprintln(w, "Mixed columns need decisions:")
			printCandidates(w, run.Candidates)
			return fmt.Errorf("%d mixed columns need decisions; pass --decisions or --keep-text", len(run.Candidates))
		}

		out, err := deps.Export.Export(cmd.Context(), app.ExportRequest{
			VersionID: run.Version.ID,
			Format:    app.ExportFormat(processFormat),
			Options:   app.ExportOptions{IncludeFlags: processIncludeFlags},
		})
		if err != nil {
			return err
		}
		target := processOut
		if target == "" {
			target = filepath.Join(filepath.Dir(args[0]), out.Filename)
		}
		if err := os.WriteFile(target, out.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}

		printRun(cmd.OutOrStdout(), run.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", target)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processConfigPath, "config", "", "processing config file (.yaml, .yml or .json)")
	processCmd.Flags().StringVar(&processDecisionsPath, "decisions", "", "column decisions file (.yaml, .yml or .json)")
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "output path (default: cleaned file next to the input)")
	processCmd.Flags().StringVar(&processFormat, "format", string(app.FormatCSV), "export format: csv, excel, json, summary_dashboard, api_endpoint")
	processCmd.Flags().BoolVar(&processIncludeFlags, "include-flags", false, "add a _flagged column to csv, excel and json exports")
	processCmd.Flags().BoolVar(&processKeepText, "keep-text", false, "keep undecided mixed columns as text")
	rootCmd.AddCommand(processCmd)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readProcessingConfig loads a config file; an empty path is the default config
func readProcessingConfig(path string) (*cleaning.ProcessingConfig, error) {
	if path == "" {
		return cleaning.DefaultProcessingConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if !isYAML(path) {
		return cleaning.ParseConfig(data)
	}
	var raw cleaning.ProcessingConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cleaning.NewProcessingConfig(raw)
}

// readDecisions loads a decisions file; an empty path means no decisions
func readDecisions(path string) (cleaning.Decisions, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decisions: %w", err)
	}
	if !isYAML(path) {
		return cleaning.ParseDecisions(data)
	}
	decisions := cleaning.Decisions{}
	if err := yaml.Unmarshal(data, &decisions); err != nil {
		return nil, fmt.Errorf("parse decisions %s: %w", path, err)
	}
	return decisions, nil
}

func printRun(w io.Writer, v *cleaning.Version) {
	s := v.Summary
	fmt.Fprintf(w, "Version %s\n", v.ID)
	fmt.Fprintf(w, "Rows: %d -> %d  Columns: %d\n", s.RowsOriginal, s.RowsCleaned, s.Columns)
	fmt.Fprintf(w, "Missing: %d -> %d  Outliers: %d  Rules: %d  Flagged rows: %d\n",
		s.MissingValuesBefore, s.MissingValuesAfter, s.OutliersDetected, s.RulesApplied, s.RowsFlagged)
	fmt.Fprintln(w, "\nAudit trail:")
	for i, entry := range v.AuditTrail {
		fmt.Fprintf(w, "%3d. %s\n", i+1, entry)
	}
}
