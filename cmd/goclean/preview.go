package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"goclean/app"
	"goclean/domain/datareadiness/profiling"
	"goclean/domain/table"
	"goclean/internal/container"

	"github.com/spf13/cobra"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Profile a dataset and list columns that need decisions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := container.New(appConfig)
		if err != nil {
			return err
		}
		ds, _, err := readDataset(cmd.Context(), deps, args[0])
		if err != nil {
			return err
		}
		preview, err := deps.Preview.Preview(cmd.Context(), ds)
		if err != nil {
			return err
		}
		if previewJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(preview)
		}
		printPreview(cmd.OutOrStdout(), preview)
		return nil
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "print the preview as JSON")
	rootCmd.AddCommand(previewCmd)
}

// readDataset opens a local CSV or Excel file through the container's reader
func readDataset(ctx context.Context, deps *container.Container, path string) (*table.Dataset, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	name := filepath.Base(path)
	ds, err := deps.Reader.Read(ctx, f, name)
	if err != nil {
		return nil, "", err
	}
	return ds, name, nil
}

func printPreview(w io.Writer, p *app.Preview) {
	fmt.Fprintf(w, "Rows: %d  Duplicates: %d  Quality score: %.1f\n\n", p.TotalRows, p.DuplicateRows, p.DataQualityScore)

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tMISSING\tUNIQUE")
	for _, c := range p.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.Name, c.Type, c.MissingCount, c.UniqueCount)
	}
	tw.Flush()

	if len(p.MixedColumns) > 0 {
		fmt.Fprintln(w, "\nMixed columns:")
		printCandidates(w, p.MixedColumns)
	}
	if len(p.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range p.Recommendations {
			fmt.Fprintf(w, "- %s\n", r)
		}
	}
}

func printCandidates(w io.Writer, candidates []profiling.MixedColumnCandidate) {
	for _, c := range candidates {
		fmt.Fprintf(w, "- %s (numeric %.0f%%, text %.0f%%, date %.0f%%)\n",
			c.Column, c.Ratios.NumericRatio*100, c.Ratios.TextRatio*100, c.Ratios.DateRatio*100)
		for _, s := range c.Suggestions {
			fmt.Fprintf(w, "    %s [%s] %s\n", s.Action, s.Confidence, s.Description)
		}
	}
}
