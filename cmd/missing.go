package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vnkhanh/grade-explorer/services"
)

var missingOpts struct {
	results string
	sheet   string
	legend  string
	dir     string
	out     string
}

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "Find which result PDFs mention subjects the legend has no title for",
	Long: `Aggregates the results workbook, collects every subject code the legend
cannot name and searches a folder of result PDFs for each of them. Prints
where each code appears and the order to open the PDFs in so that every
code is covered with as few files as possible.

Example:
  grade-explorer missing --results all_branches_results.xlsx \
    --legend subject_names.pdf --dir Results`,
	RunE: runMissing,
}

func init() {
	f := missingCmd.Flags()
	f.StringVar(&missingOpts.results, "results", "", "results workbook (.xlsx)")
	f.StringVar(&missingOpts.sheet, "sheet", "", "sheet name (default: first sheet)")
	f.StringVar(&missingOpts.legend, "legend", "", "PDF listing subject codes and titles (optional)")
	f.StringVar(&missingOpts.dir, "dir", "", "folder searched recursively for result PDFs")
	f.StringVar(&missingOpts.out, "out", "", "also write the report as JSON")
	_ = missingCmd.MarkFlagRequired("results")
	_ = missingCmd.MarkFlagRequired("dir")
}

func runMissing(cmd *cobra.Command, args []string) error {
	in, err := os.Open(missingOpts.results)
	if err != nil {
		return err
	}
	defer in.Close()

	rows, err := services.ReadResultRows(in, missingOpts.sheet)
	if err != nil {
		return err
	}
	summaries := services.AggregateResults(rows)

	legend := services.Legend{}
	if missingOpts.legend != "" {
		if legend, err = services.ReadLegendPDF(missingOpts.legend); err != nil {
			return err
		}
	}

	codes := services.UntitledCodes(summaries, legend)
	logger.Info("untitled subjects", zap.Int("subjects", len(summaries)), zap.Int("untitled", len(codes)))

	texts, err := services.LoadPDFTexts(cmd.Context(), missingOpts.dir, logger)
	if err != nil {
		return err
	}
	report := services.BuildMissingReport(codes, texts)

	if err := renderMissingReport(cmd.OutOrStdout(), missingOpts.dir, report); err != nil {
		return err
	}
	if missingOpts.out == "" {
		return nil
	}
	return writeFile(missingOpts.out, func(f *os.File) error {
		return services.WriteDocument(f, report)
	})
}

// renderMissingReport prints the code locations and the visit order with
// paths shown relative to dir.
func renderMissingReport(w io.Writer, dir string, report services.MissingReport) error {
	rel := func(path string) string {
		if r, err := filepath.Rel(dir, path); err == nil {
			return r
		}
		return path
	}

	locations := newTextTable("CODE", "FOUND IN")
	for _, loc := range report.Locations {
		files := make([]string, 0, len(loc.Files))
		for _, f := range loc.Files {
			files = append(files, rel(f))
		}
		found := strings.Join(files, ";")
		if found == "" {
			found = "-"
		}
		locations.addRow(loc.Code, found)
	}
	if err := locations.render(w); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nNeed to visit %d PDFs in this order:\n", len(report.Order))
	order := newTextTable("#", "PDF", "COVERS", "CODES")
	for i, step := range report.Order {
		order.addRow(strconv.Itoa(i+1), rel(step.File), strconv.Itoa(len(step.Codes)), strings.Join(step.Codes, " "))
	}
	return order.render(w)
}
