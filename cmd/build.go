package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vnkhanh/grade-explorer/services"
)

var buildOpts struct {
	results  string
	sheet    string
	legend   string
	semester int
	out      string
	summary  string
	syllabi  string
	pdfDir   string
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a semester document from a results workbook",
	Long: `Reads per-student grades from an .xlsx results workbook, averages them per
subject, names each subject from the legend PDF and writes the semester
document the subject pages load.

Example:
  grade-explorer build --results all_branches_results.xlsx \
    --legend subject_names.pdf --semester 5 --out data/semester5.json`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildOpts.results, "results", "", "results workbook (.xlsx)")
	f.StringVar(&buildOpts.sheet, "sheet", "", "sheet name (default: first sheet)")
	f.StringVar(&buildOpts.legend, "legend", "", "PDF listing subject codes and titles")
	f.IntVar(&buildOpts.semester, "semester", 0, "semester number (1-8)")
	f.StringVar(&buildOpts.out, "out", "", "output JSON file (default: stdout)")
	f.StringVar(&buildOpts.summary, "summary-xlsx", "", "also write the per-subject summary workbook")
	f.StringVar(&buildOpts.syllabi, "syllabi", "", "JSON map of subject code to syllabus URL")
	f.StringVar(&buildOpts.pdfDir, "legend-dir", "", "folder of result PDFs searched for titles the legend lacks")
	_ = buildCmd.MarkFlagRequired("results")
	_ = buildCmd.MarkFlagRequired("legend")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildOpts.semester < 1 || buildOpts.semester > 8 {
		return fmt.Errorf("--semester must be between 1 and 8")
	}

	in, err := os.Open(buildOpts.results)
	if err != nil {
		return err
	}
	defer in.Close()

	rows, err := services.ReadResultRows(in, buildOpts.sheet)
	if err != nil {
		return err
	}
	summaries := services.AggregateResults(rows)
	logger.Info("results aggregated", zap.Int("rows", len(rows)), zap.Int("subjects", len(summaries)))

	legend, err := services.ReadLegendPDF(buildOpts.legend)
	if err != nil {
		return err
	}

	var texts []services.PDFText
	if untitled := services.UntitledCodes(summaries, legend); len(untitled) > 0 && buildOpts.pdfDir != "" {
		texts, err = services.LoadPDFTexts(cmd.Context(), buildOpts.pdfDir, logger)
		if err != nil {
			return err
		}
		filled := services.FillLegend(legend, untitled, texts)
		logger.Info("titles filled from result pdfs", zap.Strings("codes", filled))
	}

	syllabi := map[string]string{}
	if buildOpts.syllabi != "" {
		data, err := os.ReadFile(buildOpts.syllabi)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &syllabi); err != nil {
			return fmt.Errorf("decode %s: %w", buildOpts.syllabi, err)
		}
	}

	doc, skipped := services.BuildSemesterDocument(buildOpts.semester, summaries, legend, syllabi, logger)
	if len(skipped) > 0 {
		logger.Warn("subjects without title left out", zap.Strings("codes", skipped))
		plan, unlocated := services.PlanVisits(services.LocateCodes(skipped, texts))
		for i, step := range plan {
			logger.Info("look up titles", zap.Int("order", i+1), zap.String("pdf", step.File), zap.Strings("codes", step.Codes))
		}
		if len(unlocated) > 0 && len(texts) > 0 {
			logger.Warn("codes not found in any pdf", zap.Strings("codes", unlocated))
		}
	}

	if buildOpts.summary != "" {
		if err := writeFile(buildOpts.summary, func(f *os.File) error {
			return services.WriteSummaryWorkbook(f, summaries, legend)
		}); err != nil {
			return err
		}
	}

	if buildOpts.out == "" {
		return services.WriteDocument(cmd.OutOrStdout(), doc)
	}
	if err := writeFile(buildOpts.out, func(f *os.File) error {
		return services.WriteDocument(f, doc)
	}); err != nil {
		return err
	}
	logger.Info("semester document written", zap.String("path", buildOpts.out), zap.Int("subjects", len(doc.Subjects)))
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
