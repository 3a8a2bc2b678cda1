package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/grade-explorer/models"
	"github.com/vnkhanh/grade-explorer/services"
)

var queryOpts struct {
	file     string
	dataset  string
	sort     string
	category string
	search   string
	semester int
	missing  string
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter, search and sort a dataset in the terminal",
	Long: `Runs the same query the subject pages run and prints the rows.

Either point --file at a JSON document or name a configured --dataset.

Example:
  grade-explorer query --file data/semester7.json --sort desc --search alg`,
	RunE: runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryOpts.file, "file", "", "dataset JSON file or URL")
	f.StringVar(&queryOpts.dataset, "dataset", "", "configured dataset name")
	f.StringVar(&queryOpts.sort, "sort", "", "asc, desc or empty for source order")
	f.StringVar(&queryOpts.category, "category", "", "exact category; empty or all for every category")
	f.StringVar(&queryOpts.search, "search", "", "case-insensitive text matched against title and code")
	f.IntVar(&queryOpts.semester, "semester", 0, "semester filter (0 for all)")
	f.StringVar(&queryOpts.missing, "missing", string(models.MissingLast), "where subjects without a grade go: last or first")
}

func runQuery(cmd *cobra.Command, args []string) error {
	sortMode, err := services.ParseSortMode(queryOpts.sort)
	if err != nil {
		return err
	}

	spec, err := querySpec()
	if err != nil {
		return err
	}

	loader := services.NewLoader(cfg.DataDir, nil, logger)
	ds, err := loader.Load(context.Background(), spec)
	if err != nil {
		return err
	}

	engine := services.NewQueryEngine(services.EngineConfigFor(spec.Features))
	rows := engine.Run(ds.Subjects, services.QueryParams{
		Sort:     sortMode,
		Category: queryOpts.category,
		Search:   queryOpts.search,
		Semester: queryOpts.semester,
	})
	return renderTable(cmd.OutOrStdout(), rows)
}

func querySpec() (models.DatasetSpec, error) {
	var spec models.DatasetSpec
	switch {
	case queryOpts.file != "":
		spec = models.DatasetSpec{Name: queryOpts.file, Source: queryOpts.file}
	case queryOpts.dataset != "":
		found := false
		for _, ds := range cfg.Datasets {
			if ds.Name == queryOpts.dataset {
				spec, found = ds, true
				break
			}
		}
		if !found {
			return spec, fmt.Errorf("%w: %s", services.ErrDatasetNotFound, queryOpts.dataset)
		}
	default:
		return spec, fmt.Errorf("one of --file or --dataset is required")
	}

	switch models.MissingPolicy(queryOpts.missing) {
	case models.MissingFirst:
		spec.Features.Missing = models.MissingFirst
	case models.MissingLast, "":
	default:
		return spec, fmt.Errorf("--missing must be last or first")
	}
	return spec, nil
}

// renderTable prints the rows numbered from 1, a dash standing in for a
// missing grade.
func renderTable(w io.Writer, rows []models.Subject) error {
	t := newTextTable("#", "CODE", "TITLE", "CATEGORY", "SEM", "GRADE")
	for i, s := range rows {
		grade := "-"
		if v, ok := s.Grade.Float64(); ok {
			grade = strconv.FormatFloat(v, 'f', 2, 64)
		}
		sem := "-"
		if s.Semester != 0 {
			sem = strconv.Itoa(s.Semester)
		}
		t.addRow(strconv.Itoa(i+1), s.Code, s.Title, s.Category, sem, grade)
	}
	return t.render(w)
}
