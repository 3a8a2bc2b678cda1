package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/vnkhanh/grade-explorer/models"
)

type SortMode string

const (
	SortNone SortMode = ""
	SortAsc  SortMode = "asc"
	SortDesc SortMode = "desc"
)

// ParseSortMode accepts the values the sort selectors send.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	default:
		return SortNone, fmt.Errorf("unknown sort mode %q", s)
	}
}

// QueryParams are the current values of the table controls.
type QueryParams struct {
	Sort     SortMode
	Category string // "" or "all" disables the filter
	Search   string // matched against title and code
	Semester int    // 0 disables the filter
}

// EngineConfig selects which optional features a dataset exposes.
type EngineConfig struct {
	Search         bool
	CategoryFilter bool
	Missing        models.MissingPolicy
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{Search: true, CategoryFilter: true, Missing: models.MissingLast}
}

func EngineConfigFor(f models.Features) EngineConfig {
	cfg := EngineConfig{
		Search:         !f.NoSearch,
		CategoryFilter: !f.NoCategoryFilter,
		Missing:        f.Missing,
	}
	if cfg.Missing != models.MissingFirst {
		cfg.Missing = models.MissingLast
	}
	return cfg
}

// QueryEngine derives the rows to display from an immutable source
// collection. It holds no state besides its configuration.
type QueryEngine struct {
	cfg EngineConfig
}

func NewQueryEngine(cfg EngineConfig) *QueryEngine {
	if cfg.Missing != models.MissingFirst {
		cfg.Missing = models.MissingLast
	}
	return &QueryEngine{cfg: cfg}
}

func (e *QueryEngine) Config() EngineConfig {
	return e.cfg
}

// Run applies category filter, semester filter, search and sort, in that
// order. The result is always a fresh slice; source is never modified.
func (e *QueryEngine) Run(source []models.Subject, p QueryParams) []models.Subject {
	out := slices.Clone(source)
	if out == nil {
		out = []models.Subject{}
	}
	if e.cfg.CategoryFilter {
		out = FilterCategory(out, p.Category)
	}
	out = FilterSemester(out, p.Semester)
	if e.cfg.Search {
		out = Search(out, p.Search)
	}
	return SortByGrade(out, p.Sort, e.cfg.Missing)
}

// IsAllCategories reports whether category means "no filtering".
func IsAllCategories(category string) bool {
	return category == "" || strings.EqualFold(category, "all")
}

// FilterCategory keeps records whose category equals category exactly.
func FilterCategory(in []models.Subject, category string) []models.Subject {
	if IsAllCategories(category) {
		return slices.Clone(in)
	}
	return keep(in, func(s models.Subject) bool {
		return s.Category == category
	})
}

func FilterSemester(in []models.Subject, semester int) []models.Subject {
	if semester == 0 {
		return slices.Clone(in)
	}
	return keep(in, func(s models.Subject) bool {
		return s.Semester == semester
	})
}

// Search keeps records whose title or code contains text, ignoring case.
func Search(in []models.Subject, text string) []models.Subject {
	if text == "" {
		return slices.Clone(in)
	}
	needle := strings.ToLower(text)
	return keep(in, func(s models.Subject) bool {
		return strings.Contains(strings.ToLower(s.Title), needle) ||
			strings.Contains(strings.ToLower(s.Code), needle)
	})
}

// SortByGrade orders records with a grade stably in the given direction.
// Records without a grade keep their relative order and are placed after
// (or, with MissingFirst, before) the graded ones whatever the direction.
func SortByGrade(in []models.Subject, mode SortMode, missing models.MissingPolicy) []models.Subject {
	if mode == SortNone {
		return slices.Clone(in)
	}

	graded := make([]models.Subject, 0, len(in))
	var ungraded []models.Subject
	for _, s := range in {
		if s.Grade.Valid() {
			graded = append(graded, s)
		} else {
			ungraded = append(ungraded, s)
		}
	}

	slices.SortStableFunc(graded, func(a, b models.Subject) int {
		av, _ := a.Grade.Float64()
		bv, _ := b.Grade.Float64()
		if mode == SortDesc {
			return cmp.Compare(bv, av)
		}
		return cmp.Compare(av, bv)
	})

	out := make([]models.Subject, 0, len(in))
	if missing == models.MissingFirst {
		out = append(out, ungraded...)
		return append(out, graded...)
	}
	out = append(out, graded...)
	return append(out, ungraded...)
}

// Categories lists the distinct non-empty categories in first-seen order.
func Categories(in []models.Subject) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, s := range in {
		if s.Category == "" {
			continue
		}
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	return out
}

func keep(in []models.Subject, pred func(models.Subject) bool) []models.Subject {
	out := make([]models.Subject, 0, len(in))
	for _, s := range in {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}
