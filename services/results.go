package services

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/vnkhanh/grade-explorer/models"
	"github.com/xuri/excelize/v2"
)

// GradePoints maps letter grades on result sheets to grade points.
var GradePoints = map[string]float64{
	"O": 10, "A+": 9, "A": 8, "B+": 7, "B": 6,
	"C": 5, "P": 4, "CP": 4, "F": 0, "AB": 0,
}

var codeSeparators = regexp.MustCompile(`[\s\-]+`)

// NormalizeSubjectCode strips spaces and hyphens and upper-cases the code.
func NormalizeSubjectCode(code string) string {
	return strings.ToUpper(codeSeparators.ReplaceAllString(code, ""))
}

// NormalizeLetterGrade returns the canonical letter, or false when the value
// is not a known grade.
func NormalizeLetterGrade(s string) (string, bool) {
	g := strings.ToUpper(strings.TrimSpace(s))
	_, ok := GradePoints[g]
	return g, ok
}

// ResultRow is one student's grade in one subject.
type ResultRow struct {
	Branch      string
	RollNo      string
	SubjectCode string
	LetterGrade string
	Point       models.Grade
}

var errNoCodeColumn = errors.New("results sheet has no subject code column")

var resultColumns = map[string][]string{
	"branch": {"branch"},
	"roll":   {"rollno", "roll no", "roll_no", "roll"},
	"code":   {"subjectcode", "subject_code", "subject code", "code"},
	"letter": {"lettergrade", "letter_grade", "letter grade", "letter"},
	"point":  {"numericgrade", "numeric_grade", "numeric grade", "grade"},
}

// ReadResultRows reads the results workbook from r. An empty sheet name
// selects the first sheet. Headers are matched case-insensitively.
func ReadResultRows(r io.Reader, sheet string) ([]ResultRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open results workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("results workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := headerIndex(rows[0])
	if _, ok := cols["code"]; !ok {
		return nil, errNoCodeColumn
	}

	var out []ResultRow
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		code := NormalizeSubjectCode(cell("code"))
		if code == "" {
			continue
		}
		rr := ResultRow{
			Branch:      strings.ToUpper(cell("branch")),
			RollNo:      cell("roll"),
			SubjectCode: code,
		}
		if letter, ok := NormalizeLetterGrade(cell("letter")); ok {
			rr.LetterGrade = letter
		}
		rr.Point = models.ParseGradeString(cell("point"))
		if !rr.Point.Valid() && rr.LetterGrade != "" {
			rr.Point = models.GradeOf(GradePoints[rr.LetterGrade])
		}
		out = append(out, rr)
	}
	return out, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for name, aliases := range resultColumns {
			if _, done := cols[name]; done {
				continue
			}
			if slices.Contains(aliases, h) {
				cols[name] = i
			}
		}
	}
	return cols
}

// SubjectSummary aggregates every result row of one subject.
type SubjectSummary struct {
	Code           string             `json:"code"`
	StudentCount   int                `json:"count"`
	Average        *float64           `json:"avg_grade"`
	PassPercentage float64            `json:"pass_percentage"`
	Distribution   map[string]int     `json:"grade_distribution"`
	Departments    []string           `json:"departments"`
	BranchAverages map[string]float64 `json:"branch_averages"`
}

// AggregateResults groups rows by subject code. Only rows with a grade point
// count towards students, averages and pass percentage. Summaries come back
// by descending average; subjects without any grade point go last.
func AggregateResults(rows []ResultRow) []SubjectSummary {
	type acc struct {
		sum, n, passed float64
		dist           map[string]int
		branchSum      map[string]float64
		branchN        map[string]float64
	}
	byCode := make(map[string]*acc)
	var codes []string

	for _, r := range rows {
		a, ok := byCode[r.SubjectCode]
		if !ok {
			a = &acc{dist: map[string]int{}, branchSum: map[string]float64{}, branchN: map[string]float64{}}
			byCode[r.SubjectCode] = a
			codes = append(codes, r.SubjectCode)
		}
		if r.LetterGrade != "" {
			a.dist[r.LetterGrade]++
		}
		v, ok := r.Point.Float64()
		if !ok {
			continue
		}
		a.sum += v
		a.n++
		if v > 0 {
			a.passed++
		}
		if dept := branchPrefix(r.Branch); dept != "" {
			a.branchSum[dept] += v
			a.branchN[dept]++
		}
	}

	out := make([]SubjectSummary, 0, len(codes))
	for _, code := range codes {
		a := byCode[code]
		s := SubjectSummary{
			Code:           code,
			StudentCount:   int(a.n),
			Distribution:   a.dist,
			Departments:    []string{},
			BranchAverages: map[string]float64{},
		}
		if a.n > 0 {
			avg := round(a.sum/a.n, 3)
			s.Average = &avg
			s.PassPercentage = round(a.passed/a.n*100, 2)
		}
		for dept, n := range a.branchN {
			s.Departments = append(s.Departments, dept)
			s.BranchAverages[dept] = round(a.branchSum[dept]/n, 2)
		}
		slices.Sort(s.Departments)
		out = append(out, s)
	}

	slices.SortStableFunc(out, func(a, b SubjectSummary) int {
		switch {
		case a.Average == nil && b.Average == nil:
			return cmp.Compare(a.Code, b.Code)
		case a.Average == nil:
			return 1
		case b.Average == nil:
			return -1
		}
		if c := cmp.Compare(*b.Average, *a.Average); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return out
}

// branchPrefix keeps the two-letter department part of a branch tag.
func branchPrefix(branch string) string {
	branch = strings.ToUpper(strings.TrimSpace(branch))
	if len(branch) > 2 {
		branch = branch[:2]
	}
	return branch
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// WriteSummaryWorkbook writes one row per summary with the titles from
// legend merged in.
func WriteSummaryWorkbook(w io.Writer, summaries []SubjectSummary, legend Legend) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := []any{"SubjectCode", "Title", "StudentCount", "AverageNumericGrade", "PassPercentage"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, s := range summaries {
		var avg any
		if s.Average != nil {
			avg = *s.Average
		}
		row := []any{s.Code, legend[s.Code], s.StudentCount, avg, s.PassPercentage}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
