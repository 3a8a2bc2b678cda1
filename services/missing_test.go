package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCodePattern(t *testing.T) {
	tests := []struct {
		code string
		text string
		want bool
	}{
		{"IT328", "IT328 Data Mining", true},
		{"IT328", "it - 328", true},
		{"IT328", "Roll IT 328 A+", true},
		{"IT328", "IT3280", false},
		{"IT328", "XIT328", false},
		{"EC204A", "see EC204A", true},
		{"EC204A", "EC 204A", false},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, CodePattern(tt.code).MatchString(tt.text))
		})
	}
}

// resultPDFs lays out a folder of result PDFs: one in the root, one in a
// subfolder, an unreadable one and a file that is not a PDF.
func resultPDFs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestPDF(t, dir, "a.pdf", legendOps(
		[2]string{"CO301", "Software Engineering"},
		[2]string{"IT 328", "Data Mining"},
	))
	writeTestPDF(t, dir, filepath.Join("sub", "b.pdf"), legendOps(
		[2]string{"IT-328", "Data Mining Lab"},
		[2]string{"EE401", "Power Systems"},
		[2]string{"Roll", "ME 303"},
	))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("IT328"), 0o644))
	return dir
}

func TestLoadPDFTexts(t *testing.T) {
	dir := resultPDFs(t)

	texts, err := LoadPDFTexts(context.Background(), dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), texts[0].Path)
	assert.Equal(t, filepath.Join(dir, "sub", "b.pdf"), texts[1].Path)
	assert.Contains(t, texts[1].Text, "EE401 Power Systems")

	_, err = LoadPDFTexts(context.Background(), filepath.Join(dir, "absent"), nil)
	assert.Error(t, err)
}

func TestFillLegend(t *testing.T) {
	texts, err := LoadPDFTexts(context.Background(), resultPDFs(t), zaptest.NewLogger(t))
	require.NoError(t, err)

	legend := Legend{"CO301": "SE"}
	filled := FillLegend(legend, []string{"CO301", "IT328", "EE401", "ME303"}, texts)

	assert.Equal(t, []string{"EE401", "IT328"}, filled)
	assert.Equal(t, Legend{
		"CO301": "SE",
		"IT328": "Data Mining",
		"EE401": "Power Systems",
	}, legend, "first pdf by path wins and existing titles stay")
}

func TestBuildMissingReport(t *testing.T) {
	dir := resultPDFs(t)
	texts, err := LoadPDFTexts(context.Background(), dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	a, b := filepath.Join(dir, "a.pdf"), filepath.Join(dir, "sub", "b.pdf")
	report := BuildMissingReport([]string{"IT328", "EE401", "ME303", "HU999"}, texts)

	want := MissingReport{
		Locations: []CodeLocation{
			{Code: "IT328", Files: []string{a, b}},
			{Code: "EE401", Files: []string{b}},
			{Code: "ME303", Files: []string{b}},
			{Code: "HU999", Files: []string{}},
		},
		Order:     []VisitStep{{File: b, Codes: []string{"EE401", "IT328", "ME303"}}},
		Unlocated: []string{"HU999"},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanVisits(t *testing.T) {
	locs := []CodeLocation{
		{Code: "A1", Files: []string{"x.pdf", "y.pdf"}},
		{Code: "B2", Files: []string{"y.pdf"}},
		{Code: "C3", Files: []string{"z.pdf", "w.pdf"}},
		{Code: "D4", Files: []string{"x.pdf"}},
		{Code: "E5", Files: []string{}},
	}

	plan, unlocated := PlanVisits(locs)
	want := []VisitStep{
		{File: "x.pdf", Codes: []string{"A1", "D4"}},
		{File: "w.pdf", Codes: []string{"C3"}},
		{File: "y.pdf", Codes: []string{"B2"}},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"E5"}, unlocated)

	plan, unlocated = PlanVisits(nil)
	assert.Empty(t, plan)
	assert.Empty(t, unlocated)
}

func TestUntitledCodes(t *testing.T) {
	summaries := []SubjectSummary{{Code: "CO301"}, {Code: "IT328"}, {Code: "EE401"}}
	assert.Equal(t, []string{"IT328", "EE401"}, UntitledCodes(summaries, Legend{"CO301": "SE", "EE401": ""}))
}
