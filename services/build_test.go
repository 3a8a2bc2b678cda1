package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vnkhanh/grade-explorer/models"
)

func TestBuildSemesterDocument(t *testing.T) {
	avg := 7.25
	summaries := []SubjectSummary{
		{
			Code: "CO301", StudentCount: 4, Average: &avg, PassPercentage: 75,
			Distribution:   map[string]int{"A": 3, "F": 1},
			Departments:    []string{"CO"},
			BranchAverages: map[string]float64{"CO": 7.25},
		},
		{Code: "XX999", StudentCount: 1},
	}
	legend := Legend{"CO301": "Software Engineering & Design"}
	syllabi := map[string]string{"CO301": "https://example.org/co301.pdf"}

	doc, skipped := BuildSemesterDocument(5, summaries, legend, syllabi, zaptest.NewLogger(t))
	assert.Equal(t, []string{"XX999"}, skipped)
	require.Len(t, doc.Subjects, 1)

	s := doc.Subjects[0]
	assert.Equal(t, "CO", s.SubjectType)
	assert.Equal(t, 5, s.Semester)
	assert.Equal(t, "https://example.org/co301.pdf", s.Syllabus)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))
	assert.Contains(t, buf.String(), "Software Engineering & Design", "HTML characters are not escaped")
	assert.Contains(t, buf.String(), "\n  \"semester\": 5")

	// The generated document loads back as a dataset with the default aliases.
	loaded, err := models.DecodeDocument(buf.Bytes(), models.FieldMap{})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "CO301", loaded[0].Code)
	assert.Equal(t, "Software Engineering & Design", loaded[0].Title)
	assert.Equal(t, "CO", loaded[0].Category)
	assert.Equal(t, 5, loaded[0].Semester)
	v, ok := loaded[0].Grade.Float64()
	require.True(t, ok)
	assert.Equal(t, 7.25, v)
}

func TestBuildSemesterDocumentEmpty(t *testing.T) {
	doc, skipped := BuildSemesterDocument(1, nil, Legend{}, nil, nil)
	assert.Empty(t, skipped)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))
	assert.JSONEq(t, `{"semester":1,"subjects":[]}`, buf.String())
}
