package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSubjectAliases(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		code     string
		title    string
		category string
		grade    float64
		graded   bool
		semester int
	}{
		{
			name: "semester table",
			in:   `{"code":"A1","title":"Algebra","subject":"Math","grade":8.5}`,
			code: "A1", title: "Algebra", category: "Math", grade: 8.5, graded: true,
		},
		{
			name: "subject document",
			in:   `{"subject_code":"CO301","subject_name":"Software Engineering","subject_type":"CO","semester":5,"average_grade_point":7.25}`,
			code: "CO301", title: "Software Engineering", category: "CO", grade: 7.25, graded: true, semester: 5,
		},
		{
			name: "branch page with string grade",
			in:   `{"course_code":"EC-204","name":"Signals","branch":"EC","avg_grade":"6.4"}`,
			code: "EC-204", title: "Signals", category: "EC", grade: 6.4, graded: true,
		},
		{
			name: "null grade",
			in:   `{"code":"B2","title":"Biology","subject":"Science","grade":null}`,
			code: "B2", title: "Biology", category: "Science",
		},
		{
			name: "numeric code and semester string",
			in:   `{"code":101,"title":"Intro","semester":"3"}`,
			code: "101", title: "Intro", semester: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeSubject([]byte(tt.in), FieldMap{})
			require.NoError(t, err)
			assert.Equal(t, tt.code, s.Code)
			assert.Equal(t, tt.title, s.Title)
			assert.Equal(t, tt.category, s.Category)
			assert.Equal(t, tt.semester, s.Semester)

			v, ok := s.Grade.Float64()
			assert.Equal(t, tt.graded, ok)
			if tt.graded {
				assert.InDelta(t, tt.grade, v, 1e-9)
			}
		})
	}
}

func TestDecodeSubjectCustomFieldMap(t *testing.T) {
	fm := FieldMap{Code: []string{"id"}, Grade: []string{"score"}}
	s, err := DecodeSubject([]byte(`{"id":"X9","title":"Other","score":4,"grade":9}`), fm)
	require.NoError(t, err)

	assert.Equal(t, "X9", s.Code)
	assert.Equal(t, "Other", s.Title, "unset aliases fall back to the defaults")
	v, ok := s.Grade.Float64()
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
}

func TestSubjectRoundTripKeepsKeysAndValues(t *testing.T) {
	in := `{"subject_code":"CO301","subject_name":"Software Engineering","average_grade_point":7.25,"grade_distribution":{"A":3,"B":1},"departments":["CO","IT"],"extra":null}`

	var s Subject
	require.NoError(t, json.Unmarshal([]byte(in), &s))
	assert.Equal(t, []string{"subject_code", "subject_name", "average_grade_point", "grade_distribution", "departments", "extra"}, s.Keys())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestSubjectFallbackEncoding(t *testing.T) {
	s := Subject{Code: "A1", Title: "Algebra", Category: "Math", Grade: GradeOf(8)}
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"A1","title":"Algebra","subject":"Math","grade":8}`, string(out))

	s = Subject{Code: "B2", Title: "Biology"}
	out, err = json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"B2","title":"Biology","grade":null}`, string(out))
}

func TestWithCategoryCopies(t *testing.T) {
	s, err := DecodeSubject([]byte(`{"code":"co301","title":"SE"}`), FieldMap{})
	require.NoError(t, err)

	tagged := s.WithCategory("subject", "CO")
	assert.Equal(t, "CO", tagged.Category)
	assert.Equal(t, []string{"code", "title", "subject"}, tagged.Keys())

	assert.Equal(t, "", s.Category)
	assert.Equal(t, []string{"code", "title"}, s.Keys())
	_, ok := s.Field("subject")
	assert.False(t, ok)

	raw, ok := tagged.Field("subject")
	require.True(t, ok)
	assert.JSONEq(t, `"CO"`, string(raw))
}

func TestWithCategoryOnBuiltSubject(t *testing.T) {
	s := Subject{Code: "CO301", Title: "Software Engineering", Grade: GradeOf(7.5), Semester: 5}

	tagged := s.WithCategory("subject", "CO")
	assert.Equal(t, []string{"code", "title", "grade", "semester", "subject"}, tagged.Keys())

	out, err := json.Marshal(tagged)
	require.NoError(t, err)
	assert.Equal(t, `{"code":"CO301","title":"Software Engineering","grade":7.5,"semester":5,"subject":"CO"}`, string(out))

	out, err = json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"code":"CO301","title":"Software Engineering","grade":7.5,"semester":5}`, string(out))
}

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		codes   []string
		wantErr error
	}{
		{name: "array", in: `[{"code":"A1"},{"code":"B2"}]`, codes: []string{"A1", "B2"}},
		{name: "wrapped", in: `{"semester":5,"subjects":[{"subject_code":"CO301"}]}`, codes: []string{"CO301"}},
		{name: "non-object items skipped", in: `[1,"x",null,{"code":"A1"}]`, codes: []string{"A1"}},
		{name: "empty array", in: `[]`, codes: []string{}},
		{name: "object without subjects", in: `{"code":"A1"}`, wantErr: ErrUnsupportedDocument},
		{name: "scalar", in: `42`, wantErr: ErrUnsupportedDocument},
		{name: "blank", in: `  `, wantErr: ErrUnsupportedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDocument([]byte(tt.in), FieldMap{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			codes := make([]string, 0, len(got))
			for _, s := range got {
				codes = append(codes, s.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestDecodeDocumentMalformed(t *testing.T) {
	_, err := DecodeDocument([]byte(`[{"code":`), FieldMap{})
	assert.Error(t, err)
}
