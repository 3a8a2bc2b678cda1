package services

import (
	"encoding/json"
	"io"

	"go.uber.org/zap"
)

// SemesterSubject is one entry of a generated semester document.
type SemesterSubject struct {
	SubjectCode       string             `json:"subject_code"`
	SubjectName       string             `json:"subject_name"`
	SubjectType       string             `json:"subject_type"`
	Semester          int                `json:"semester"`
	AverageGradePoint *float64           `json:"average_grade_point"`
	TotalStudents     int                `json:"total_students"`
	PassPercentage    float64            `json:"pass_percentage"`
	GradeDistribution map[string]int     `json:"grade_distribution"`
	Departments       []string           `json:"departments"`
	BranchAverages    map[string]float64 `json:"branch_averages,omitempty"`
	Syllabus          string             `json:"syllabus,omitempty"`
}

type SemesterDocument struct {
	Semester int               `json:"semester"`
	Subjects []SemesterSubject `json:"subjects"`
}

// BuildSemesterDocument merges result summaries with their titles. Subjects
// without a title are left out and returned as skipped.
func BuildSemesterDocument(semester int, summaries []SubjectSummary, legend Legend, syllabi map[string]string, log *zap.Logger) (SemesterDocument, []string) {
	if log == nil {
		log = zap.NewNop()
	}

	doc := SemesterDocument{Semester: semester, Subjects: []SemesterSubject{}}
	var skipped []string
	for _, s := range summaries {
		title := legend[s.Code]
		if title == "" {
			log.Warn("skipping subject without title", zap.String("code", s.Code))
			skipped = append(skipped, s.Code)
			continue
		}
		doc.Subjects = append(doc.Subjects, SemesterSubject{
			SubjectCode:       s.Code,
			SubjectName:       title,
			SubjectType:       InferSubjectType(s.Code),
			Semester:          semester,
			AverageGradePoint: s.Average,
			TotalStudents:     s.StudentCount,
			PassPercentage:    s.PassPercentage,
			GradeDistribution: s.Distribution,
			Departments:       s.Departments,
			BranchAverages:    s.BranchAverages,
			Syllabus:          syllabi[s.Code],
		})
	}
	return doc, skipped
}

// WriteDocument writes doc as indented JSON without HTML escaping.
func WriteDocument(w io.Writer, doc any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
