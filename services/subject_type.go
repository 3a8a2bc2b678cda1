package services

import (
	"regexp"
	"strings"

	"github.com/vnkhanh/grade-explorer/models"
)

var subjectTypePrefix = regexp.MustCompile(`^[A-Za-z]{2}`)

// InferSubjectType derives a department tag from the first two letters of a
// subject code ("co301" -> "CO"). Codes not starting with two letters give "".
func InferSubjectType(code string) string {
	return strings.ToUpper(subjectTypePrefix.FindString(strings.TrimSpace(code)))
}

// FillSubjectTypes returns a copy of in where every record lacking a category
// gets one inferred from its code, stored under key.
func FillSubjectTypes(in []models.Subject, key string) []models.Subject {
	out := make([]models.Subject, len(in))
	for i, s := range in {
		if s.Category == "" {
			if t := InferSubjectType(s.Code); t != "" {
				s = s.WithCategory(key, t)
			}
		}
		out[i] = s
	}
	return out
}
