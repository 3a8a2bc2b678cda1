package models

// FieldMap lists, per logical field, the JSON keys a dataset may use for it.
// The first key present in a record wins.
type FieldMap struct {
	Code     []string `mapstructure:"code" json:"code,omitempty"`
	Title    []string `mapstructure:"title" json:"title,omitempty"`
	Category []string `mapstructure:"category" json:"category,omitempty"`
	Grade    []string `mapstructure:"grade" json:"grade,omitempty"`
	Semester []string `mapstructure:"semester" json:"semester,omitempty"`
}

// DefaultFieldMap covers every page variant of the site: the semester result
// tables, the branch pages, the elective picker and the per-semester
// subject documents.
var DefaultFieldMap = FieldMap{
	Code:     []string{"code", "subject_code", "course_code"},
	Title:    []string{"title", "subject_name", "name"},
	Category: []string{"subject", "subject_type", "branch", "type", "Category", "category"},
	Grade:    []string{"grade", "average_grade_point", "avg_grade"},
	Semester: []string{"semester"},
}

// WithDefaults fills every empty alias list from DefaultFieldMap.
func (fm FieldMap) WithDefaults() FieldMap {
	if len(fm.Code) == 0 {
		fm.Code = DefaultFieldMap.Code
	}
	if len(fm.Title) == 0 {
		fm.Title = DefaultFieldMap.Title
	}
	if len(fm.Category) == 0 {
		fm.Category = DefaultFieldMap.Category
	}
	if len(fm.Grade) == 0 {
		fm.Grade = DefaultFieldMap.Grade
	}
	if len(fm.Semester) == 0 {
		fm.Semester = DefaultFieldMap.Semester
	}
	return fm
}

// CategoryKey is the key new category values are written under.
func (fm FieldMap) CategoryKey() string {
	return fm.WithDefaults().Category[0]
}
