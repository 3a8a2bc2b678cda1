package models

import "time"

// MissingPolicy decides where records without a grade go when sorting.
type MissingPolicy string

const (
	MissingLast  MissingPolicy = "last"
	MissingFirst MissingPolicy = "first"
)

// Features toggles the optional query features of one dataset. The zero
// value enables search and the category filter and sorts missing grades last.
type Features struct {
	NoSearch         bool          `mapstructure:"no_search" json:"no_search,omitempty"`
	NoCategoryFilter bool          `mapstructure:"no_category_filter" json:"no_category_filter,omitempty"`
	Missing          MissingPolicy `mapstructure:"missing" json:"missing,omitempty"`
	InferCategory    bool          `mapstructure:"infer_category" json:"infer_category,omitempty"`
}

// DatasetSpec describes where a dataset comes from and how its records read.
type DatasetSpec struct {
	Name     string   `mapstructure:"name" json:"name"`
	Title    string   `mapstructure:"title" json:"title"`
	Source   string   `mapstructure:"source" json:"source"`
	FieldMap FieldMap `mapstructure:"field_map" json:"field_map"`
	Features Features `mapstructure:"features" json:"features"`
}

// Dataset is a loaded collection. Subjects is never modified after load;
// a reload replaces the whole Dataset.
type Dataset struct {
	Spec      DatasetSpec
	Subjects  []Subject
	LoadedAt  time.Time
	LoadError string
}

// DatasetInfo is the listing view of a Dataset.
type DatasetInfo struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Count     int       `json:"count"`
	LoadedAt  time.Time `json:"loaded_at"`
	LoadError string    `json:"load_error,omitempty"`
	Features  Features  `json:"features"`
}

func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		Name:      d.Spec.Name,
		Title:     d.Spec.Title,
		Count:     len(d.Subjects),
		LoadedAt:  d.LoadedAt,
		LoadError: d.LoadError,
		Features:  d.Spec.Features,
	}
}
