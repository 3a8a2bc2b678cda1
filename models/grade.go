package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Grade is an optional numeric grade. The zero value is a missing grade.
type Grade struct {
	value float64
	valid bool
}

// GradeOf wraps v; NaN and infinities are treated as missing.
func GradeOf(v float64) Grade {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Grade{}
	}
	return Grade{value: v, valid: true}
}

func (g Grade) Float64() (float64, bool) {
	return g.value, g.valid
}

func (g Grade) Valid() bool {
	return g.valid
}

// ParseGrade reads a JSON number or numeric string. null, "", booleans,
// objects and anything that does not parse as a float are missing.
func ParseGrade(raw json.RawMessage) Grade {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Grade{}
		}
		text = n.String()
	}
	return ParseGradeString(text)
}

func ParseGradeString(text string) Grade {
	text = strings.TrimSpace(text)
	if text == "" {
		return Grade{}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Grade{}
	}
	return GradeOf(v)
}
