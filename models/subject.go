package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnsupportedDocument = errors.New("document must be an array of subjects or an object with a subjects array")

// Subject is one course entry of a loaded dataset. The logical fields are
// resolved through a FieldMap; every key of the source object is kept so the
// record encodes back exactly as it was read.
type Subject struct {
	Code     string
	Title    string
	Category string
	Grade    Grade
	Semester int

	keys   []string
	fields map[string]json.RawMessage
}

// Field returns the raw JSON value stored under key.
func (s Subject) Field(key string) (json.RawMessage, bool) {
	raw, ok := s.fields[key]
	return raw, ok
}

// Keys returns the source keys in their original order.
func (s Subject) Keys() []string {
	return append([]string(nil), s.keys...)
}

// WithCategory returns a copy of s whose category is stored under key.
// The receiver is left untouched.
func (s Subject) WithCategory(key, value string) Subject {
	keys, fields := s.keys, s.fields
	if fields == nil {
		keys, fields = s.fallback()
	}

	out := s
	out.Category = value
	out.fields = make(map[string]json.RawMessage, len(fields)+1)
	for k, v := range fields {
		out.fields[k] = v
	}
	out.keys = append([]string(nil), keys...)
	if _, ok := out.fields[key]; !ok {
		out.keys = append(out.keys, key)
	}
	raw, _ := json.Marshal(value)
	out.fields[key] = raw
	return out
}

func (s *Subject) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeSubject(data, DefaultFieldMap)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

func (s Subject) MarshalJSON() ([]byte, error) {
	keys, fields := s.keys, s.fields
	if fields == nil {
		keys, fields = s.fallback()
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(fields[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// fallback is the encoding for records built in code rather than decoded.
func (s Subject) fallback() ([]string, map[string]json.RawMessage) {
	keys := []string{"code", "title"}
	fields := map[string]json.RawMessage{
		"code":  mustRaw(s.Code),
		"title": mustRaw(s.Title),
		"grade": json.RawMessage("null"),
	}
	if s.Category != "" {
		keys = append(keys, "subject")
		fields["subject"] = mustRaw(s.Category)
	}
	keys = append(keys, "grade")
	if v, ok := s.Grade.Float64(); ok {
		fields["grade"] = mustRaw(v)
	}
	if s.Semester != 0 {
		keys = append(keys, "semester")
		fields["semester"] = mustRaw(s.Semester)
	}
	return keys, fields
}

func mustRaw(v any) json.RawMessage {
	raw, _ := json.Marshal(v)
	return raw
}

// DecodeSubject decodes one JSON object into a Subject using fm.
func DecodeSubject(data []byte, fm FieldMap) (Subject, error) {
	keys, fields, err := decodeObject(data)
	if err != nil {
		return Subject{}, err
	}
	fm = fm.WithDefaults()

	s := Subject{keys: keys, fields: fields}
	if raw, ok := lookup(fields, fm.Code); ok {
		s.Code = stringValue(raw)
	}
	if raw, ok := lookup(fields, fm.Title); ok {
		s.Title = stringValue(raw)
	}
	if raw, ok := lookup(fields, fm.Category); ok {
		s.Category = stringValue(raw)
	}
	if raw, ok := lookup(fields, fm.Grade); ok {
		s.Grade = ParseGrade(raw)
	}
	if raw, ok := lookup(fields, fm.Semester); ok {
		s.Semester = intValue(raw)
	}
	return s, nil
}

// DecodeDocument accepts either a bare array of subject objects or an object
// carrying a "subjects" array. Array elements that are not objects are skipped.
func DecodeDocument(data []byte, fm FieldMap) ([]Subject, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnsupportedDocument
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode subject array: %w", err)
		}
	case '{':
		var wrapper struct {
			Subjects *[]json.RawMessage `json:"subjects"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("decode subject document: %w", err)
		}
		if wrapper.Subjects == nil {
			return nil, ErrUnsupportedDocument
		}
		items = *wrapper.Subjects
	default:
		return nil, ErrUnsupportedDocument
	}

	subjects := make([]Subject, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		s, err := DecodeSubject(item, fm)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

// decodeObject reads a JSON object keeping the key order.
func decodeObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("decode subject: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("decode subject: expected object")
	}

	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("decode subject key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("decode subject: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("decode subject field %q: %w", key, err)
		}
		if _, dup := fields[key]; !dup {
			keys = append(keys, key)
		}
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("decode subject: %w", err)
	}
	return keys, fields, nil
}

func lookup(fields map[string]json.RawMessage, aliases []string) (json.RawMessage, bool) {
	for _, key := range aliases {
		if raw, ok := fields[key]; ok {
			return raw, true
		}
	}
	return nil, false
}

// stringValue reads strings as-is and numbers by their literal text.
func stringValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func intValue(raw json.RawMessage) int {
	text := strings.TrimSpace(stringValue(raw))
	if text == "" {
		return 0
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return 0
}
