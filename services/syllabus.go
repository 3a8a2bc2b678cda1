package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var syllabusFileCode = regexp.MustCompile(`^([A-Za-z]{2,6}\s*-?\d{2,4}[A-Za-z]?)`)

// SyllabusFiles maps subject codes to the PDF files in dir whose names start
// with a subject code ("CO301_syllabus.pdf"). The first file per code wins,
// in name order.
func SyllabusFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read syllabus dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make(map[string]string)
	for _, name := range names {
		m := syllabusFileCode.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		code := NormalizeSubjectCode(m[1])
		if _, ok := out[code]; ok {
			continue
		}
		out[code] = filepath.Join(dir, name)
	}
	return out, nil
}
