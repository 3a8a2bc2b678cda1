package services

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var splitCode = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// CodePattern matches code in free text allowing spaces or hyphens between
// its letters and digits, so CO301 also finds "CO 301" and "co-301".
// Codes that are not letters followed by digits are matched literally.
func CodePattern(code string) *regexp.Regexp {
	code = strings.TrimSpace(code)
	m := splitCode.FindStringSubmatch(code)
	if m == nil {
		return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(code))
	}
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(m[1]) + `[\s\-]*` + regexp.QuoteMeta(m[2]) + `\b`)
}

// PDFText is the extracted text of one PDF under a scanned directory.
type PDFText struct {
	Path string
	Text string
}

// LoadPDFTexts extracts the text of every .pdf below dir, sorted by path.
// Files that cannot be read are logged and left out.
func LoadPDFTexts(ctx context.Context, dir string, log *zap.Logger) ([]PDFText, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var (
		mu    sync.Mutex
		texts = make([]PDFText, 0, len(paths))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn("could not read pdf", zap.String("path", path), zap.Error(err))
				return nil
			}
			text, err := ExtractPDFLines(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				log.Warn("could not read pdf", zap.String("path", path), zap.Error(err))
				return nil
			}
			mu.Lock()
			texts = append(texts, PDFText{Path: path, Text: text})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(texts, func(i, j int) bool { return texts[i].Path < texts[j].Path })
	log.Info("pdfs scanned", zap.String("dir", dir), zap.Int("files", len(paths)), zap.Int("read", len(texts)))
	return texts, nil
}

// UntitledCodes returns the summary codes legend has no title for, in
// summary order.
func UntitledCodes(summaries []SubjectSummary, legend Legend) []string {
	var codes []string
	for _, s := range summaries {
		if legend[s.Code] == "" {
			codes = append(codes, s.Code)
		}
	}
	return codes
}

// FillLegend adds titles for the wanted codes that legend lacks, taking the
// first legend line found across texts. It returns the codes it filled.
func FillLegend(legend Legend, wanted []string, texts []PDFText) []string {
	var filled []string
	need := make(map[string]bool, len(wanted))
	for _, code := range wanted {
		if legend[code] == "" {
			need[code] = true
		}
	}
	for _, t := range texts {
		if len(need) == 0 {
			break
		}
		for code, title := range ParseLegend(t.Text) {
			if need[code] {
				legend[code] = title
				filled = append(filled, code)
				delete(need, code)
			}
		}
	}
	sort.Strings(filled)
	return filled
}

// CodeLocation lists the PDFs mentioning one code.
type CodeLocation struct {
	Code  string   `json:"code"`
	Files []string `json:"found_in"`
}

// LocateCodes reports, for each code in order, the PDFs whose text mentions it.
func LocateCodes(codes []string, texts []PDFText) []CodeLocation {
	out := make([]CodeLocation, 0, len(codes))
	for _, code := range codes {
		pat := CodePattern(code)
		loc := CodeLocation{Code: code, Files: []string{}}
		for _, t := range texts {
			if pat.MatchString(t.Text) {
				loc.Files = append(loc.Files, t.Path)
			}
		}
		out = append(out, loc)
	}
	return out
}

// VisitStep is one PDF of a lookup plan and the codes it settles.
type VisitStep struct {
	File  string   `json:"file"`
	Codes []string `json:"codes"`
}

// PlanVisits orders the PDFs so that each next one covers the most codes not
// yet covered. Ties go to the lower path. Codes found in no PDF are returned
// separately.
func PlanVisits(locs []CodeLocation) ([]VisitStep, []string) {
	byFile := map[string]map[string]bool{}
	remaining := map[string]bool{}
	var unlocated []string
	for _, loc := range locs {
		if len(loc.Files) == 0 {
			unlocated = append(unlocated, loc.Code)
			continue
		}
		remaining[loc.Code] = true
		for _, f := range loc.Files {
			if byFile[f] == nil {
				byFile[f] = map[string]bool{}
			}
			byFile[f][loc.Code] = true
		}
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var plan []VisitStep
	for len(remaining) > 0 {
		var best VisitStep
		for _, f := range files {
			var cover []string
			for code := range byFile[f] {
				if remaining[code] {
					cover = append(cover, code)
				}
			}
			if len(cover) > len(best.Codes) {
				best = VisitStep{File: f, Codes: cover}
			}
		}
		if best.File == "" {
			break
		}
		sort.Strings(best.Codes)
		for _, code := range best.Codes {
			delete(remaining, code)
		}
		plan = append(plan, best)
	}
	return plan, unlocated
}

// MissingReport describes where titles for untitled codes can be looked up.
type MissingReport struct {
	Locations []CodeLocation `json:"locations"`
	Order     []VisitStep    `json:"visit_order"`
	Unlocated []string       `json:"unlocated"`
}

// BuildMissingReport locates codes in texts and plans the visit order.
func BuildMissingReport(codes []string, texts []PDFText) MissingReport {
	locs := LocateCodes(codes, texts)
	plan, unlocated := PlanVisits(locs)
	if plan == nil {
		plan = []VisitStep{}
	}
	if unlocated == nil {
		unlocated = []string{}
	}
	return MissingReport{Locations: locs, Order: plan, Unlocated: unlocated}
}
