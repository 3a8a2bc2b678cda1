package services

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Legend maps normalised subject codes to titles.
type Legend map[string]string

var legendLine = regexp.MustCompile(`^([A-Z]{2,3}\s*-?\d{3})\s+(.+)$`)

// ParseLegend reads "CO301  Software Engineering" style lines. The first
// title seen for a code wins.
func ParseLegend(text string) Legend {
	legend := make(Legend)
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		m := legendLine.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		code := NormalizeSubjectCode(m[1])
		if _, ok := legend[code]; ok {
			continue
		}
		legend[code] = strings.TrimSpace(m[2])
	}
	return legend
}

// ExtractPDFLines returns the text of every page, one line per text row.
func ExtractPDFLines(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			text.WriteString(joinRow(row.Content))
			text.WriteByte('\n')
		}
	}
	return text.String(), nil
}

// cellGap is how far right of the previous item's end a text item must start
// to count as a separate cell.
const cellGap = 0.5

// joinRow concatenates the text items of one row. Items placed past the end
// of the previous one are separated by a space unless either side already
// carries whitespace; pieces of one positioned run are joined as they are.
func joinRow(items pdf.TextHorizontal) string {
	var b strings.Builder
	var prev pdf.Text
	for i, item := range items {
		if item.S == "" {
			continue
		}
		if i > 0 && b.Len() > 0 && item.X > prev.X+prev.W+cellGap &&
			!endsWithSpace(b.String()) && !startsWithSpace(item.S) {
			b.WriteByte(' ')
		}
		b.WriteString(item.S)
		prev = item
	}
	return b.String()
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

// ReadLegendPDF extracts the subject legend from a result PDF.
func ReadLegendPDF(path string) (Legend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := ExtractPDFLines(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read legend %s: %w", path, err)
	}
	return ParseLegend(text), nil
}
