package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onePagePDF returns a minimal single page PDF drawing ops with a
// WinAnsi Helvetica font named F1.
func onePagePDF(ops string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(ops), ops),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeTestPDF(t *testing.T, dir, name, ops string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, onePagePDF(ops), 0o644))
	return path
}

// legendOps lays every code and title out in two cells, each placed with its
// own text matrix, the way tabular result PDFs do.
func legendOps(rows ...[2]string) string {
	ops := "BT /F1 10 Tf "
	for i, row := range rows {
		y := 700 - 20*i
		ops += fmt.Sprintf("1 0 0 1 50 %d Tm (%s) Tj 1 0 0 1 150 %d Tm (%s) Tj ", y, row[0], y, row[1])
	}
	return ops + "ET"
}

func TestParseLegend(t *testing.T) {
	text := `DELHI TECHNOLOGICAL UNIVERSITY
Result of B.Tech V Semester
CO301   Software Engineering
CO 302 Compiler Design
IT-303 Computer Networks
CO301 Duplicate Title
EE4 Too short
Page 1 of 3
  HU304  Engineering Economics  `

	want := Legend{
		"CO301": "Software Engineering",
		"CO302": "Compiler Design",
		"IT303": "Computer Networks",
		"HU304": "Engineering Economics",
	}
	assert.Equal(t, want, ParseLegend(text))
}

func TestExtractPDFLinesRejectsGarbage(t *testing.T) {
	data := []byte("this is not a pdf")
	_, err := ExtractPDFLines(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestExtractPDFLinesSeparatesCells(t *testing.T) {
	data := onePagePDF("BT /F1 10 Tf " +
		"1 0 0 1 50 700 Tm (CO301) Tj 1 0 0 1 150 700 Tm (Software Engineering) Tj " +
		"1 0 0 1 50 680 Tm [(IT3) -20 (03)] TJ 1 0 0 1 150 680 Tm (Computer Networks) Tj " +
		"1 0 0 1 50 660 Tm (HU304 ) Tj 1 0 0 1 150 660 Tm (Engineering Economics) Tj " +
		"ET")

	text, err := ExtractPDFLines(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "CO301 Software Engineering\nIT303 Computer Networks\nHU304 Engineering Economics\n", text)

	assert.Equal(t, Legend{
		"CO301": "Software Engineering",
		"IT303": "Computer Networks",
		"HU304": "Engineering Economics",
	}, ParseLegend(text))
}

func TestReadLegendPDF(t *testing.T) {
	path := writeTestPDF(t, t.TempDir(), "legend.pdf", legendOps(
		[2]string{"CO301", "Software Engineering"},
		[2]string{"CO 302", "Compiler Design"},
	))

	legend, err := ReadLegendPDF(path)
	require.NoError(t, err)
	assert.Equal(t, Legend{"CO301": "Software Engineering", "CO302": "Compiler Design"}, legend)
}

func TestReadLegendPDFMissingFile(t *testing.T) {
	_, err := ReadLegendPDF("does-not-exist.pdf")
	assert.Error(t, err)
}
