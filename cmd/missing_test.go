package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/grade-explorer/services"
)

func TestRenderMissingReport(t *testing.T) {
	dir := filepath.Join("results", "sem7")
	a, b := filepath.Join(dir, "a.pdf"), filepath.Join(dir, "sub", "b.pdf")
	report := services.MissingReport{
		Locations: []services.CodeLocation{
			{Code: "IT328", Files: []string{a, b}},
			{Code: "HU999", Files: []string{}},
		},
		Order:     []services.VisitStep{{File: b, Codes: []string{"EE401", "IT328"}}},
		Unlocated: []string{"HU999"},
	}

	var buf bytes.Buffer
	require.NoError(t, renderMissingReport(&buf, dir, report))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, []string{"CODE", "FOUND IN"}, tableCells(lines[0]))
	assert.Equal(t, []string{"IT328", "a.pdf;" + filepath.Join("sub", "b.pdf")}, tableCells(lines[2]))
	assert.Equal(t, []string{"HU999", "-"}, tableCells(lines[3]))
	assert.Equal(t, "Need to visit 1 PDFs in this order:", lines[5])
	assert.Equal(t, []string{"#", "PDF", "COVERS", "CODES"}, tableCells(lines[6]))
	assert.Equal(t, []string{"1", filepath.Join("sub", "b.pdf"), "2", "EE401 IT328"}, tableCells(lines[8]))
}
