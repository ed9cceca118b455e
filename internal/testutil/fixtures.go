// Package testutil writes synthetic upstream reports for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// PhenoHeader is the antimicrobial table header ResFinder writes into pheno_table.txt.
const PhenoHeader = "# Antimicrobial\tClass\tWGS-predicted phenotype\tMatch\tGenetic background"

// SampleDir creates an empty sample directory named name under root.
func SampleDir(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

// WriteReport writes content into file inside dir.
func WriteReport(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

// TSV joins rows of cells into tab-separated lines.
func TSV(rows ...[]string) string {
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(strings.Join(r, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// MetadataLines returns the 16 free-text lines that precede the antimicrobial table.
func MetadataLines() []string {
	lines := make([]string, 16)
	for i := range lines {
		lines[i] = fmt.Sprintf("# metadata line %d", i+1)
	}
	return lines
}

// PhenoTable renders a pheno_table.txt in the fixed layout: 16 metadata lines, a blank
// line, then one antimicrobial row per entry starting on line 18, then a trailing section.
func PhenoTable(rows ...[]string) string {
	return renderPheno(false, rows)
}

// PhenoTableWithHeader renders the ResFinder 4 layout where the table is introduced by PhenoHeader.
func PhenoTableWithHeader(rows ...[]string) string {
	return renderPheno(true, rows)
}

func renderPheno(withHeader bool, rows [][]string) string {
	var sb strings.Builder
	for _, l := range MetadataLines() {
		sb.WriteString(l + "\n")
	}
	sb.WriteString("\n")
	if withHeader {
		sb.WriteString(PhenoHeader + "\n")
	}
	sb.WriteString(TSV(rows...))
	sb.WriteString("\n# WARNING: species specific section\nignored\tignored\tignored\tignored\tignored\n")
	return sb.String()
}
