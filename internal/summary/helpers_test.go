package summary

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/testutil"
)

// sampleFixture holds the report files of one synthetic sample, keyed by file name.
type sampleFixture struct {
	name    string
	reports map[string]string
}

func writeSamples(t *testing.T, fixtures ...sampleFixture) []domain.SampleReportSet {
	t.Helper()
	root := t.TempDir()
	samples := make([]domain.SampleReportSet, 0, len(fixtures))
	for _, f := range fixtures {
		dir := testutil.SampleDir(t, root, f.name)
		for file, content := range f.reports {
			testutil.WriteReport(t, dir, file, content)
		}
		samples = append(samples, domain.NewSampleReportSet(dir))
	}
	return samples
}

func outputPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "summary", name)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}
