package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryType(t *testing.T) {
	tests := []struct {
		input    string
		expected SummaryType
		wantErr  bool
	}{
		{"resfinder", SummaryResFinder, false},
		{"PointFinder", SummaryPointFinder, false},
		{" iles ", SummaryIles, false},
		{"amrfinderplus", SummaryAMRFinderPlus, false},
		{"virulencefinder", SummaryVirulenceFinder, false},
		{"kraken", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSummaryType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSummaryType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSummaryType_OutputCount(t *testing.T) {
	assert.Equal(t, 2, SummaryResFinder.OutputCount())
	assert.Equal(t, 2, SummaryPointFinder.OutputCount())
	assert.Equal(t, 1, SummaryIles.OutputCount())
	assert.Equal(t, 1, SummaryVirulenceFinder.OutputCount())
	assert.Equal(t, 1, SummaryAMRFinderPlus.OutputCount())
	assert.Equal(t, 0, SummaryType("other").OutputCount())
}

func TestNewSampleReportSet(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		expected string
	}{
		{"Plain path", "output/results_per_sample/sample1", "sample1"},
		{"Trailing slash", "output/results_per_sample/sample2/", "sample2"},
		{"Quoted path", "'output/sample3'", "sample3"},
		{"Bare name", "sample4", "sample4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampleReportSet(tt.dir)
			assert.Equal(t, tt.expected, s.Name)
		})
	}
}

func TestSamplesFromPaths(t *testing.T) {
	_, err := SamplesFromPaths(nil)
	assert.ErrorIs(t, err, ErrNoSamples)

	samples, err := SamplesFromPaths([]string{"a/s1", "b/s2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, SampleNames(samples))
	assert.Equal(t, "a/s1/pheno_table.txt", samples[0].ReportPath(PhenotypeReportFile))

	for _, paths := range [][]string{{"out/S1", ""}, {"  "}, {"/"}, {"."}, {"out/.."}} {
		_, err := SamplesFromPaths(paths)
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation, "paths %q", paths)
	}
}
