package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/testutil"
)

func TestElementSummaryBuilder_Virulence(t *testing.T) {
	logger, _ := test.NewNullLogger()
	header := []string{"Database", "Virulence factor", "Identity", "Query / Template length", "Contig", "Position in contig", "Protein function", "Accession number"}
	samples := writeSamples(t,
		sampleFixture{"S1", map[string]string{domain.VirulenceReportFile: testutil.TSV(header,
			[]string{"virulence_ecoli", "gad", "100.00", "1401 / 1401", "contig_2", "10..1410", "Glutamate decarboxylase", "CP000034.1"},
			[]string{"virulence_ecoli", "iss", "99.10", "294 / 294", "contig_5", "1..294", "Increased serum survival", "CP001846.1"},
		)}},
		sampleFixture{"S2", map[string]string{domain.VirulenceReportFile: testutil.TSV(header)}},
		sampleFixture{"S3", map[string]string{domain.VirulenceReportFile: testutil.TSV(header,
			[]string{"virulence_ecoli", "astA", "100.00", "117 / 117", "contig_9", "1..117", "EAST-1 heat-stable toxin", "AF143819"},
		)}},
	)
	output := outputPath(t, "virulence.csv")

	result, err := NewElementSummaryBuilder(logger).Build(context.Background(), samples, output, KindVirulence)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, OpVirulence, result.Operation)

	want := [][]string{
		{"Samplename", "Virulence factor", "Identity", "Query / Template length", "Protein function"},
		{"S1", "gad", "100.00", "1401 / 1401", "Glutamate decarboxylase"},
		{"S1", "iss", "99.10", "294 / 294", "Increased serum survival"},
		{"S3", "astA", "100.00", "117 / 117", "EAST-1 heat-stable toxin"},
	}
	if diff := cmp.Diff(want, readCSV(t, output)); diff != "" {
		t.Errorf("virulence summary mismatch (-want +got):\n%s", diff)
	}
}

func TestElementSummaryBuilder_HeaderOnlyReports(t *testing.T) {
	logger, _ := test.NewNullLogger()
	header := []string{"Database", "Virulence factor", "Identity", "Query / Template length", "Contig", "Position in contig", "Protein function", "Accession number"}
	samples := writeSamples(t,
		sampleFixture{"S1", map[string]string{domain.VirulenceReportFile: testutil.TSV(header)}},
		sampleFixture{"S2", map[string]string{domain.VirulenceReportFile: testutil.TSV(header)}},
	)
	output := outputPath(t, "virulence.csv")

	result, err := NewElementSummaryBuilder(logger).Build(context.Background(), samples, output, KindVirulence)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Rows)

	want := [][]string{
		{"Samplename", "Virulence factor", "Identity", "Query / Template length", "Protein function"},
	}
	if diff := cmp.Diff(want, readCSV(t, output)); diff != "" {
		t.Errorf("header-only summary mismatch (-want +got):\n%s", diff)
	}
}

func TestElementSummaryBuilder_AMRElementProjection(t *testing.T) {
	logger, _ := test.NewNullLogger()
	samples := writeSamples(t,
		sampleFixture{"S1", map[string]string{domain.AMRElementReportFile: testutil.TSV(
			[]string{"Protein identifier", "Gene symbol", "Sequence name", "Element type", "Element subtype", "Class", "Subclass", "% Coverage of reference sequence", "% Identity to reference sequence", "HMM id"},
			[]string{"", "blaTEM-1", "class A beta-lactamase TEM-1", "AMR", "AMR", "BETA-LACTAM", "BETA-LACTAM", "100.00", "100.00", "NA"},
		)}},
		sampleFixture{"S2", map[string]string{domain.AMRElementReportFile: testutil.TSV(
			[]string{"Subclass", "Gene symbol", "Class"},
			[]string{"QUINOLONE", "gyrA_S83L", "QUINOLONE"},
		)}},
	)
	output := outputPath(t, "amrfinderplus.csv")

	_, err := NewElementSummaryBuilder(logger).Build(context.Background(), samples, output, KindAMRElement)
	require.NoError(t, err)

	records := readCSV(t, output)
	require.Len(t, records, 3)
	assert.Equal(t, append([]string{"Samplename"}, KindAMRElement.Columns()...), records[0])
	assert.Equal(t, []string{"S2", "gyrA_S83L", "", "", "", "QUINOLONE", "QUINOLONE", "", ""}, records[2])
}

func TestElementSummaryBuilder_Errors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	b := NewElementSummaryBuilder(logger)
	samples := writeSamples(t, sampleFixture{"S1", nil})

	_, err := b.Build(context.Background(), samples, outputPath(t, "x.csv"), ElementKind("plasmid"))
	var validation *domain.ValidationError
	assert.True(t, errors.As(err, &validation))

	_, err = b.Build(context.Background(), samples, outputPath(t, "x.csv"), KindVirulence)
	var missing *domain.MissingReportError
	assert.True(t, errors.As(err, &missing))
}
