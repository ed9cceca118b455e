package summary

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/amr-summary/internal/domain"
)

// LabSummary writes the lab-information-system summary: the species panel antimicrobials of
// every sample, combining ResFinder phenotypes with PointFinder mutations.
//
// Species without a panel are skipped: the returned result has StatusSkipped and output is
// not touched.
func (b *PhenotypeSummaryBuilder) LabSummary(ctx context.Context, samples []domain.SampleReportSet, species, output string) (*Result, error) {
	if len(samples) == 0 {
		return nil, domain.ErrNoSamples
	}

	panel, err := domain.PanelForSpecies(species)
	if err != nil {
		var unsupported *domain.UnsupportedSpeciesError
		if errors.As(err, &unsupported) {
			b.logger.WithFields(logrus.Fields{
				"species": species,
				"output":  output,
			}).Warn("No lab summary for this species")
			return &Result{Operation: OpLab, Status: domain.StatusSkipped, Samples: len(samples)}, nil
		}
		return nil, err
	}

	phenotypes, err := b.labPhenotypeView(ctx, samples, panel)
	if err != nil {
		return nil, err
	}
	mutations, err := b.mutations.MutationView(ctx, samples, panel)
	if err != nil {
		return nil, err
	}

	combined := InnerJoin(mutations, phenotypes, LabSampleColumn)
	combined.Map(LabSampleColumn, func(v string) string {
		v = strings.ReplaceAll(v, ",", " ")
		return strings.ReplaceAll(v, "\n", "")
	})
	combined.Reorder(LabSampleColumn, domain.Cotrimoxazole)

	if panel.DerivesCotrimoxazole {
		for i := 0; i < combined.Len(); i++ {
			value := domain.DeriveCotrimoxazole(
				combined.Value(i, domain.Trimethoprim),
				combined.Value(i, domain.Sulfamethoxazole),
			)
			combined.Set(i, domain.Cotrimoxazole, strings.TrimSpace(value))
		}
	}

	if err := writeRecords(output, combined.Records()); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"species": panel.Species,
		"output":  output,
		"samples": len(samples),
		"rows":    combined.Len(),
	}).Info("Lab summary written")

	return written(OpLab, output, len(samples), combined.Len()), nil
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
