package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelForSpecies(t *testing.T) {
	tests := []struct {
		species     string
		expected    string
		derivesCoTx bool
		unsupported bool
	}{
		{"escherichia_coli", SpeciesEscherichiaColi, true, false},
		{"Escherichia coli", SpeciesEscherichiaColi, true, false},
		{"SALMONELLA", SpeciesSalmonella, true, false},
		{"campylobacter", SpeciesCampylobacter, false, false},
		{"klebsiella pneumoniae", "", false, true},
		{"other", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.species, func(t *testing.T) {
			p, err := PanelForSpecies(tt.species)
			if tt.unsupported {
				var target *UnsupportedSpeciesError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, tt.species, target.Species)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Species)
			assert.Equal(t, tt.derivesCoTx, p.DerivesCotrimoxazole)
		})
	}
}

func TestAntimicrobialPanel_Matching(t *testing.T) {
	p, err := PanelForSpecies(SpeciesCampylobacter)
	require.NoError(t, err)

	assert.True(t, p.Contains("tetracycline"))
	assert.False(t, p.Contains("ampicillin"))
	assert.False(t, p.Contains("Tetracycline"))

	assert.True(t, p.MatchesColumn("ciprofloxacin"))
	assert.True(t, p.MatchesColumn("ciprofloxacin i/r"))
	assert.False(t, p.MatchesColumn("nalidixic acid"))
}

func TestDeriveCotrimoxazole(t *testing.T) {
	tests := []struct {
		name     string
		tmp      string
		sul      string
		expected string
	}{
		{"Both susceptible", "No resistance", "No resistance", "No resistance"},
		{"Trimethoprim susceptible", "No resistance", "sul1", "No resistance"},
		{"Sulfamethoxazole susceptible", "dfrA1", "No resistance", "No resistance"},
		{"Both resistant", "dfrA1", "sul1 sul2", "dfrA1 sul1 sul2"},
		{"Unknown and resistant", "Unknown", "sul2", "Unknown sul2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveCotrimoxazole(tt.tmp, tt.sul))
		})
	}
}
