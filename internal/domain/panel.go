package domain

import "strings"

// Species identifiers after normalization.
const (
	SpeciesEscherichiaColi = "escherichia_coli"
	SpeciesSalmonella      = "salmonella"
	SpeciesCampylobacter   = "campylobacter"
)

// Antimicrobials that take part in the cotrimoxazole derivation.
const (
	Trimethoprim     = "trimethoprim"
	Sulfamethoxazole = "sulfamethoxazole"
	Cotrimoxazole    = "cotrimoxazole"
)

// Phenotype values emitted by ResFinder that the lab summary interprets.
const (
	PhenotypeResistant    = "Resistant"
	PhenotypeNoResistance = "No resistance"
)

// AntimicrobialPanel is the species-specific set of antimicrobials reported in the lab summary.
type AntimicrobialPanel struct {
	Species        string
	Antimicrobials []string
	// DerivesCotrimoxazole is set for panels whose cotrimoxazole column is computed from
	// trimethoprim and sulfamethoxazole rather than read from the tool.
	DerivesCotrimoxazole bool
}

var entericPanel = []string{
	"ampicillin", "cefotaxime", "ciprofloxacin", "gentamicin", "meropenem",
	Sulfamethoxazole, Trimethoprim, Cotrimoxazole, "azithromycin",
}

var campylobacterPanel = []string{"ciprofloxacin", "gentamicin", "erythromycin", "tetracycline"}

var panels = map[string]AntimicrobialPanel{
	SpeciesEscherichiaColi: {Species: SpeciesEscherichiaColi, Antimicrobials: entericPanel, DerivesCotrimoxazole: true},
	SpeciesSalmonella:      {Species: SpeciesSalmonella, Antimicrobials: entericPanel, DerivesCotrimoxazole: true},
	SpeciesCampylobacter:   {Species: SpeciesCampylobacter, Antimicrobials: campylobacterPanel},
}

// NormalizeSpecies lower-cases the species and replaces spaces with underscores,
// so "Escherichia coli" and "escherichia_coli" resolve to the same panel.
func NormalizeSpecies(species string) string {
	s := strings.ToLower(strings.TrimSpace(species))
	return strings.Join(strings.Fields(s), "_")
}

// PanelForSpecies looks up the antimicrobial panel of a species.
// Species without a panel yield an *UnsupportedSpeciesError.
func PanelForSpecies(species string) (AntimicrobialPanel, error) {
	p, ok := panels[NormalizeSpecies(species)]
	if !ok {
		return AntimicrobialPanel{}, NewUnsupportedSpeciesError(species)
	}
	return p, nil
}

// Contains reports whether the antimicrobial is an exact member of the panel.
func (p AntimicrobialPanel) Contains(antimicrobial string) bool {
	for _, a := range p.Antimicrobials {
		if a == antimicrobial {
			return true
		}
	}
	return false
}

// MatchesColumn reports whether any panel antimicrobial occurs as a substring of name.
// Point-mutation resistances are free text ("ciprofloxacin i/r"), so exact matching is too strict.
func (p AntimicrobialPanel) MatchesColumn(name string) bool {
	for _, a := range p.Antimicrobials {
		if strings.Contains(name, a) {
			return true
		}
	}
	return false
}

// DeriveCotrimoxazole combines the trimethoprim and sulfamethoxazole values of one sample.
// Susceptibility to either component means no resistance against the combination.
func DeriveCotrimoxazole(trimethoprim, sulfamethoxazole string) string {
	if trimethoprim == PhenotypeNoResistance || sulfamethoxazole == PhenotypeNoResistance {
		return PhenotypeNoResistance
	}
	return trimethoprim + " " + sulfamethoxazole
}
