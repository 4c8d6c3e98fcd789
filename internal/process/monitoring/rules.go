package monitoring

import (
	"sort"

	"protocolo/internal/process/models"
)

// Rule is the monitoring a (genre, species) pair starts with.
type Rule struct {
	Cadence models.Cadence
	Initial models.MonitoringStatus
}

// Applies reports whether the rule schedules a monitoring cycle.
func (r Rule) Applies() bool {
	return r.Cadence.IsApplicable()
}

var notApplicable = Rule{Cadence: models.CadenceNotApplicable, Initial: models.MonitoringNotApplicable}

type ruleKey struct {
	genre   models.Genre
	species string
}

func pending(c models.Cadence) Rule {
	return Rule{Cadence: c, Initial: models.MonitoringPending}
}

// rules is the closed classification table. Pairs not listed here are not
// monitored.
var rules = map[ruleKey]Rule{
	{models.GenreLiquidations, models.SpeciesAthleteGrantReport}:      pending(models.CadenceSemiAnnual),
	{models.GenreLiquidations, models.SpeciesAdvanceReport}:           pending(models.CadenceQuarterly),
	{models.GenreLiquidations, models.SpeciesSocialGrantReport}:       pending(models.CadenceFourMonth),
	{models.GenreLiquidations, models.SpeciesSocialGrantAnnualReport}: pending(models.CadenceAnnual),
	{models.GenreLiquidations, models.SpeciesCarnivalGrantReport}:     pending(models.CadenceQuarterly),
	{models.GenreLiquidations, models.SpeciesSponsorshipReport}:       pending(models.CadenceQuarterly),
	{models.GenreLiquidations, models.SpeciesAthleteGrantConcession}:  pending(models.CadenceQuarterly),
	{models.GenreLiquidations, models.SpeciesSocialRentConcession}:    pending(models.CadenceQuarterly),
	{models.GenreLiquidations, models.SpeciesAdvanceConcession}:       pending(models.CadenceQuarterly),
	{models.GenreLiquidations, models.SpeciesSocialGrantConcession}:   pending(models.CadenceQuarterly),
	{models.GenreLiquidations, models.SpeciesPerDiemConcession}:       pending(models.CadenceQuarterly),

	{models.GenreProcurementAndContracts, models.SpeciesSponsorshipConcession}: pending(models.CadenceQuarterly),
}

// Lookup returns the rule for a genre and species. It never fails: unknown
// pairs get NAO_APLICAVEL for both cadence and status.
func Lookup(genre models.Genre, species string) Rule {
	if r, ok := rules[ruleKey{genre: genre, species: species}]; ok {
		return r
	}
	return notApplicable
}

// supersedingSpecies are the species whose arrival closes earlier open cycles
// of the same process number.
var supersedingSpecies = map[string]struct{}{
	models.SpeciesAthleteGrantReport:      {},
	models.SpeciesSocialGrantReport:       {},
	models.SpeciesSocialGrantAnnualReport: {},
	models.SpeciesSponsorshipConcession:   {},
	models.SpeciesAdvanceReport:           {},
	models.SpeciesSponsorshipReport:       {},
	models.SpeciesCarnivalGrantReport:     {},
	models.SpeciesAthleteGrantConcession:  {},
	models.SpeciesSocialRentConcession:    {},
	models.SpeciesAdvanceConcession:       {},
	models.SpeciesSocialGrantConcession:   {},
	models.SpeciesPerDiemConcession:       {},
}

// TriggersConclusion reports whether a new process of this species supersedes
// earlier cycles.
func TriggersConclusion(species string) bool {
	_, ok := supersedingSpecies[species]
	return ok
}

// SupersedingSpecies lists the trigger set in a stable order.
func SupersedingSpecies() []string {
	out := make([]string, 0, len(supersedingSpecies))
	for s := range supersedingSpecies {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Offsets use fixed 30-day months.
var offsets = map[models.Cadence]int{
	models.CadenceQuarterly:  3 * 30,
	models.CadenceFourMonth:  4 * 30,
	models.CadenceSemiAnnual: 6 * 30,
	models.CadenceAnnual:     12 * 30,
}

// Offset returns the number of days between cycles.
func Offset(c models.Cadence) (int, bool) {
	days, ok := offsets[c]
	return days, ok
}

// NextDue is base plus the cadence offset, or nil when the cadence does not
// schedule a cycle.
func NextDue(base models.Date, c models.Cadence) *models.Date {
	days, ok := Offset(c)
	if !ok || base.IsZero() {
		return nil
	}
	due := base.AddDays(days)
	return &due
}
