package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protocolo/internal/process/models"
)

func TestLookup(t *testing.T) {
	liquidations := map[string]models.Cadence{
		"P.C. Bolsa Atleta":                      models.CadenceSemiAnnual,
		"P.C. Adiantamento":                      models.CadenceQuarterly,
		"Subvenção Social - Prestação de Contas": models.CadenceFourMonth,
		"Subvenção Social - P.C. Anual":          models.CadenceAnnual,
		"P.C. Subvenção Bloco Carnaval":          models.CadenceQuarterly,
		"P.C. Patrocínio":                        models.CadenceQuarterly,
		"Concessão Aux. Bolsa Atleta":            models.CadenceQuarterly,
		"Concessão Aux. Aluguel Social":          models.CadenceQuarterly,
		"Concessão Adiantamento":                 models.CadenceQuarterly,
		"Subvenção Social - Concessão":           models.CadenceQuarterly,
		"Concessão Diária":                       models.CadenceQuarterly,
	}
	for species, cadence := range liquidations {
		t.Run("LIQUIDACOES/"+species, func(t *testing.T) {
			rule := Lookup(models.GenreLiquidations, species)
			assert.Equal(t, cadence, rule.Cadence)
			assert.Equal(t, models.MonitoringPending, rule.Initial)
			assert.True(t, rule.Applies())
		})
	}

	t.Run("sponsorship concession under procurement is quarterly", func(t *testing.T) {
		rule := Lookup(models.GenreProcurementAndContracts, "Concessão Patrocínio")
		assert.Equal(t, models.CadenceQuarterly, rule.Cadence)
		assert.Equal(t, models.MonitoringPending, rule.Initial)
	})

	notApplicablePairs := []struct {
		genre   models.Genre
		species string
	}{
		{models.GenreLiquidations, "Empenho"},
		{models.GenreLiquidations, "Concessão Patrocínio"},
		{models.GenreProcurementAndContracts, "P.C. Bolsa Atleta"},
		{models.GenreProcurementAndContracts, "Pregão Eletrônico"},
		{models.GenreOther, "P.C. Bolsa Atleta"},
		{models.Genre("QUALQUER"), "Concessão Patrocínio"},
		{"", ""},
	}
	for _, pair := range notApplicablePairs {
		t.Run("not applicable "+string(pair.genre)+"/"+pair.species, func(t *testing.T) {
			rule := Lookup(pair.genre, pair.species)
			assert.Equal(t, models.CadenceNotApplicable, rule.Cadence)
			assert.Equal(t, models.MonitoringNotApplicable, rule.Initial)
			assert.False(t, rule.Applies())
		})
	}

	t.Run("species literals are case and accent sensitive", func(t *testing.T) {
		assert.False(t, Lookup(models.GenreLiquidations, "p.c. bolsa atleta").Applies())
		assert.False(t, Lookup(models.GenreProcurementAndContracts, "Concessao Patrocinio").Applies())
	})
}

func TestTriggersConclusion(t *testing.T) {
	for key := range rules {
		assert.True(t, TriggersConclusion(key.species), key.species)
	}
	assert.True(t, TriggersConclusion(models.SpeciesSponsorshipConcession))
	assert.False(t, TriggersConclusion("Empenho"))

	list := SupersedingSpecies()
	assert.Len(t, list, 12)
	assert.IsIncreasing(t, list)
}

func TestNextDue(t *testing.T) {
	base := models.NewDate(2024, time.January, 10)

	tests := []struct {
		cadence models.Cadence
		want    string
	}{
		{models.CadenceQuarterly, "2024-04-09"},
		{models.CadenceFourMonth, "2024-05-09"},
		{models.CadenceSemiAnnual, "2024-07-08"},
		{models.CadenceAnnual, "2025-01-04"},
	}
	for _, tt := range tests {
		t.Run(string(tt.cadence), func(t *testing.T) {
			got := NextDue(base, tt.cadence)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}

	assert.Nil(t, NextDue(base, models.CadenceNotApplicable))
	assert.Nil(t, NextDue(models.Date{}, models.CadenceQuarterly))

	days, ok := Offset(models.CadenceAnnual)
	assert.True(t, ok)
	assert.Equal(t, 360, days)
}
