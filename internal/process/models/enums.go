package models

import "strings"

// Genre is the top-level classification of a process. Values are stored
// verbatim; the office may use genres beyond the ones named here.
type Genre string

const (
	GenreLiquidations            Genre = "LIQUIDACOES"
	GenreProcurementAndContracts Genre = "LICITACOES_E_CONTRATOS"
	GenreOther                   Genre = "OUTROS_GENERO"
)

// Species literals that carry monitoring rules.
const (
	SpeciesAthleteGrantReport      = "P.C. Bolsa Atleta"
	SpeciesAdvanceReport           = "P.C. Adiantamento"
	SpeciesSocialGrantReport       = "Subvenção Social - Prestação de Contas"
	SpeciesSocialGrantAnnualReport = "Subvenção Social - P.C. Anual"
	SpeciesCarnivalGrantReport     = "P.C. Subvenção Bloco Carnaval"
	SpeciesSponsorshipReport       = "P.C. Patrocínio"
	SpeciesAthleteGrantConcession  = "Concessão Aux. Bolsa Atleta"
	SpeciesSocialRentConcession    = "Concessão Aux. Aluguel Social"
	SpeciesAdvanceConcession       = "Concessão Adiantamento"
	SpeciesSocialGrantConcession   = "Subvenção Social - Concessão"
	SpeciesPerDiemConcession       = "Concessão Diária"
	SpeciesSponsorshipConcession   = "Concessão Patrocínio"
)

// Priority marks a process as urgent (SIM) or normal (NAO).
type Priority string

const (
	PriorityUrgent Priority = "SIM"
	PriorityNormal Priority = "NAO"
)

func (p Priority) Label() string {
	if p == PriorityNormal {
		return "NÃO"
	}
	return string(p)
}

// Cadence is how often a process's monitoring cycle comes due.
type Cadence string

const (
	CadenceQuarterly     Cadence = "TRIMESTRAL"
	CadenceFourMonth     Cadence = "QUADRIMESTRAL"
	CadenceSemiAnnual    Cadence = "SEMESTRAL"
	CadenceAnnual        Cadence = "ANUAL"
	CadenceNotApplicable Cadence = "NAO_APLICAVEL"
)

var cadenceLabels = map[Cadence]string{
	CadenceQuarterly:     "Trimestral",
	CadenceFourMonth:     "Quadrimestral",
	CadenceSemiAnnual:    "Semestral",
	CadenceAnnual:        "Anual",
	CadenceNotApplicable: "Não Aplicável",
}

func (c Cadence) Label() string { return labelOr(cadenceLabels, c) }

// IsApplicable is false for NAO_APLICAVEL and for an unset cadence.
func (c Cadence) IsApplicable() bool {
	return c != "" && c != CadenceNotApplicable
}

// MonitoringStatus is the state of a process's current monitoring cycle.
type MonitoringStatus string

const (
	MonitoringPending       MonitoringStatus = "PENDENTE"
	MonitoringOverdue       MonitoringStatus = "ATRASADO"
	MonitoringConcluded     MonitoringStatus = "CONCLUIDO"
	MonitoringNotApplicable MonitoringStatus = "NAO_APLICAVEL"
)

var monitoringStatusLabels = map[MonitoringStatus]string{
	MonitoringPending:       "Pendente",
	MonitoringOverdue:       "Atrasado",
	MonitoringConcluded:     "Concluído",
	MonitoringNotApplicable: "Não Aplicável",
}

func (s MonitoringStatus) Label() string { return labelOr(monitoringStatusLabels, s) }

func (s MonitoringStatus) IsValid() bool {
	_, ok := monitoringStatusLabels[s]
	return ok
}

// IsOpen reports whether the cycle still awaits an accountability report.
func (s MonitoringStatus) IsOpen() bool {
	return s == MonitoringPending || s == MonitoringOverdue
}

// AnalysisStatus is the analyst's verdict on the process.
type AnalysisStatus string

const (
	AnalysisProceedWithoutReservation AnalysisStatus = "PROSSEGUIMENTO_SEM_RESSALVA"
	AnalysisProceedWithReservation    AnalysisStatus = "PROSSEGUIMENTO_COM_RESSALVA"
	AnalysisDoNotProceed              AnalysisStatus = "NAO_PROSSEGUIMENTO"
	AnalysisReturnForCorrection       AnalysisStatus = "DEVOLUCAO_PARA_SANEAMENTO"
	AnalysisNotApplicable             AnalysisStatus = "NAO_APLICAVEL"
)

var analysisStatusLabels = map[AnalysisStatus]string{
	AnalysisProceedWithoutReservation: "Prosseguimento sem ressalva",
	AnalysisProceedWithReservation:    "Prosseguimento com ressalva",
	AnalysisDoNotProceed:              "Não Prosseguimento",
	AnalysisReturnForCorrection:       "Devolução para saneamento",
	AnalysisNotApplicable:             "Não Aplicável",
}

func (s AnalysisStatus) Label() string { return labelOr(analysisStatusLabels, s) }

func (s AnalysisStatus) IsValid() bool {
	_, ok := analysisStatusLabels[s]
	return ok
}

// ParseAnalysisStatus maps an empty value to NAO_APLICAVEL.
func ParseAnalysisStatus(s string) AnalysisStatus {
	s = strings.TrimSpace(s)
	if s == "" {
		return AnalysisNotApplicable
	}
	return AnalysisStatus(s)
}

// Recurring flags processes that come back every period.
type Recurring string

const (
	RecurringYes Recurring = "SIM"
	RecurringNo  Recurring = "NÃO"
)

// ParseRecurring accepts the unaccented NAO and defaults to NÃO.
func ParseRecurring(s string) Recurring {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SIM":
		return RecurringYes
	default:
		return RecurringNo
	}
}

func labelOr[K ~string](labels map[K]string, k K) string {
	if label, ok := labels[k]; ok {
		return label
	}
	return string(k)
}
