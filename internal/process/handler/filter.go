package handler

import (
	"net/http"
	"strings"

	"protocolo/internal/process/models"
)

// parseListFilter reads the listing query parameters. Unknown values for
// enumerated fields simply match nothing, and an exit date bound that does
// not parse is left open.
func parseListFilter(r *http.Request) models.ListFilter {
	q := r.URL.Query()
	get := func(key string) string { return strings.TrimSpace(q.Get(key)) }

	filter := models.ListFilter{
		Term:           get("q"),
		Priority:       models.Priority(strings.ToUpper(get("priority"))),
		Genre:          models.Genre(get("genre")),
		Species:        get("species"),
		Monitoring:     models.MonitoringStatus(get("monitoring_status")),
		AnalysisStatus: models.AnalysisStatus(get("analysis_status")),
	}
	for key, dst := range map[string]**models.Date{"exit_from": &filter.ExitFrom, "exit_to": &filter.ExitTo} {
		raw := get(key)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			continue
		}
		*dst = &d
	}
	return filter
}
