package view

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
)

// maxRecentAlerts is the number of newest alerts shown on the overview.
const maxRecentAlerts = 5

// DashboardPage is the view model of the overview page.
type DashboardPage struct {
	Overview       *dto.DashboardOverviewDTO
	RefreshSeconds int
}

// dashboardData is the initial state handed to the page controller in app.js.
type dashboardData struct {
	Conditions     *dto.OceanConditionsDTO        `json:"conditions"`
	Sustainability *dto.SustainabilitySnapshotDTO `json:"sustainability"`
}

func Dashboard(page DashboardPage) templ.Component {
	overview := page.Overview
	if overview == nil {
		overview = &dto.DashboardOverviewDTO{}
	}

	body := component(func(ctx context.Context, h *html) {
		h.raw("<h1>Ocean overview</h1>")
		if len(overview.Degraded) > 0 {
			h.raw(`<div class="notice">Some sections could not be loaded: `)
			for i, name := range overview.Degraded {
				if i > 0 {
					h.raw(", ")
				}
				h.text(name)
			}
			h.raw("</div>")
		}

		h.raw(`<div class="grid">`)
		healthCard(ctx, h, overview.Conditions)
		sustainabilityCard(ctx, h, overview.Sustainability)
		h.raw("</div>")

		parametersCard(ctx, h, overview.Conditions)

		h.raw(`<div class="grid">`)
		section(ctx, h, "Temperature trend (30 days)", func(_ context.Context, h *html) {
			h.raw(`<canvas id="temperature-trend-chart" height="220"></canvas>`)
		})
		section(ctx, h, "Ecosystem health", func(_ context.Context, h *html) {
			h.raw(`<canvas id="ecosystem-health-chart" height="220"></canvas>`)
		})
		h.raw("</div>")

		recentAlertsCard(ctx, h, overview.RecentAlerts)

		h.render(ctx, templ.JSONScript("dashboard-data", dashboardData{
			Conditions:     overview.Conditions,
			Sustainability: overview.Sustainability,
		}))
	})

	return Layout("Dashboard", PageDashboard, page.RefreshSeconds, body)
}

func healthCard(ctx context.Context, h *html, conditions *dto.OceanConditionsDTO) {
	section(ctx, h, "Ocean health score", func(_ context.Context, h *html) {
		status := dto.HealthStatusNoData
		if conditions != nil {
			status = conditions.HealthStatus
		}

		h.raw(`<div id="health-score" class="score"`)
		h.attr("style", "color: "+healthColor(status))
		h.raw(">")
		if conditions != nil && conditions.HealthScore != nil {
			h.raw(strconv.Itoa(*conditions.HealthScore))
		} else {
			h.text(noData)
		}
		h.raw(`</div><div id="health-status" class="score-label">`)
		h.text(healthLabel(status))
		h.raw("</div>")

		if conditions != nil {
			h.raw(`<p class="muted">`)
			h.text(strconv.Itoa(conditions.DataPoints) + " measurements since " +
				conditions.WindowStart.Format("2006-01-02 15:04 MST"))
			h.raw("</p>")
		}
	})
}

func sustainabilityCard(ctx context.Context, h *html, snapshot *dto.SustainabilitySnapshotDTO) {
	section(ctx, h, "Sustainability", func(_ context.Context, h *html) {
		if snapshot == nil {
			emptyState(h, "Sustainability metrics are unavailable.")
			return
		}

		h.raw(`<div id="sustainability-score" class="score">`)
		h.text(formatOptional(snapshot.SustainabilityScore, 1, ""))
		h.raw(`</div><div class="score-label">`)
		h.raw("Trend: ")
		badge(h, snapshot.Trend.Status+" "+formatFloat(snapshot.Trend.Percentage, 2)+"%", snapshot.Trend.Color)
		h.raw(`</div><div class="stats">`)
		counter(h, "Species tracked", snapshot.TotalSpecies)
		counter(h, "Threatened species", snapshot.ThreatenedSpecies)
		counter(h, "Observations (30 days)", snapshot.RecentObservations)
		counter(h, "Active alerts", snapshot.TotalActiveAlerts)
		h.raw("</div>")
	})
}

func parametersCard(ctx context.Context, h *html, conditions *dto.OceanConditionsDTO) {
	section(ctx, h, "Ocean parameters", func(_ context.Context, h *html) {
		if conditions == nil || len(conditions.Parameters) == 0 {
			emptyState(h, "No measurements in the current window.")
			return
		}

		h.raw(`<div class="parameters">`)
		for _, p := range conditions.Parameters {
			h.raw(`<div class="parameter"`)
			h.attr("data-parameter", p.Parameter)
			h.raw(`><span class="parameter-label">`)
			h.text(p.Label)
			h.raw(`</span><span class="parameter-value">`)
			if p.Available {
				h.text(formatOptional(p.Average, 2, p.Unit))
			} else {
				h.raw(`<span class="muted">`)
				h.text(noData)
				h.raw("</span>")
			}
			h.raw("</span>")
			if p.Deviation != "" {
				badge(h, p.Deviation, p.DeviationColor)
			}
			h.raw("</div>")
		}
		h.raw("</div>")
	})
}

func recentAlertsCard(ctx context.Context, h *html, alerts []*dto.AlertDTO) {
	section(ctx, h, "Recent alerts", func(_ context.Context, h *html) {
		if len(alerts) > maxRecentAlerts {
			alerts = alerts[:maxRecentAlerts]
		}
		h.raw(`<div id="recent-alerts">`)
		alertList(h, alerts, false)
		h.raw(`</div><a class="more" href="/alerts">All alerts</a>`)
	})
}

// alertList renders alerts in the given order; callers pass them newest first.
func alertList(h *html, alerts []*dto.AlertDTO, resolvable bool) {
	if len(alerts) == 0 {
		emptyState(h, "No active alerts.")
		return
	}

	h.raw(`<ul class="alerts">`)
	for _, a := range alerts {
		h.raw(`<li class="alert"`)
		h.attr("data-alert-id", a.ID)
		h.attr("style", "border-left-color: "+a.Color)
		h.raw(">")
		badge(h, a.SeverityLabel, a.Color)
		h.raw(`<strong>`)
		h.text(a.Title)
		h.raw(`</strong><p>`)
		h.text(a.Description)
		h.raw(`</p><small class="muted">`)
		if a.LocationName != "" {
			h.text(a.LocationName + " · ")
		}
		h.text(a.CreatedAt.Format("2006-01-02 15:04"))
		h.raw("</small>")
		if resolvable {
			h.raw(`<button type="button" class="resolve"`)
			h.attr("data-resolve", a.ID)
			h.raw(">Resolve</button>")
		}
		h.raw("</li>")
	}
	h.raw("</ul>")
}
