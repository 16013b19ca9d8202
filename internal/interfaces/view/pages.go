package view

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
)

type SpeciesPage struct {
	Species        []*dto.SpeciesDTO
	RefreshSeconds int
}

func Species(page SpeciesPage) templ.Component {
	body := component(func(ctx context.Context, h *html) {
		h.raw("<h1>Species tracking</h1>")

		section(ctx, h, "Conservation status", func(_ context.Context, h *html) {
			h.raw(`<canvas id="conservation-status-chart" height="200"></canvas>`)
		})

		section(ctx, h, "Catalogue ("+strconv.Itoa(len(page.Species))+")", func(_ context.Context, h *html) {
			if len(page.Species) == 0 {
				emptyState(h, "No species match the current filter.")
				return
			}

			h.raw(`<table class="table"><thead><tr><th>Scientific name</th><th>Common name</th>`)
			h.raw(`<th>Type</th><th>Conservation</th><th>Threat</th><th>Population</th></tr></thead><tbody>`)
			for _, s := range page.Species {
				h.raw("<tr><td><em>")
				h.text(s.ScientificName)
				h.raw("</em></td><td>")
				h.text(s.CommonName)
				h.raw("</td><td>")
				h.text(s.SpeciesType)
				h.raw("</td><td>")
				badge(h, s.ConservationLabel, s.ConservationColor)
				h.raw("</td><td>")
				badge(h, s.ThreatLevel, s.ThreatColor)
				h.raw("</td><td>")
				h.text(s.PopulationTrend)
				h.raw("</td></tr>")
			}
			h.raw("</tbody></table>")
		})

		h.render(ctx, templ.JSONScript("species-data", page.Species))
	})

	return Layout("Species", PageSpecies, page.RefreshSeconds, body)
}

type FisheriesPage struct {
	Summary        *dto.FisheriesSummaryDTO
	Catches        []*dto.CatchDTO
	RefreshSeconds int
}

func Fisheries(page FisheriesPage) templ.Component {
	body := component(func(ctx context.Context, h *html) {
		h.raw("<h1>Fisheries management</h1>")

		section(ctx, h, "Summary", func(_ context.Context, h *html) {
			if page.Summary == nil {
				emptyState(h, "Fisheries summary is unavailable.")
				return
			}
			s := page.Summary
			h.raw(`<div class="stats"><div class="stat"><span class="stat-value">`)
			h.text(formatOptional(s.AverageSustainabilityScore, 1, ""))
			h.raw(`</span><span class="stat-label">Average sustainability score</span></div>`)
			counter(h, "Quota violations", s.QuotaViolations)
			h.raw(`<div class="stat"><span class="stat-value">`)
			h.text(formatFloat(s.RecentCatchTotal, 1) + " t")
			h.raw(`</span><span class="stat-label">Catch, last 30 days</span></div>`)
			counter(h, "Species at risk", s.SpeciesAtRisk)
			h.raw("</div>")
		})

		section(ctx, h, "Catch by species", func(_ context.Context, h *html) {
			h.raw(`<canvas id="catch-by-species-chart" height="240"></canvas>`)
		})

		section(ctx, h, "Recent catches", func(_ context.Context, h *html) {
			if len(page.Catches) == 0 {
				emptyState(h, "No catches recorded in this period.")
				return
			}

			h.raw(`<table class="table"><thead><tr><th>Date</th><th>Species</th><th>Amount</th>`)
			h.raw(`<th>Quota</th><th>Area</th><th>Method</th><th>Score</th></tr></thead><tbody>`)
			for _, c := range page.Catches {
				h.raw("<tr")
				if c.ExceedsQuota {
					h.attr("class", "over-quota")
				}
				h.raw("><td>")
				h.text(c.CatchDate.Format("2006-01-02"))
				h.raw("</td><td>")
				name := c.SpeciesName
				if name == "" {
					name = c.SpeciesID
				}
				h.text(name)
				h.raw("</td><td>")
				h.text(formatFloat(c.CatchAmount, 1))
				h.raw("</td><td>")
				h.text(formatOptional(c.QuotaLimit, 1, ""))
				h.raw("</td><td>")
				h.text(c.FishingArea)
				h.raw("</td><td>")
				h.text(c.FishingMethod)
				h.raw("</td><td>")
				h.text(formatOptional(c.SustainabilityScore, 1, ""))
				h.raw("</td></tr>")
			}
			h.raw("</tbody></table>")
		})

		h.render(ctx, templ.JSONScript("fisheries-data", page.Summary))
	})

	return Layout("Fisheries", PageFisheries, page.RefreshSeconds, body)
}

type AlertsPage struct {
	Alerts         []*dto.AlertDTO
	RefreshSeconds int
}

func Alerts(page AlertsPage) templ.Component {
	body := component(func(ctx context.Context, h *html) {
		h.raw("<h1>Environmental alerts</h1>")
		section(ctx, h, "Active alerts", func(_ context.Context, h *html) {
			h.raw(`<div id="alerts-list">`)
			alertList(h, page.Alerts, true)
			h.raw("</div>")
		})
	})

	return Layout("Alerts", PageAlerts, page.RefreshSeconds, body)
}

// ErrorPage renders a minimal error body inside the layout.
func ErrorPage(title, message string) templ.Component {
	body := component(func(_ context.Context, h *html) {
		h.raw("<h1>")
		h.text(title)
		h.raw(`</h1><p class="muted">`)
		h.text(message)
		h.raw(`</p><a href="/">Back to dashboard</a>`)
	})

	return Layout(title, PageDashboard, 0, body)
}
