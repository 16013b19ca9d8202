package view

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// Page identifies the active navigation entry.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageSpecies   Page = "species"
	PageFisheries Page = "fisheries"
	PageAlerts    Page = "alerts"
)

var navigation = []struct {
	page  Page
	href  string
	label string
}{
	{PageDashboard, "/dashboard", "Dashboard"},
	{PageSpecies, "/species", "Species"},
	{PageFisheries, "/fisheries", "Fisheries"},
	{PageAlerts, "/alerts", "Alerts"},
}

const chartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

// Layout wraps a page body with the shared head, navigation and scripts.
// The body element carries the page name so app.js can pick the page controller.
func Layout(title string, active Page, refreshSeconds int, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title + " | Marine Biodiversity Dashboard")
		h.raw("</title>")
		h.raw(`<link rel="stylesheet" href="/static/css/style.css">`)
		h.raw(`</head><body`)
		h.attr("data-page", string(active))
		h.attr("data-refresh-seconds", strconv.Itoa(refreshSeconds))
		h.raw(">")

		h.raw(`<header class="topbar"><a class="brand" href="/">Marine Biodiversity Dashboard</a><nav>`)
		for _, item := range navigation {
			h.raw("<a")
			h.attr("href", item.href)
			if item.page == active {
				h.attr("class", "active")
			}
			h.raw(">")
			h.text(item.label)
			h.raw("</a>")
		}
		h.raw(`</nav><span id="connection-status" class="connection offline">offline</span></header>`)

		h.raw(`<main class="container">`)
		h.render(ctx, body)
		h.raw("</main>")

		h.raw("<script")
		h.attr("src", chartJSURL)
		h.raw("></script>")
		for _, script := range []string{"/static/js/charts.js", "/static/js/websocket.js", "/static/js/app.js"} {
			h.raw("<script")
			h.attr("src", script)
			h.raw("></script>")
		}
		h.raw("</body></html>")
	})
}
