// Package view renders the dashboard HTML pages as templ components.
package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
)

// html accumulates the first write error so components can be written linearly.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes an HTML-escaped string.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with the value escaped.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

const (
	noData     = "No data"
	mutedColor = "#95a5a6"
)

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// formatOptional renders nil as the no-data marker, never as zero.
func formatOptional(v *float64, decimals int, unit string) string {
	if v == nil {
		return noData
	}
	if unit == "" {
		return formatFloat(*v, decimals)
	}
	return formatFloat(*v, decimals) + " " + unit
}

func healthColor(status string) string {
	switch status {
	case dto.HealthStatusHealthy:
		return "#27ae60"
	case dto.HealthStatusWarning:
		return "#f39c12"
	case dto.HealthStatusCritical:
		return "#e74c3c"
	default:
		return mutedColor
	}
}

func healthLabel(status string) string {
	switch status {
	case dto.HealthStatusHealthy:
		return "Healthy"
	case dto.HealthStatusWarning:
		return "Needs attention"
	case dto.HealthStatusCritical:
		return "Critical"
	default:
		return noData
	}
}

// badge renders a coloured pill; the colour comes from enumeration display attributes.
func badge(h *html, label, color string) {
	h.raw(`<span class="badge"`)
	h.attr("style", "background-color: "+color)
	h.raw(">")
	h.text(label)
	h.raw("</span>")
}

func counter(h *html, label string, value int) {
	h.raw(`<div class="stat"><span class="stat-value">`)
	h.raw(strconv.Itoa(value))
	h.raw(`</span><span class="stat-label">`)
	h.text(label)
	h.raw("</span></div>")
}

func section(ctx context.Context, h *html, title string, body func(ctx context.Context, h *html)) {
	h.raw(`<section class="card"><h2>`)
	h.text(title)
	h.raw("</h2>")
	body(ctx, h)
	h.raw("</section>")
}

func emptyState(h *html, message string) {
	h.raw(`<p class="empty">`)
	h.text(message)
	h.raw("</p>")
}
