package view

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboard_NoDataIsNotZero(t *testing.T) {
	html := render(t, Dashboard(DashboardPage{
		Overview: &dto.DashboardOverviewDTO{
			Conditions: &dto.OceanConditionsDTO{
				HealthStatus: dto.HealthStatusNoData,
				Parameters: []*dto.ParameterSummaryDTO{
					{Parameter: "temperature", Label: "Temperature", Unit: "°C"},
				},
			},
		},
		RefreshSeconds: 30,
	}))

	assert.Contains(t, html, `id="health-score"`)
	assert.Contains(t, html, noData)
	assert.NotContains(t, html, ">0<")
	assert.Contains(t, html, `data-page="dashboard"`)
	assert.Contains(t, html, `data-refresh-seconds="30"`)
	assert.Contains(t, html, `id="dashboard-data"`)
}

func TestDashboard_ScoreAndAlerts(t *testing.T) {
	score := 75
	avg := 16.0
	alerts := make([]*dto.AlertDTO, 0, 7)
	for i := 0; i < 7; i++ {
		alerts = append(alerts, &dto.AlertDTO{
			ID:            "alert-" + string(rune('a'+i)),
			Title:         "Temperature anomaly",
			SeverityLabel: "High",
			Color:         "#e67e22",
			CreatedAt:     time.Date(2026, 3, 1, 12, i, 0, 0, time.UTC),
		})
	}

	html := render(t, Dashboard(DashboardPage{
		Overview: &dto.DashboardOverviewDTO{
			Conditions: &dto.OceanConditionsDTO{
				HealthScore:  &score,
				HealthStatus: dto.HealthStatusWarning,
				Parameters: []*dto.ParameterSummaryDTO{
					{Parameter: "temperature", Label: "Temperature", Unit: "°C", Average: &avg, Available: true, Deviation: "mild", DeviationColor: "#f39c12"},
				},
			},
			RecentAlerts: alerts,
			Degraded:     []string{"sustainability"},
		},
	}))

	assert.Contains(t, html, ">75<")
	assert.Contains(t, html, "16.00 °C")
	assert.Contains(t, html, "Some sections could not be loaded: sustainability")
	assert.Contains(t, html, "Sustainability metrics are unavailable.")
	assert.Equal(t, maxRecentAlerts, bytes.Count([]byte(html), []byte(`class="alert"`)))
}

func TestSpecies_EscapesUserContent(t *testing.T) {
	html := render(t, Species(SpeciesPage{
		Species: []*dto.SpeciesDTO{{
			ScientificName:    "<script>alert(1)</script>",
			CommonName:        "Green Sea Turtle",
			ConservationLabel: "Endangered",
			ConservationColor: "#e74c3c",
			ThreatLevel:       "high",
			ThreatColor:       "#e67e22",
		}},
	}))

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "background-color: #e74c3c")
	assert.Contains(t, html, "Catalogue (1)")
}

func TestFisheries_MarksQuotaViolations(t *testing.T) {
	quota := 100.0
	html := render(t, Fisheries(FisheriesPage{
		Summary: &dto.FisheriesSummaryDTO{QuotaViolations: 1, RecentCatchTotal: 140},
		Catches: []*dto.CatchDTO{{
			SpeciesID:    "tuna",
			CatchAmount:  140,
			QuotaLimit:   &quota,
			CatchDate:    time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
			ExceedsQuota: true,
		}},
	}))

	assert.Contains(t, html, `class="over-quota"`)
	assert.Contains(t, html, "2026-02-20")
	assert.Contains(t, html, "140.0 t")
	assert.Contains(t, html, `data-page="fisheries"`)
}

func TestAlerts_RendersResolveButtons(t *testing.T) {
	html := render(t, Alerts(AlertsPage{Alerts: []*dto.AlertDTO{{ID: "a1", Title: "pH drop", Color: "#c0392b"}}}))
	assert.Contains(t, html, `data-resolve="a1"`)

	empty := render(t, Alerts(AlertsPage{}))
	assert.Contains(t, empty, "No active alerts.")
}
