package valueobject

import (
	"errors"
	"testing"
	"time"
)

func TestDisplayMappingsAreTotal(t *testing.T) {
	check := func(t *testing.T, name string, d DisplayAttributes) {
		t.Helper()
		if d.Label == "" || d.Color == "" {
			t.Errorf("%s has no display attributes: %+v", name, d)
		}
	}

	for _, s := range AllSeverities() {
		check(t, s.String(), s.Display())
	}
	for _, c := range AllConservationStatuses() {
		check(t, c.String(), c.Display())
	}
	for _, tl := range AllThreatLevels() {
		check(t, tl.String(), tl.Display())
	}
	for _, e := range AllEcosystemHealth() {
		check(t, e.String(), e.Display())
	}
	for _, p := range AllPopulationTrends() {
		check(t, p.String(), p.Display())
	}
	for _, ts := range []TrendStatus{TrendImproving, TrendDeclining, TrendStable} {
		check(t, ts.String(), ts.Display())
	}
	for _, d := range []Deviation{DeviationIdeal, DeviationMild, DeviationSevere} {
		check(t, d.String(), d.Display())
	}
}

func TestSeverityPriorityOrder(t *testing.T) {
	all := AllSeverities()
	for i := 1; i < len(all); i++ {
		if all[i].Display().Priority <= all[i-1].Display().Priority {
			t.Errorf("priority of %s must exceed %s", all[i], all[i-1])
		}
	}
}

func TestParseRejectsUnknownCategories(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"severity", func() error { _, err := ParseSeverity("urgent"); return err }},
		{"conservation", func() error { _, err := ParseConservationStatus("safe"); return err }},
		{"threat", func() error { _, err := ParseThreatLevel("none"); return err }},
		{"ecosystem", func() error { _, err := ParseEcosystemHealth("ok"); return err }},
		{"population", func() error { _, err := ParsePopulationTrend("booming"); return err }},
		{"parameter", func() error { _, err := ParseParameter("oxygen"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrUnknownCategory) {
				t.Errorf("expected ErrUnknownCategory, got %v", err)
			}
		})
	}
}

func TestParseNormalizesInput(t *testing.T) {
	s, err := ParseSeverity(" Critical ")
	if err != nil || s != SeverityCritical {
		t.Fatalf("ParseSeverity() = %q, %v", s, err)
	}

	cs, err := ParseConservationStatus("Critically_Endangered")
	if err != nil || cs != CriticallyEndangered {
		t.Fatalf("ParseConservationStatus() = %q, %v", cs, err)
	}
}

func TestAverageNoDataIsDistinctFromZero(t *testing.T) {
	zero := NewAverage(0)
	if zero.IsNoData() {
		t.Fatal("zero average must be available")
	}
	if !NoData().IsNoData() || NoData().Ptr() != nil {
		t.Fatal("NoData must not carry a value")
	}
	if NoData().String() != "no data" {
		t.Errorf("unexpected NoData string %q", NoData().String())
	}
}

func TestTimeRangePrevious(t *testing.T) {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	tr, err := NewTimeRangeEndingAt(end, 30*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	prev := tr.Previous()
	if !prev.End().Equal(tr.Start()) || prev.Duration() != tr.Duration() {
		t.Errorf("unexpected previous range %v..%v", prev.Start(), prev.End())
	}
	if prev.Overlaps(tr) {
		t.Error("previous range must not overlap")
	}
}

func TestBoundingBox(t *testing.T) {
	box, err := NewBoundingBox(10, 20, -80, -60)
	if err != nil {
		t.Fatal(err)
	}
	in, _ := NewLocation(15, -75)
	out, _ := NewLocation(25, -75)
	if !box.Contains(in) || box.Contains(out) {
		t.Error("Contains() mismatch")
	}

	if _, err := NewBoundingBox(20, 10, 0, 1); err == nil {
		t.Error("expected error for inverted box")
	}
	if _, err := NewBoundingBox(-95, 10, 0, 1); !errors.Is(err, ErrInvalidLatitude) {
		t.Errorf("expected latitude error, got %v", err)
	}
}
