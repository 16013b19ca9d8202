package openai

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
)

const SourceMock = "mock"

var mockCatalogue = []port.IdentificationResult{
	{
		ScientificName:         "Chelonia mydas",
		CommonName:             "Green Sea Turtle",
		SpeciesType:            "reptile",
		ConservationStatus:     "endangered",
		ThreatLevel:            "high",
		Confidence:             0.85,
		Habitat:                "Coastal waters and seagrass beds",
		Description:            "Large sea turtle with heart-shaped shell",
		IdentificationFeatures: []string{"heart-shaped carapace", "single pair of prefrontal scales"},
	},
	{
		ScientificName:         "Carcharodon carcharias",
		CommonName:             "Great White Shark",
		SpeciesType:            "fish",
		ConservationStatus:     "vulnerable",
		ThreatLevel:            "medium",
		Confidence:             0.78,
		Habitat:                "Coastal surface waters",
		Description:            "Large predatory shark with distinctive white underside",
		IdentificationFeatures: []string{"white underside", "conical snout", "triangular serrated teeth"},
	},
	{
		ScientificName:         "Thunnus thynnus",
		CommonName:             "Atlantic Bluefin Tuna",
		SpeciesType:            "fish",
		ConservationStatus:     "critically endangered",
		ThreatLevel:            "critical",
		Confidence:             0.92,
		Habitat:                "Open ocean waters",
		Description:            "Large, fast-swimming tuna highly valued commercially",
		IdentificationFeatures: []string{"dark blue back", "short pectoral fins", "yellow finlets"},
	},
}

// MockIdentifier answers without calling any model. The same image always
// yields the same species.
type MockIdentifier struct{}

func NewMockIdentifier() *MockIdentifier {
	return &MockIdentifier{}
}

func (m *MockIdentifier) Identify(_ context.Context, req port.IdentificationRequest) (*port.IdentificationResult, error) {
	if len(req.Image) == 0 {
		return nil, errors.New("image is empty")
	}

	h := fnv.New32a()
	_, _ = h.Write(req.Image)

	result := mockCatalogue[h.Sum32()%uint32(len(mockCatalogue))]
	result.IdentificationFeatures = append([]string(nil), result.IdentificationFeatures...)
	result.Source = SourceMock
	return &result, nil
}
