package port

import "context"

// IdentificationRequest - изображение для распознавания вида
type IdentificationRequest struct {
	Image       []byte
	ContentType string
	Location    string
}

// IdentificationResult - ответ модели распознавания.
// Error заполнен, если ответ модели не удалось разобрать.
type IdentificationResult struct {
	ScientificName         string   `json:"scientific_name"`
	CommonName             string   `json:"common_name"`
	SpeciesType            string   `json:"species_type"`
	ConservationStatus     string   `json:"conservation_status"`
	Habitat                string   `json:"habitat"`
	Confidence             float64  `json:"confidence"`
	Description            string   `json:"description"`
	IdentificationFeatures []string `json:"identification_features"`
	ThreatLevel            string   `json:"threat_level"`
	Error                  string   `json:"error,omitempty"`
	Source                 string   `json:"-"`
}

// SpeciesIdentifier определяет внешний сервис распознавания видов (Port)
type SpeciesIdentifier interface {
	Identify(ctx context.Context, req IdentificationRequest) (*IdentificationResult, error)
}
