package dto

import "time"

// IdentificationResultDTO - результат распознавания вида для API
type IdentificationResultDTO struct {
	ScientificName         string   `json:"scientific_name"`
	CommonName             string   `json:"common_name"`
	SpeciesType            string   `json:"species_type"`
	ConservationStatus     string   `json:"conservation_status"`
	Habitat                string   `json:"habitat"`
	Confidence             float64  `json:"confidence"`
	Description            string   `json:"description"`
	IdentificationFeatures []string `json:"identification_features"`
	Source                 string   `json:"source"`
	SpeciesID              string   `json:"species_id,omitempty"`
	ImageURL               string   `json:"image_url,omitempty"`
	RecordID               string   `json:"record_id,omitempty"`
	Error                  string   `json:"error,omitempty"`
}

// IdentificationRecordDTO - запись истории распознаваний
type IdentificationRecordDTO struct {
	ID             string    `json:"id"`
	ScientificName string    `json:"scientific_name"`
	CommonName     string    `json:"common_name"`
	Confidence     float64   `json:"confidence"`
	Source         string    `json:"source"`
	SpeciesID      string    `json:"species_id,omitempty"`
	Location       string    `json:"location,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	IdentifiedAt   time.Time `json:"identified_at"`
}

// IdentificationHistoryDTO - страница истории распознаваний
type IdentificationHistoryDTO struct {
	Items      []*IdentificationRecordDTO `json:"items"`
	NextCursor string                     `json:"next_cursor,omitempty"`
}
