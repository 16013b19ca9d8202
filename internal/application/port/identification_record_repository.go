package port

import (
	"context"
	"time"
)

// IdentificationRecord - запись истории распознавания видов
type IdentificationRecord struct {
	ID             string
	ScientificName string
	CommonName     string
	Confidence     float64
	Source         string
	SpeciesID      string
	Location       string
	ImageKey       string
	ImageURL       string
	IdentifiedAt   time.Time
}

// IdentificationListQuery - параметры выборки истории
type IdentificationListQuery struct {
	Limit  int
	Cursor string
	From   time.Time
	To     time.Time
}

// IdentificationListPage содержит результат выборки и курсор следующей страницы
type IdentificationListPage struct {
	Items      []IdentificationRecord
	NextCursor string
}

// IdentificationRecordRepository хранит историю распознаваний (Port)
type IdentificationRecordRepository interface {
	Put(ctx context.Context, record IdentificationRecord) error
	ListRecent(ctx context.Context, query IdentificationListQuery) (IdentificationListPage, error)
}
