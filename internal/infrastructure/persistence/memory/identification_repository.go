package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
)

// IdentificationRecordRepository keeps identification history in memory.
// The cursor is the offset of the next page.
type IdentificationRecordRepository struct {
	mu      sync.RWMutex
	records []port.IdentificationRecord
}

func NewIdentificationRecordRepository() *IdentificationRecordRepository {
	return &IdentificationRecordRepository{}
}

func (r *IdentificationRecordRepository) Put(_ context.Context, record port.IdentificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *IdentificationRecordRepository) ListRecent(
	_ context.Context,
	query port.IdentificationListQuery,
) (port.IdentificationListPage, error) {
	offset := 0
	if query.Cursor != "" {
		n, err := strconv.Atoi(query.Cursor)
		if err != nil || n < 0 {
			return port.IdentificationListPage{}, fmt.Errorf("invalid cursor %q", query.Cursor)
		}
		offset = n
	}

	r.mu.RLock()
	filtered := make([]port.IdentificationRecord, 0, len(r.records))
	for _, rec := range r.records {
		if !query.From.IsZero() && rec.IdentifiedAt.Before(query.From) {
			continue
		}
		if !query.To.IsZero() && rec.IdentifiedAt.After(query.To) {
			continue
		}
		filtered = append(filtered, rec)
	}
	r.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].IdentifiedAt.After(filtered[j].IdentifiedAt)
	})

	if offset >= len(filtered) {
		return port.IdentificationListPage{Items: []port.IdentificationRecord{}}, nil
	}

	end := len(filtered)
	if query.Limit > 0 && offset+query.Limit < end {
		end = offset + query.Limit
	}

	page := port.IdentificationListPage{Items: filtered[offset:end]}
	if end < len(filtered) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}
