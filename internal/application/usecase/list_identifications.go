package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

type ListIdentificationsCommand struct {
	Limit  int
	Cursor string
	From   time.Time
	To     time.Time
}

type ListIdentificationsConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// ListIdentificationsUseCase возвращает историю распознаваний
type ListIdentificationsUseCase struct {
	records port.IdentificationRecordRepository
	storage port.ImageStorage
	config  ListIdentificationsConfig
	logger  *logger.Logger
}

func NewListIdentificationsUseCase(
	records port.IdentificationRecordRepository, // Can be nil if DynamoDB disabled
	storage port.ImageStorage, // Can be nil if S3 disabled
	config ListIdentificationsConfig,
	log *logger.Logger,
) *ListIdentificationsUseCase {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 24
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 100
	}
	return &ListIdentificationsUseCase{
		records: records,
		storage: storage,
		config:  config,
		logger:  log,
	}
}

// Execute возвращает страницу истории. Без хранилища истории возвращается пустая страница.
func (uc *ListIdentificationsUseCase) Execute(
	ctx context.Context,
	cmd ListIdentificationsCommand,
) (*dto.IdentificationHistoryDTO, error) {
	limit := cmd.Limit
	if limit <= 0 {
		limit = uc.config.DefaultLimit
	}
	if limit > uc.config.MaxLimit {
		limit = uc.config.MaxLimit
	}

	if !cmd.From.IsZero() && !cmd.To.IsZero() && cmd.From.After(cmd.To) {
		return nil, fmt.Errorf("%w: from must be less than or equal to to", ErrInvalidQuery)
	}

	if uc.records == nil {
		return &dto.IdentificationHistoryDTO{Items: []*dto.IdentificationRecordDTO{}}, nil
	}

	page, err := uc.records.ListRecent(ctx, port.IdentificationListQuery{
		Limit:  limit,
		Cursor: strings.TrimSpace(cmd.Cursor),
		From:   cmd.From.UTC(),
		To:     cmd.To.UTC(),
	})
	if err != nil {
		uc.logger.Error("Failed to list identification records", err)
		return nil, fmt.Errorf("failed to list identifications: %w", err)
	}

	items := make([]*dto.IdentificationRecordDTO, 0, len(page.Items))
	for _, record := range page.Items {
		url := record.ImageURL
		if uc.storage != nil && record.ImageKey != "" {
			if generatedURL, err := uc.storage.GetObjectURL(ctx, record.ImageKey); err == nil {
				url = generatedURL
			}
		}

		items = append(items, &dto.IdentificationRecordDTO{
			ID:             record.ID,
			ScientificName: record.ScientificName,
			CommonName:     record.CommonName,
			Confidence:     record.Confidence,
			Source:         record.Source,
			SpeciesID:      record.SpeciesID,
			Location:       record.Location,
			ImageURL:       url,
			IdentifiedAt:   record.IdentifiedAt.UTC(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].IdentifiedAt.After(items[j].IdentifiedAt)
	})

	return &dto.IdentificationHistoryDTO{
		Items:      items,
		NextCursor: page.NextCursor,
	}, nil
}
