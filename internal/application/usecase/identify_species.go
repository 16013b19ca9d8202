package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// MaxImageSize - максимальный размер изображения для распознавания
const MaxImageSize = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type IdentifySpeciesCommand struct {
	Image    []byte
	Location string
}

type IdentifySpeciesConfig struct {
	KeyPrefix string
}

// SpeciesIdentifiedEvent публикуется после успешного распознавания
type SpeciesIdentifiedEvent struct {
	RecordID       string    `json:"record_id"`
	SpeciesID      string    `json:"species_id,omitempty"`
	ScientificName string    `json:"scientific_name"`
	Confidence     float64   `json:"confidence"`
	Source         string    `json:"source"`
	Location       string    `json:"location,omitempty"`
	IdentifiedAt   time.Time `json:"identified_at"`
}

// IdentifySpeciesUseCase распознает вид по изображению и пополняет каталог
type IdentifySpeciesUseCase struct {
	identifier port.SpeciesIdentifier
	species    repository.SpeciesRepository
	storage    port.ImageStorage
	records    port.IdentificationRecordRepository
	events     port.EventPublisher
	config     IdentifySpeciesConfig
	logger     *logger.Logger
	now        func() time.Time
}

func NewIdentifySpeciesUseCase(
	identifier port.SpeciesIdentifier,
	species repository.SpeciesRepository,
	storage port.ImageStorage, // Can be nil if S3 disabled
	records port.IdentificationRecordRepository, // Can be nil if DynamoDB disabled
	events port.EventPublisher, // Can be nil if NATS disabled
	config IdentifySpeciesConfig,
	log *logger.Logger,
) *IdentifySpeciesUseCase {
	return &IdentifySpeciesUseCase{
		identifier: identifier,
		species:    species,
		storage:    storage,
		records:    records,
		events:     events,
		config:     config,
		logger:     log,
		now:        time.Now,
	}
}

func (uc *IdentifySpeciesUseCase) Execute(
	ctx context.Context,
	cmd IdentifySpeciesCommand,
) (*dto.IdentificationResultDTO, error) {
	contentType, err := sniffImage(cmd.Image)
	if err != nil {
		return nil, err
	}

	location := strings.TrimSpace(cmd.Location)

	result, err := uc.identifier.Identify(ctx, port.IdentificationRequest{
		Image:       cmd.Image,
		ContentType: contentType,
		Location:    location,
	})
	if err != nil {
		uc.logger.Error("Species identifier failed", err)
		return nil, fmt.Errorf("%w: %v", ErrIdentificationFailed, err)
	}

	out := &dto.IdentificationResultDTO{
		ScientificName:         result.ScientificName,
		CommonName:             result.CommonName,
		SpeciesType:            result.SpeciesType,
		ConservationStatus:     result.ConservationStatus,
		Habitat:                result.Habitat,
		Confidence:             result.Confidence,
		Description:            result.Description,
		IdentificationFeatures: result.IdentificationFeatures,
		Source:                 result.Source,
		Error:                  result.Error,
	}

	// Неразобранный ответ модели возвращается клиенту как есть, каталог не меняется
	if result.Error != "" || strings.TrimSpace(result.ScientificName) == "" {
		out.Confidence = 0
		if out.Error == "" {
			out.Error = "species could not be identified"
		}
		uc.logger.Warn("Identification returned no species", "source", result.Source, "error", out.Error)
		return out, nil
	}

	species, err := uc.findOrCreateSpecies(ctx, result)
	if err != nil {
		return nil, err
	}
	out.SpeciesID = species.ID()

	identifiedAt := uc.now().UTC()
	recordID := uuid.New().String()
	out.RecordID = recordID

	var imageKey string
	if uc.storage != nil {
		imageKey = uc.buildImageKey(identifiedAt, recordID, contentType)
		url, err := uc.storage.PutObject(ctx, imageKey, contentType, cmd.Image)
		if err != nil {
			uc.logger.Warn("Failed to store identification image", "key", imageKey, "error", err.Error())
			imageKey = ""
		} else {
			out.ImageURL = url
		}
	}

	if uc.records != nil {
		record := port.IdentificationRecord{
			ID:             recordID,
			ScientificName: species.ScientificName(),
			CommonName:     result.CommonName,
			Confidence:     result.Confidence,
			Source:         result.Source,
			SpeciesID:      species.ID(),
			Location:       location,
			ImageKey:       imageKey,
			ImageURL:       out.ImageURL,
			IdentifiedAt:   identifiedAt,
		}
		if err := uc.records.Put(ctx, record); err != nil {
			uc.logger.Warn("Failed to save identification record", "id", recordID, "error", err.Error())
		}
	}

	if uc.events != nil {
		event := SpeciesIdentifiedEvent{
			RecordID:       recordID,
			SpeciesID:      species.ID(),
			ScientificName: species.ScientificName(),
			Confidence:     result.Confidence,
			Source:         result.Source,
			Location:       location,
			IdentifiedAt:   identifiedAt,
		}
		if err := uc.events.PublishEvent(ctx, port.SubjectSpeciesIdentified, event); err != nil {
			uc.logger.Warn("Failed to publish species identified event", "error", err.Error())
		}
	}

	uc.logger.Info("Species identified",
		"scientific_name", species.ScientificName(),
		"confidence", result.Confidence,
		"source", result.Source,
	)

	return out, nil
}

func (uc *IdentifySpeciesUseCase) findOrCreateSpecies(
	ctx context.Context,
	result *port.IdentificationResult,
) (*entity.Species, error) {
	name := strings.TrimSpace(result.ScientificName)

	existing, err := uc.species.FindByScientificName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up species: %w", err)
	}

	attrs := entity.SpeciesAttributes{
		ScientificName: name,
		CommonName:     result.CommonName,
		SpeciesType:    result.SpeciesType,
		Habitat:        result.Habitat,
		Description:    result.Description,
	}

	// Категории модели вне перечислений заменяются значениями по умолчанию
	if result.ConservationStatus != "" {
		if cs, err := valueobject.ParseConservationStatus(result.ConservationStatus); err == nil {
			attrs.ConservationStatus = cs
		} else {
			uc.logger.Warn("Unknown conservation status from identifier", "value", result.ConservationStatus)
		}
	}
	if result.ThreatLevel != "" {
		if tl, err := valueobject.ParseThreatLevel(result.ThreatLevel); err == nil {
			attrs.ThreatLevel = tl
		} else {
			uc.logger.Warn("Unknown threat level from identifier", "value", result.ThreatLevel)
		}
	}

	species, err := entity.NewSpecies(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to create species: %w", err)
	}

	if err := uc.species.Save(ctx, species); err != nil {
		uc.logger.Error("Failed to save identified species", err, "scientific_name", name)
		return nil, fmt.Errorf("failed to save species: %w", err)
	}

	uc.logger.Info("New species added to catalogue", "scientific_name", name)
	return species, nil
}

func (uc *IdentifySpeciesUseCase) buildImageKey(at time.Time, id, contentType string) string {
	prefix := strings.Trim(uc.config.KeyPrefix, "/")
	if prefix == "" {
		prefix = "identifications"
	}
	return fmt.Sprintf("%s/%s/%s.%s", prefix, at.Format("2006/01/02"), id, imageExtensions[contentType])
}

// sniffImage определяет тип изображения по содержимому, а не по заявленному типу
func sniffImage(image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: image is empty", ErrInvalidImage)
	}
	if len(image) > MaxImageSize {
		return "", fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, MaxImageSize)
	}

	contentType := http.DetectContentType(image)
	if _, ok := imageExtensions[contentType]; !ok {
		return "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}
	return contentType, nil
}
