package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

func turtleResult() *port.IdentificationResult {
	return &port.IdentificationResult{
		ScientificName:     "Chelonia mydas",
		CommonName:         "Green Sea Turtle",
		SpeciesType:        "reptile",
		ConservationStatus: "Endangered",
		ThreatLevel:        "high",
		Confidence:         0.92,
		Source:             "test",
	}
}

func TestIdentifySpeciesUseCase_Success(t *testing.T) {
	species := memory.NewSpeciesRepository()
	records := memory.NewIdentificationRecordRepository()
	storage := &mockImageStorage{}
	events := &recordingEvents{}
	identifier := &stubIdentifier{result: turtleResult()}

	uc := NewIdentifySpeciesUseCase(identifier, species, storage, records, events, IdentifySpeciesConfig{}, logger.New("error"))
	uc.now = func() time.Time { return time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC) }

	res, err := uc.Execute(context.Background(), IdentifySpeciesCommand{Image: pngImage, Location: " Maldives "})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if identifier.last.ContentType != "image/png" || identifier.last.Location != "Maldives" {
		t.Fatalf("unexpected identifier request: %+v", identifier.last)
	}
	if res.SpeciesID == "" || res.RecordID == "" {
		t.Fatalf("expected species and record ids, got %+v", res)
	}

	created, err := species.FindByScientificName(context.Background(), "chelonia MYDAS")
	if err != nil {
		t.Fatalf("expected species to be created: %v", err)
	}
	if created.ConservationStatus() != valueobject.Endangered || created.ThreatLevel() != valueobject.ThreatHigh {
		t.Fatalf("unexpected categories: %s/%s", created.ConservationStatus(), created.ThreatLevel())
	}

	if len(storage.calls) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(storage.calls))
	}
	key := storage.calls[0].key
	if !strings.HasPrefix(key, "identifications/2026/02/07/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected image key: %s", key)
	}
	if !strings.HasSuffix(res.ImageURL, key) {
		t.Fatalf("expected image url for key, got %s", res.ImageURL)
	}

	page, _ := records.ListRecent(context.Background(), port.IdentificationListQuery{Limit: 10})
	if len(page.Items) != 1 || page.Items[0].ImageKey != key {
		t.Fatalf("expected identification record with image key, got %+v", page.Items)
	}

	if s := events.subjects(); len(s) != 1 || s[0] != port.SubjectSpeciesIdentified {
		t.Fatalf("unexpected events: %v", s)
	}
}

func TestIdentifySpeciesUseCase_ReusesExistingSpecies(t *testing.T) {
	species := memory.NewSpeciesRepository()
	existing, _ := entity.NewSpecies(entity.SpeciesAttributes{ScientificName: "Chelonia mydas"})
	_ = species.Save(context.Background(), existing)

	uc := NewIdentifySpeciesUseCase(&stubIdentifier{result: turtleResult()}, species, nil, nil, nil, IdentifySpeciesConfig{}, logger.New("error"))

	res, err := uc.Execute(context.Background(), IdentifySpeciesCommand{Image: jpegImage})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.SpeciesID != existing.ID() {
		t.Fatalf("expected existing species id %s, got %s", existing.ID(), res.SpeciesID)
	}
	if count, _ := species.Count(context.Background()); count != 1 {
		t.Fatalf("expected catalogue to stay at 1 species, got %d", count)
	}
}

func TestIdentifySpeciesUseCase_UnknownCategoriesFallBack(t *testing.T) {
	species := memory.NewSpeciesRepository()
	result := turtleResult()
	result.ConservationStatus = "somewhat rare"
	result.ThreatLevel = "extreme"

	uc := NewIdentifySpeciesUseCase(&stubIdentifier{result: result}, species, nil, nil, nil, IdentifySpeciesConfig{}, logger.New("error"))
	if _, err := uc.Execute(context.Background(), IdentifySpeciesCommand{Image: pngImage}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	created, err := species.FindByScientificName(context.Background(), "Chelonia mydas")
	if err != nil {
		t.Fatalf("FindByScientificName() error = %v", err)
	}
	if created.ConservationStatus() != valueobject.DataDeficient || created.ThreatLevel() != valueobject.ThreatMedium {
		t.Fatalf("expected default categories, got %s/%s", created.ConservationStatus(), created.ThreatLevel())
	}
}

func TestIdentifySpeciesUseCase_UnparsedReply(t *testing.T) {
	species := memory.NewSpeciesRepository()
	identifier := &stubIdentifier{result: &port.IdentificationResult{Error: "reply is not JSON", Confidence: 0.7}}

	uc := NewIdentifySpeciesUseCase(identifier, species, nil, nil, nil, IdentifySpeciesConfig{}, logger.New("error"))
	res, err := uc.Execute(context.Background(), IdentifySpeciesCommand{Image: pngImage})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Error == "" || res.Confidence != 0 {
		t.Fatalf("expected error result with zero confidence, got %+v", res)
	}
	if count, _ := species.Count(context.Background()); count != 0 {
		t.Fatalf("expected catalogue unchanged, got %d species", count)
	}
}

func TestIdentifySpeciesUseCase_ImageValidation(t *testing.T) {
	uc := NewIdentifySpeciesUseCase(&stubIdentifier{result: turtleResult()}, memory.NewSpeciesRepository(), nil, nil, nil, IdentifySpeciesConfig{}, logger.New("error"))

	tests := []struct {
		name  string
		image []byte
	}{
		{name: "empty", image: nil},
		{name: "not an image", image: []byte("hello, this is plain text")},
		{name: "too large", image: append(append([]byte(nil), pngImage...), bytes.Repeat([]byte{0}, MaxImageSize)...)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), IdentifySpeciesCommand{Image: tc.image})
			if !errors.Is(err, ErrInvalidImage) {
				t.Fatalf("expected ErrInvalidImage, got %v", err)
			}
		})
	}
}

func TestIdentifySpeciesUseCase_IdentifierError(t *testing.T) {
	uc := NewIdentifySpeciesUseCase(&stubIdentifier{err: errors.New("timeout")}, memory.NewSpeciesRepository(), nil, nil, nil, IdentifySpeciesConfig{}, logger.New("error"))

	_, err := uc.Execute(context.Background(), IdentifySpeciesCommand{Image: pngImage})
	if !errors.Is(err, ErrIdentificationFailed) {
		t.Fatalf("expected ErrIdentificationFailed, got %v", err)
	}
}

func TestIdentifySpeciesUseCase_StorageErrorIsNotFatal(t *testing.T) {
	storage := &mockImageStorage{err: errors.New("s3 down")}
	records := memory.NewIdentificationRecordRepository()
	uc := NewIdentifySpeciesUseCase(&stubIdentifier{result: turtleResult()}, memory.NewSpeciesRepository(), storage, records, nil, IdentifySpeciesConfig{}, logger.New("error"))

	res, err := uc.Execute(context.Background(), IdentifySpeciesCommand{Image: pngImage})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.ImageURL != "" {
		t.Fatalf("expected no image url, got %s", res.ImageURL)
	}

	page, _ := records.ListRecent(context.Background(), port.IdentificationListQuery{})
	if len(page.Items) != 1 || page.Items[0].ImageKey != "" {
		t.Fatalf("expected record without image key, got %+v", page.Items)
	}
}

func TestListIdentificationsUseCase(t *testing.T) {
	records := memory.NewIdentificationRecordRepository()
	base := time.Date(2026, 2, 8, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Chelonia mydas", "Thunnus thynnus", "Carcharodon carcharias"} {
		_ = records.Put(context.Background(), port.IdentificationRecord{
			ID:             name,
			ScientificName: name,
			ImageKey:       "identifications/" + name,
			IdentifiedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	uc := NewListIdentificationsUseCase(records, &mockImageStorage{}, ListIdentificationsConfig{DefaultLimit: 2, MaxLimit: 10}, logger.New("error"))

	first, err := uc.Execute(context.Background(), ListIdentificationsCommand{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(first.Items) != 2 || first.NextCursor == "" {
		t.Fatalf("expected first page of 2 with cursor, got %d items cursor=%q", len(first.Items), first.NextCursor)
	}
	if first.Items[0].ScientificName != "Carcharodon carcharias" {
		t.Fatalf("expected newest first, got %s", first.Items[0].ScientificName)
	}
	if !strings.HasPrefix(first.Items[0].ImageURL, "https://signed.example.com/") {
		t.Fatalf("expected signed URL, got %s", first.Items[0].ImageURL)
	}

	second, err := uc.Execute(context.Background(), ListIdentificationsCommand{Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(second.Items) != 1 || second.NextCursor != "" {
		t.Fatalf("expected last page of 1, got %d items cursor=%q", len(second.Items), second.NextCursor)
	}

	_, err = uc.Execute(context.Background(), ListIdentificationsCommand{From: base.Add(time.Hour), To: base})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for inverted range, got %v", err)
	}
}

func TestListIdentificationsUseCase_DisabledHistory(t *testing.T) {
	uc := NewListIdentificationsUseCase(nil, nil, ListIdentificationsConfig{}, logger.New("error"))

	res, err := uc.Execute(context.Background(), ListIdentificationsCommand{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Fatalf("expected empty non-nil list")
	}
}
