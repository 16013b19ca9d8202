package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
)

var _ port.IdentificationRecordRepository = (*IdentificationRepository)(nil)

type fakeDynamo struct {
	items     []map[string]types.AttributeValue
	lastQuery *dynamodb.QueryInput
	lastKey   map[string]types.AttributeValue
}

func (f *fakeDynamo) PutItem(
	_ context.Context,
	params *dynamodb.PutItemInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.PutItemOutput, error) {
	f.items = append(f.items, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(
	_ context.Context,
	params *dynamodb.QueryInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.QueryOutput, error) {
	f.lastQuery = params
	return &dynamodb.QueryOutput{Items: f.items, LastEvaluatedKey: f.lastKey}, nil
}

func TestPutAndListRoundTrip(t *testing.T) {
	client := &fakeDynamo{}
	repo := newIdentificationRepository(client, Config{TableName: "identifications", Retention: 24 * time.Hour})
	ctx := context.Background()

	identifiedAt := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	err := repo.Put(ctx, port.IdentificationRecord{
		ID:             "rec-1",
		ScientificName: "Chelonia mydas",
		CommonName:     "Green Sea Turtle",
		Confidence:     0.87,
		Source:         "openai",
		Location:       "Heron Island",
		ImageKey:       "identifications/2026/04/02/rec-1.jpg",
		IdentifiedAt:   identifiedAt,
	})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}

	item := client.items[0]
	if sk := item[attrSK].(*types.AttributeValueMemberS).Value; sk != buildSK(identifiedAt.UnixMilli(), "rec-1") {
		t.Fatalf("unexpected sort key: %s", sk)
	}
	if _, ok := item[attrSpeciesID]; ok {
		t.Fatalf("empty optional attributes must be omitted")
	}
	expires := item[attrExpiresAt].(*types.AttributeValueMemberN).Value
	if expires != "1775212200" {
		t.Fatalf("unexpected expires_at: %s", expires)
	}

	page, err := repo.ListRecent(ctx, port.IdentificationListQuery{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 1 || page.NextCursor != "" {
		t.Fatalf("unexpected page: %+v", page)
	}

	got := page.Items[0]
	if got.ScientificName != "Chelonia mydas" || got.Confidence != 0.87 || !got.IdentifiedAt.Equal(identifiedAt) {
		t.Fatalf("unexpected record: %+v", got)
	}
	if *client.lastQuery.Limit != defaultListLimit || *client.lastQuery.ScanIndexForward {
		t.Fatalf("expected newest-first query with default limit")
	}
}

func TestPutValidation(t *testing.T) {
	repo := newIdentificationRepository(&fakeDynamo{}, Config{TableName: "identifications"})

	tests := []struct {
		name   string
		record port.IdentificationRecord
	}{
		{"missing id", port.IdentificationRecord{ScientificName: "Thunnus thynnus"}},
		{"missing name", port.IdentificationRecord{ID: "x"}},
		{"confidence above one", port.IdentificationRecord{ID: "x", ScientificName: "Thunnus thynnus", Confidence: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Put(context.Background(), tt.record); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestListRecent_TimeRangeAndCursor(t *testing.T) {
	client := &fakeDynamo{
		lastKey: map[string]types.AttributeValue{
			attrPK: &types.AttributeValueMemberS{Value: identificationPK},
			attrSK: &types.AttributeValueMemberS{Value: "TS#0000000001000#ID#a"},
		},
	}
	repo := newIdentificationRepository(client, Config{TableName: "identifications"})
	ctx := context.Background()

	from := time.UnixMilli(1000).UTC()
	to := time.UnixMilli(5000).UTC()

	page, err := repo.ListRecent(ctx, port.IdentificationListQuery{Limit: 500, From: from, To: to})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if *client.lastQuery.Limit != maxListLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxListLimit, *client.lastQuery.Limit)
	}
	if *client.lastQuery.KeyConditionExpression != "#pk = :pk AND #sk BETWEEN :from AND :to" {
		t.Fatalf("unexpected key condition: %s", *client.lastQuery.KeyConditionExpression)
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	if _, err := repo.ListRecent(ctx, port.IdentificationListQuery{Cursor: page.NextCursor, From: from, To: to}); err != nil {
		t.Fatalf("cursor with same filters rejected: %v", err)
	}
	if client.lastQuery.ExclusiveStartKey == nil {
		t.Fatal("expected exclusive start key from cursor")
	}

	if _, err := repo.ListRecent(ctx, port.IdentificationListQuery{Cursor: page.NextCursor}); err == nil {
		t.Fatal("expected cursor mismatch error when filters change")
	}
	if _, err := repo.ListRecent(ctx, port.IdentificationListQuery{Cursor: "%%%"}); err == nil {
		t.Fatal("expected invalid cursor error")
	}
	if _, err := repo.ListRecent(ctx, port.IdentificationListQuery{From: to, To: from}); err == nil {
		t.Fatal("expected inverted range error")
	}
}
