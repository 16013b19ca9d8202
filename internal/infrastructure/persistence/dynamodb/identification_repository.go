package dynamodb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
)

const (
	defaultListLimit = 24
	maxListLimit     = 100

	// All records share one partition; the history is small and read newest-first.
	identificationPK = "IDENTIFICATIONS"

	attrPK             = "PK"
	attrSK             = "SK"
	attrID             = "id"
	attrScientificName = "scientific_name"
	attrCommonName     = "common_name"
	attrConfidence     = "confidence"
	attrSource         = "source"
	attrSpeciesID      = "species_id"
	attrLocation       = "location"
	attrImageKey       = "image_key"
	attrImageURL       = "image_url"
	attrIdentifiedAt   = "identified_at"
	attrExpiresAt      = "expires_at"
)

type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	StrongReads     bool

	// Retention > 0 sets a DynamoDB TTL attribute on every record.
	Retention time.Duration
}

// dynamoAPI is the subset of the DynamoDB client used by the repository.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// IdentificationRepository stores species identification history in DynamoDB.
// Implements port.IdentificationRecordRepository.
type IdentificationRepository struct {
	client      dynamoAPI
	tableName   string
	strongReads bool
	retention   time.Duration
	now         func() time.Time
}

type cursorPayload struct {
	FromMS int64                  `json:"from_ms,omitempty"`
	ToMS   int64                  `json:"to_ms,omitempty"`
	Key    map[string]cursorValue `json:"key"`
}

type cursorValue struct {
	S string `json:"s,omitempty"`
	N string `json:"n,omitempty"`
}

func NewIdentificationRepository(ctx context.Context, cfg Config) (*IdentificationRepository, error) {
	if strings.TrimSpace(cfg.TableName) == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}

	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	accessKeyID := strings.TrimSpace(cfg.AccessKeyID)
	secretAccessKey := strings.TrimSpace(cfg.SecretAccessKey)
	if accessKeyID != "" || secretAccessKey != "" {
		if accessKeyID == "" || secretAccessKey == "" {
			return nil, fmt.Errorf("both dynamodb access key id and secret access key are required for static credentials")
		}
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config for dynamodb: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			options.BaseEndpoint = &endpoint
		}
	})

	return newIdentificationRepository(client, cfg), nil
}

func newIdentificationRepository(client dynamoAPI, cfg Config) *IdentificationRepository {
	return &IdentificationRepository{
		client:      client,
		tableName:   strings.TrimSpace(cfg.TableName),
		strongReads: cfg.StrongReads,
		retention:   cfg.Retention,
		now:         time.Now,
	}
}

func (r *IdentificationRepository) Put(ctx context.Context, record port.IdentificationRecord) error {
	item, err := r.toItem(record)
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put item failed: %w", err)
	}
	return nil
}

func (r *IdentificationRepository) ListRecent(
	ctx context.Context,
	query port.IdentificationListQuery,
) (port.IdentificationListPage, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	fromMS, toMS, hasRange, err := normalizeTimeRange(query.From, query.To)
	if err != nil {
		return port.IdentificationListPage{}, err
	}

	keyCondition := "#pk = :pk"
	input := &dynamodb.QueryInput{
		TableName:                &r.tableName,
		Limit:                    int32Pointer(int32(limit)),
		ScanIndexForward:         boolPointer(false),
		ConsistentRead:           boolPointer(r.strongReads),
		ExpressionAttributeNames: map[string]string{"#pk": attrPK},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: identificationPK},
		},
	}
	if hasRange {
		input.ExpressionAttributeNames["#sk"] = attrSK
		input.ExpressionAttributeValues[":from"] = &types.AttributeValueMemberS{Value: buildSortLowerBound(fromMS)}
		input.ExpressionAttributeValues[":to"] = &types.AttributeValueMemberS{Value: buildSortUpperBound(toMS)}
		keyCondition += " AND #sk BETWEEN :from AND :to"
	}
	input.KeyConditionExpression = &keyCondition

	if strings.TrimSpace(query.Cursor) != "" {
		exclusiveStartKey, err := decodeCursor(query.Cursor, fromMS, toMS)
		if err != nil {
			return port.IdentificationListPage{}, err
		}
		input.ExclusiveStartKey = exclusiveStartKey
	}

	output, err := r.client.Query(ctx, input)
	if err != nil {
		return port.IdentificationListPage{}, fmt.Errorf("dynamodb query failed: %w", err)
	}

	items := make([]port.IdentificationRecord, 0, len(output.Items))
	for _, raw := range output.Items {
		item, err := fromItem(raw)
		if err != nil {
			return port.IdentificationListPage{}, err
		}
		items = append(items, item)
	}

	nextCursor := ""
	if len(output.LastEvaluatedKey) > 0 {
		nextCursor, err = encodeCursor(output.LastEvaluatedKey, fromMS, toMS)
		if err != nil {
			return port.IdentificationListPage{}, err
		}
	}

	return port.IdentificationListPage{
		Items:      items,
		NextCursor: nextCursor,
	}, nil
}

func (r *IdentificationRepository) toItem(record port.IdentificationRecord) (map[string]types.AttributeValue, error) {
	id := strings.TrimSpace(record.ID)
	scientificName := strings.TrimSpace(record.ScientificName)
	if id == "" {
		return nil, fmt.Errorf("identification id is required")
	}
	if scientificName == "" {
		return nil, fmt.Errorf("scientific_name is required")
	}
	if record.Confidence < 0 || record.Confidence > 1 {
		return nil, fmt.Errorf("confidence must be between 0 and 1")
	}

	identifiedAt := record.IdentifiedAt.UTC()
	if identifiedAt.IsZero() {
		identifiedAt = r.now().UTC()
	}
	identifiedAtMS := identifiedAt.UnixMilli()

	item := map[string]types.AttributeValue{
		attrPK:             &types.AttributeValueMemberS{Value: identificationPK},
		attrSK:             &types.AttributeValueMemberS{Value: buildSK(identifiedAtMS, id)},
		attrID:             &types.AttributeValueMemberS{Value: id},
		attrScientificName: &types.AttributeValueMemberS{Value: scientificName},
		attrConfidence:     &types.AttributeValueMemberN{Value: strconv.FormatFloat(record.Confidence, 'f', -1, 64)},
		attrIdentifiedAt:   &types.AttributeValueMemberN{Value: strconv.FormatInt(identifiedAtMS, 10)},
	}

	for name, value := range map[string]string{
		attrCommonName: record.CommonName,
		attrSource:     record.Source,
		attrSpeciesID:  record.SpeciesID,
		attrLocation:   record.Location,
		attrImageKey:   record.ImageKey,
		attrImageURL:   record.ImageURL,
	} {
		if v := strings.TrimSpace(value); v != "" {
			item[name] = &types.AttributeValueMemberS{Value: v}
		}
	}

	if r.retention > 0 {
		expiresAt := identifiedAt.Add(r.retention).Unix()
		item[attrExpiresAt] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt, 10)}
	}

	return item, nil
}

func fromItem(item map[string]types.AttributeValue) (port.IdentificationRecord, error) {
	id, err := attrString(item, attrID)
	if err != nil {
		return port.IdentificationRecord{}, err
	}
	scientificName, err := attrString(item, attrScientificName)
	if err != nil {
		return port.IdentificationRecord{}, err
	}
	identifiedAtMS, err := attrInt64(item, attrIdentifiedAt)
	if err != nil {
		return port.IdentificationRecord{}, err
	}
	confidence, err := attrFloat64(item, attrConfidence)
	if err != nil {
		return port.IdentificationRecord{}, err
	}

	return port.IdentificationRecord{
		ID:             id,
		ScientificName: scientificName,
		CommonName:     optionalString(item, attrCommonName),
		Confidence:     confidence,
		Source:         optionalString(item, attrSource),
		SpeciesID:      optionalString(item, attrSpeciesID),
		Location:       optionalString(item, attrLocation),
		ImageKey:       optionalString(item, attrImageKey),
		ImageURL:       optionalString(item, attrImageURL),
		IdentifiedAt:   time.UnixMilli(identifiedAtMS).UTC(),
	}, nil
}

func normalizeTimeRange(from, to time.Time) (int64, int64, bool, error) {
	from = from.UTC()
	to = to.UTC()
	if from.IsZero() && to.IsZero() {
		return 0, math.MaxInt64, false, nil
	}

	fromMS := int64(0)
	toMS := int64(math.MaxInt64)
	if !from.IsZero() {
		fromMS = from.UnixMilli()
	}
	if !to.IsZero() {
		toMS = to.UnixMilli()
	}

	if fromMS > toMS {
		return 0, 0, false, fmt.Errorf("from must be less than or equal to to")
	}

	return fromMS, toMS, true, nil
}

// buildSK orders records by time; the id suffix keeps same-millisecond records distinct.
func buildSK(identifiedAtMS int64, id string) string {
	return fmt.Sprintf("TS#%013d#ID#%s", identifiedAtMS, id)
}

func buildSortLowerBound(tsMS int64) string {
	return fmt.Sprintf("TS#%013d#", tsMS)
}

func buildSortUpperBound(tsMS int64) string {
	return fmt.Sprintf("TS#%013d#~", tsMS)
}

func encodeCursor(key map[string]types.AttributeValue, fromMS, toMS int64) (string, error) {
	values := make(map[string]cursorValue, len(key))
	for attributeName, raw := range key {
		switch value := raw.(type) {
		case *types.AttributeValueMemberS:
			values[attributeName] = cursorValue{S: value.Value}
		case *types.AttributeValueMemberN:
			values[attributeName] = cursorValue{N: value.Value}
		default:
			return "", fmt.Errorf("unsupported cursor attribute type for %s", attributeName)
		}
	}

	serialized, err := json.Marshal(cursorPayload{FromMS: fromMS, ToMS: toMS, Key: values})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(serialized), nil
}

func decodeCursor(cursor string, fromMS, toMS int64) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor")
	}

	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid cursor")
	}

	if payload.FromMS != fromMS || payload.ToMS != toMS {
		return nil, fmt.Errorf("cursor does not match query filters")
	}

	key := make(map[string]types.AttributeValue, len(payload.Key))
	for attributeName, value := range payload.Key {
		if value.S != "" {
			key[attributeName] = &types.AttributeValueMemberS{Value: value.S}
			continue
		}
		if value.N != "" {
			key[attributeName] = &types.AttributeValueMemberN{Value: value.N}
			continue
		}
		return nil, fmt.Errorf("invalid cursor")
	}

	return key, nil
}

func attrString(item map[string]types.AttributeValue, name string) (string, error) {
	raw, ok := item[name]
	if !ok {
		return "", fmt.Errorf("missing attribute %s", name)
	}
	value, ok := raw.(*types.AttributeValueMemberS)
	if !ok || strings.TrimSpace(value.Value) == "" {
		return "", fmt.Errorf("invalid attribute %s", name)
	}
	return value.Value, nil
}

func optionalString(item map[string]types.AttributeValue, name string) string {
	raw, ok := item[name]
	if !ok {
		return ""
	}
	value, ok := raw.(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return value.Value
}

func attrInt64(item map[string]types.AttributeValue, name string) (int64, error) {
	raw, ok := item[name]
	if !ok {
		return 0, fmt.Errorf("missing attribute %s", name)
	}
	value, ok := raw.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("invalid attribute %s", name)
	}
	parsed, err := strconv.ParseInt(value.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid attribute %s: %w", name, err)
	}
	return parsed, nil
}

func attrFloat64(item map[string]types.AttributeValue, name string) (float64, error) {
	raw, ok := item[name]
	if !ok {
		return 0, fmt.Errorf("missing attribute %s", name)
	}
	value, ok := raw.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("invalid attribute %s", name)
	}
	parsed, err := strconv.ParseFloat(value.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid attribute %s: %w", name, err)
	}
	return parsed, nil
}

func boolPointer(v bool) *bool {
	return &v
}

func int32Pointer(v int32) *int32 {
	return &v
}
