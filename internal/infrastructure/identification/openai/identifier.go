// Package openai identifies marine species in photos with an OpenAI vision model.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

const (
	SourceOpenAI = "openai"

	defaultModel     = goopenai.GPT4o
	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 500
)

const promptTemplate = `You are a marine biologist. Identify the marine species shown in this image.
Location context: %s

Reply with a single JSON object:
{
  "identified": true or false,
  "scientific_name": "Genus species",
  "common_name": "common name",
  "species_type": "fish/mammal/reptile/invertebrate/coral/algae",
  "confidence": 0-100,
  "conservation_status": "least concern/near threatened/vulnerable/endangered/critically endangered/extinct",
  "threat_level": "low/medium/high/critical",
  "habitat": "brief habitat description",
  "description": "brief species description",
  "identification_features": ["visible feature", "..."],
  "reasoning": "why you chose this species"
}

If the organism cannot be identified or is not marine, set "identified" to false and explain in "reasoning".`

// Config for the vision identifier
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

type chatCompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Identifier implements port.SpeciesIdentifier on top of the chat completions API.
type Identifier struct {
	client chatCompletionAPI
	config Config
	logger *logger.Logger
}

// NewIdentifier returns the OpenAI identifier when an API key is configured,
// otherwise the offline mock identifier.
func NewIdentifier(cfg Config, log *logger.Logger) port.SpeciesIdentifier {
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn("OpenAI API key is not set, species identification uses the mock identifier")
		return NewMockIdentifier()
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	cfg = withDefaults(cfg)
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	log.Info("OpenAI species identifier initialized", "model", cfg.Model)
	return newIdentifier(goopenai.NewClientWithConfig(clientConfig), cfg, log)
}

func newIdentifier(client chatCompletionAPI, cfg Config, log *logger.Logger) *Identifier {
	return &Identifier{
		client: client,
		config: withDefaults(cfg),
		logger: log,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return cfg
}

// Identify sends the image to the model. Transport and API failures are
// returned as errors; unusable replies become a result with Error set.
func (i *Identifier) Identify(ctx context.Context, req port.IdentificationRequest) (*port.IdentificationResult, error) {
	if len(req.Image) == 0 {
		return nil, errors.New("image is empty")
	}

	location := req.Location
	if location == "" {
		location = "ocean"
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(req.Image)

	resp, err := i.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     i.config.Model,
		MaxTokens: i.config.MaxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{
						Type: goopenai.ChatMessagePartTypeText,
						Text: fmt.Sprintf(promptTemplate, location),
					},
					{
						Type: goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: goopenai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return &port.IdentificationResult{Error: "empty response from model", Source: SourceOpenAI}, nil
	}

	result := parseReply(resp.Choices[0].Message.Content)
	if result.Error != "" {
		i.logger.Warn("Could not use model reply", "error", result.Error, "model", i.config.Model)
	} else {
		i.logger.Debug("Model identified species", "scientific_name", result.ScientificName, "confidence", result.Confidence)
	}
	return result, nil
}

type modelReply struct {
	Identified             *bool    `json:"identified"`
	ScientificName         string   `json:"scientific_name"`
	CommonName             string   `json:"common_name"`
	SpeciesType            string   `json:"species_type"`
	ConservationStatus     string   `json:"conservation_status"`
	ThreatLevel            string   `json:"threat_level"`
	Habitat                string   `json:"habitat"`
	Description            string   `json:"description"`
	IdentificationFeatures []string `json:"identification_features"`
	Confidence             float64  `json:"confidence"`
	Reasoning              string   `json:"reasoning"`
}

// parseReply reads the JSON object between the first '{' and the last '}'.
func parseReply(text string) *port.IdentificationResult {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return &port.IdentificationResult{Error: "could not parse identification result", Source: SourceOpenAI}
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err != nil {
		return &port.IdentificationResult{Error: "invalid JSON response from model", Source: SourceOpenAI}
	}

	if reply.Identified != nil && !*reply.Identified {
		msg := strings.TrimSpace(reply.Reasoning)
		if msg == "" {
			msg = "species not identified"
		}
		return &port.IdentificationResult{Error: msg, Source: SourceOpenAI}
	}

	return &port.IdentificationResult{
		ScientificName:         strings.TrimSpace(reply.ScientificName),
		CommonName:             strings.TrimSpace(reply.CommonName),
		SpeciesType:            strings.ToLower(strings.TrimSpace(reply.SpeciesType)),
		ConservationStatus:     strings.ToLower(strings.TrimSpace(reply.ConservationStatus)),
		ThreatLevel:            strings.ToLower(strings.TrimSpace(reply.ThreatLevel)),
		Habitat:                reply.Habitat,
		Description:            reply.Description,
		IdentificationFeatures: reply.IdentificationFeatures,
		Confidence:             normalizeConfidence(reply.Confidence),
		Source:                 SourceOpenAI,
	}
}

// normalizeConfidence maps the prompt's 0-100 percentage to [0,1].
func normalizeConfidence(c float64) float64 {
	c /= 100
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
