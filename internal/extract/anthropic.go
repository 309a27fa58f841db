package extract

import (
	"context"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/recon-cli/internal/model"
	"github.com/sells-group/recon-cli/internal/normalize"
)

// Config holds Anthropic extraction settings.
type Config struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Model             string  `yaml:"model" mapstructure:"model"`
	MaxTokens         int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// AnthropicExtractor implements Extractor against the Anthropic API.
type AnthropicExtractor struct {
	client  sdk.Client
	cfg     Config
	normCfg normalize.Config
	limiter *rate.Limiter
}

// Ensure AnthropicExtractor implements Extractor.
var _ Extractor = (*AnthropicExtractor)(nil)

// NewAnthropic creates an extractor backed by the SDK with a client-side
// rate limiter.
func NewAnthropic(cfg Config, normCfg normalize.Config) (*AnthropicExtractor, error) {
	if cfg.Key == "" {
		return nil, eris.New("extract: anthropic key is required")
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	return &AnthropicExtractor{
		client:  sdk.NewClient(option.WithAPIKey(cfg.Key)),
		cfg:     cfg,
		normCfg: normCfg,
		limiter: rate.NewLimiter(rate.Limit(rpm/60), 1),
	}, nil
}

// Extract sends the document text to the model and parses the JSON reply.
func (e *AnthropicExtractor) Extract(ctx context.Context, text string) (*model.Document, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "extract: rate limit wait")
	}

	maxTokens := e.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4000
	}

	msg, err := e.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(e.cfg.Model),
		MaxTokens:   maxTokens,
		Temperature: sdk.Float(0.1),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(fmt.Sprintf(extractionPrompt, text))),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: create message")
	}

	var responseText string
	for _, block := range msg.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	zap.L().Debug("extraction response received",
		zap.String("model", e.cfg.Model),
		zap.Int("chars", len(responseText)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return parseResponse(responseText, e.normCfg)
}
