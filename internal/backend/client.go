package backend

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/glossapp/gloss/internal/proto"
	"github.com/glossapp/gloss/internal/rate"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const requestTemperature = 0.7

// Client is the one concrete Backend implementation. Per-provider quirks
// come from the Descriptor; the cooldown table is injected so every
// instance of a backend type shares it.
type Client struct {
	desc    Descriptor
	limiter *rate.Limiter

	mu  sync.Mutex
	cfg Config
}

var _ Backend = (*Client)(nil)

// New creates a backend instance. The limiter may be nil for the local
// backend, which has no model chain to cool down.
func New(desc Descriptor, cfg Config, limiter *rate.Limiter) *Client {
	return &Client{desc: desc, cfg: cfg, limiter: limiter}
}

// Descriptor returns the backend's static description.
func (c *Client) Descriptor() Descriptor { return c.desc }

// Config returns a snapshot of the current configuration.
func (c *Client) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetCredentials swaps credential and model in place. Existing callers see
// the new values on their next request.
func (c *Client) SetCredentials(apiKey, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.APIKey = apiKey
	c.cfg.Model = model
}

// Endpoint returns the base URL requests go to.
func (c *Client) Endpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.Endpoint != "" {
		return c.cfg.Endpoint
	}
	return c.desc.BaseURL
}

func (c *Client) api() openai.Client {
	cfg := c.Config()
	opts := []option.RequestOption{
		// The SDK resolves endpoint paths against the base URL, which
		// must end in a slash for that to keep the version prefix.
		option.WithBaseURL(strings.TrimSuffix(c.Endpoint(), "/") + "/"),
		option.WithRequestTimeout(c.desc.Timeout),
		// The fallback engine owns retry policy; the SDK must not retry
		// 429s underneath it.
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	for k, v := range c.desc.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	return openai.NewClient(opts...)
}

// TestConnection lists the backend's models. Success means the endpoint is
// reachable and the credential, if any, is accepted.
func (c *Client) TestConnection(ctx context.Context) proto.ConnectionStatus {
	if !c.desc.Local && c.Config().APIKey == "" {
		return proto.ConnectionStatus{Message: (&ConfigurationError{Backend: c.desc.ID}).Error()}
	}
	client := c.api()
	page, err := client.Models.List(ctx)
	if err != nil {
		return proto.ConnectionStatus{Message: c.classify("", err).Error()}
	}
	var models []string
	for _, m := range page.Data {
		models = append(models, m.ID)
	}
	return proto.ConnectionStatus{OK: true, Models: models}
}

// chat sends a single-turn prompt and returns the raw reply text, working
// through the model fallback chain. Candidates are tried strictly one at a
// time: a 429 cools the model down for the window and moves on, any other
// error aborts.
func (c *Client) chat(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	cfg := c.Config()
	if !c.desc.Local && cfg.APIKey == "" {
		return "", &ConfigurationError{Backend: c.desc.ID}
	}

	candidates := c.candidates(cfg.Model)
	if len(candidates) == 0 {
		return "", &AllModelsRateLimitedError{Backend: c.desc.ID, Wait: c.limiter.Wait()}
	}

	msgs := []proto.Message{
		{Role: proto.RoleSystem, Content: noPreamble},
		{Role: proto.RoleUser, Content: prompt},
	}

	var lastErr error
	for _, model := range candidates {
		text, err := c.complete(ctx, model, msgs, maxTokens)
		if err == nil {
			return text, nil
		}
		var rle *RateLimitError
		if errors.As(err, &rle) && c.limiter != nil {
			c.limiter.MarkLimited(model)
			lastErr = err
			continue
		}
		return "", err
	}
	if c.limiter != nil {
		return "", &AllModelsRateLimitedError{Backend: c.desc.ID, Wait: c.limiter.Wait()}
	}
	return "", lastErr
}

func (c *Client) candidates(preferred string) []string {
	if c.desc.Local || c.limiter == nil {
		if preferred == "" {
			preferred = "local-model"
		}
		return []string{preferred}
	}
	if preferred == "" {
		preferred = c.desc.DefaultModel()
	}
	return c.limiter.Candidates(preferred, c.desc.Chain)
}

// chatMessages maps contract messages onto the wire union.
func chatMessages(msgs []proto.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case proto.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case proto.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func (c *Client) complete(ctx context.Context, model string, msgs []proto.Message, maxTokens int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.desc.Timeout)
	defer cancel()

	client := c.api()
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    chatMessages(msgs),
		Temperature: openai.Float(requestTemperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", c.classify(model, err)
	}
	if len(resp.Choices) == 0 {
		return "", &NetworkError{Backend: c.desc.ID, Err: errors.New("empty choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps transport and API errors onto the package taxonomy. A
// timeout is terminal for the call: it never triggers model substitution,
// only a 429 does.
func (c *Client) classify(model string, err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthenticationError{Backend: c.desc.ID, Err: err}
		case http.StatusTooManyRequests:
			return &RateLimitError{Backend: c.desc.ID, Model: model, Err: err}
		}
		return &NetworkError{Backend: c.desc.ID, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Backend: c.desc.ID, Model: model, Err: err}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &TimeoutError{Backend: c.desc.ID, Model: model, Err: err}
	}
	return &NetworkError{Backend: c.desc.ID, Err: err}
}
