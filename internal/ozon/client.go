// Package ozon provides an Ozon Seller API client. Endpoint methods are layered
// on an Executor so transports can be swapped out in tests.
package ozon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/donaldgifford/ozon-seller-client/pkg/logger"
)

// Language selects the locale of names and descriptions in category responses.
type Language string

// Languages accepted by the Seller API.
const (
	LanguageDefault Language = "DEFAULT"
	LanguageRU      Language = "RU"
	LanguageEN      Language = "EN"
	LanguageTR      Language = "TR"
	LanguageZhHans  Language = "ZH_HANS"
)

// ParseLanguage converts a case-insensitive language name to a Language.
// An empty string yields LanguageDefault.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToUpper(strings.TrimSpace(s))); l {
	case "":
		return LanguageDefault, nil
	case LanguageDefault, LanguageRU, LanguageEN, LanguageTR, LanguageZhHans:
		return l, nil
	default:
		return "", fmt.Errorf("unknown language %q", s)
	}
}

// RequestContext scopes category calls to a description category, product
// type and language. It is passed by value to every call that needs it.
// Zero ids are sent as null.
type RequestContext struct {
	DescriptionCategoryID int64
	TypeID                int64
	Language              Language
}

func (rc RequestContext) language() Language {
	if rc.Language == "" {
		return LanguageDefault
	}
	return rc.Language
}

// Request describes a single Seller API call.
type Request struct {
	Method   string
	Version  string
	Endpoint string
	Body     any
}

// Executor sends a Request and returns the raw JSON response body.
// Implementations return the body for any HTTP status as long as it is valid
// JSON; business errors are data, not errors.
type Executor interface {
	Execute(ctx context.Context, req Request) (json.RawMessage, error)
}

// Client exposes the Seller API endpoints. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	exec      Executor
	rc        RequestContext
	logger    *slog.Logger
	validate  bool
	validator *validator.Validate
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithValidation toggles validation of typed payloads before they are sent.
// Enabled by default.
func WithValidation(enabled bool) Option {
	return func(c *Client) {
		c.validate = enabled
	}
}

// WithRequestContext sets the default RequestContext returned by
// Client.RequestContext.
func WithRequestContext(rc RequestContext) Option {
	return func(c *Client) {
		c.rc = rc
	}
}

// NewClient creates a Client on top of exec.
func NewClient(exec Executor, opts ...Option) *Client {
	c := &Client{
		exec:      exec,
		logger:    logger.Discard(),
		validate:  true,
		validator: payloadValidator,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestContext returns the client's default request context.
func (c *Client) RequestContext() RequestContext {
	return c.rc
}

// ForContext returns a copy of c whose default request context is rc. The
// copy shares the executor and logger with c.
func (c *Client) ForContext(rc RequestContext) *Client {
	cp := *c
	cp.rc = rc
	return &cp
}

// call executes op and decodes the response into dst.
func (c *Client) call(ctx context.Context, op Operation, body, dst any) error {
	ep, ok := endpoints[op]
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}

	raw, err := c.exec.Execute(ctx, Request{
		Method:   ep.method,
		Version:  ep.version,
		Endpoint: ep.path,
		Body:     body,
	})
	if err != nil {
		return fmt.Errorf("calling %s: %w", op, err)
	}

	if !json.Valid(raw) {
		return fmt.Errorf("decoding %s response: %w", op, ErrInvalidJSON)
	}
	if err := decodeJSON(raw, dst); err != nil {
		return fmt.Errorf("decoding %s response: %w: %w", op, ErrUnexpectedShape, err)
	}
	return nil
}

func (c *Client) document(ctx context.Context, op Operation, body any) (Document, error) {
	var doc Document
	if err := c.call(ctx, op, body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) checkPayload(v any) error {
	if !c.validate {
		return nil
	}
	if err := c.validator.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

// optionalID maps the zero id to JSON null.
func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
