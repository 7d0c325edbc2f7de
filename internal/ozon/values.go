package ozon

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/donaldgifford/ozon-seller-client/internal/metrics"
)

const (
	defaultValuesPageSize = 5000
	defaultValuesMaxPages = 10000
	defaultStallLimit     = 3
)

// AttributeValue is one allowed value of an attribute, kept as returned by
// the API. It always carries a numeric "id".
type AttributeValue map[string]any

// ID returns the value id.
func (v AttributeValue) ID() (int64, error) {
	switch id := v["id"].(type) {
	case json.Number:
		return id.Int64()
	case float64:
		if id != math.Trunc(id) {
			return 0, fmt.Errorf("non-integer id %v", id)
		}
		return int64(id), nil
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case nil:
		return 0, fmt.Errorf("missing id")
	default:
		return 0, fmt.Errorf("id has type %T", id)
	}
}

// AttributeValuesPage is one page of description-category/attribute/values.
type AttributeValuesPage struct {
	Result  []AttributeValue `json:"result"`
	HasNext bool             `json:"has_next"`
	errorBody
}

// APIError returns the business error carried by the page, or nil.
func (p *AttributeValuesPage) APIError() *APIError {
	return p.apiError()
}

type attributeValuesBody struct {
	AttributeID           int64    `json:"attribute_id"`
	DescriptionCategoryID *int64   `json:"description_category_id"`
	Language              Language `json:"language"`
	LastValueID           int64    `json:"last_value_id"`
	Limit                 int      `json:"limit"`
	TypeID                *int64   `json:"type_id"`
}

type valuesConfig struct {
	pageSize    int
	maxPages    int
	stallLimit  int
	startCursor int64
	name        string
}

// ValuesOption configures AttributeValues.
type ValuesOption func(*valuesConfig)

// WithPageSize overrides the default page size of 5000.
func WithPageSize(n int) ValuesOption {
	return func(c *valuesConfig) {
		c.pageSize = n
	}
}

// WithMaxPages caps the number of pages requested.
func WithMaxPages(n int) ValuesOption {
	return func(c *valuesConfig) {
		c.maxPages = n
	}
}

// WithStallLimit sets how many consecutive pages may report has_next without
// moving the cursor before the fetch gives up.
func WithStallLimit(n int) ValuesOption {
	return func(c *valuesConfig) {
		c.stallLimit = n
	}
}

// WithStartCursor starts from a last_value_id other than 0.
func WithStartCursor(id int64) ValuesOption {
	return func(c *valuesConfig) {
		c.startCursor = id
	}
}

// WithAttributeName labels log lines with the attribute name.
func WithAttributeName(name string) ValuesOption {
	return func(c *valuesConfig) {
		c.name = name
	}
}

// AttributeValuesPage requests a single page of attribute values starting
// after lastValueID.
func (c *Client) AttributeValuesPage(
	ctx context.Context,
	rc RequestContext,
	attributeID int64,
	lastValueID int64,
	limit int,
) (*AttributeValuesPage, error) {
	var page AttributeValuesPage
	err := c.call(ctx, OpAttributeValues, attributeValuesBody{
		AttributeID:           attributeID,
		DescriptionCategoryID: optionalID(rc.DescriptionCategoryID),
		Language:              rc.language(),
		LastValueID:           lastValueID,
		Limit:                 limit,
		TypeID:                optionalID(rc.TypeID),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// AttributeValues fetches every allowed value of an attribute, following the
// last_value_id cursor until the API reports no further pages. Values are
// returned in arrival order without deduplication.
//
// On error the values collected so far are returned with it. A page that
// does not advance the cursor adds no values; while has_next is set it is
// re-requested, and after the stall limit, or after the page cap, the error
// wraps ErrPaginationExhausted.
func (c *Client) AttributeValues(
	ctx context.Context,
	rc RequestContext,
	attributeID int64,
	opts ...ValuesOption,
) ([]AttributeValue, error) {
	cfg := valuesConfig{
		pageSize:   defaultValuesPageSize,
		maxPages:   defaultValuesMaxPages,
		stallLimit: defaultStallLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pageSize <= 0 {
		cfg.pageSize = defaultValuesPageSize
	}
	if cfg.maxPages <= 0 {
		cfg.maxPages = defaultValuesMaxPages
	}
	cfg.stallLimit = max(cfg.stallLimit, 1)

	log := c.logger.With("attribute_id", attributeID)
	if cfg.name != "" {
		log = log.With("attribute", cfg.name)
	}

	values := []AttributeValue{}
	cursor := cfg.startCursor
	stalled := 0

	for page := range cfg.maxPages {
		resp, err := c.AttributeValuesPage(ctx, rc, attributeID, cursor, cfg.pageSize)
		if err != nil {
			return values, fmt.Errorf("fetching values page %d: %w", page, err)
		}
		metrics.PaginationPagesTotal.Inc()

		if apiErr := resp.APIError(); apiErr != nil {
			return values, fmt.Errorf("fetching values page %d: %w", page, apiErr)
		}

		advanced := false
		if n := len(resp.Result); n > 0 {
			next, err := resp.Result[n-1].ID()
			if err != nil {
				values = append(values, resp.Result...)
				return values, fmt.Errorf("values page %d: %w: %w", page, ErrMalformedPage, err)
			}
			advanced = next != cursor
			cursor = next
		}

		// A page ending at the current cursor repeats values already collected.
		if advanced {
			values = append(values, resp.Result...)
		}

		if !resp.HasNext {
			log.DebugContext(ctx, "attribute values fetched", "values", len(values), "pages", page+1)
			return values, nil
		}

		if advanced {
			stalled = 0
			continue
		}

		stalled++
		log.WarnContext(ctx, "values page did not advance cursor",
			"cursor", cursor,
			"page", page,
			"stalled", stalled,
		)
		if stalled >= cfg.stallLimit {
			metrics.PaginationExhaustedTotal.Inc()
			return values, fmt.Errorf(
				"%w: cursor stuck at %d for %d pages",
				ErrPaginationExhausted,
				cursor,
				stalled,
			)
		}
	}

	metrics.PaginationExhaustedTotal.Inc()
	return values, fmt.Errorf("%w: more than %d pages", ErrPaginationExhausted, cfg.maxPages)
}
