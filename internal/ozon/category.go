package ozon

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/ozon-seller-client/internal/metrics"
)

// Attribute describes one characteristic of a description category.
type Attribute struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Type               string `json:"type"`
	IsCollection       bool   `json:"is_collection"`
	IsRequired         bool   `json:"is_required"`
	IsAspect           bool   `json:"is_aspect"`
	MaxValueCount      int64  `json:"max_value_count"`
	GroupID            int64  `json:"group_id"`
	GroupName          string `json:"group_name"`
	DictionaryID       int64  `json:"dictionary_id"`
	CategoryDependent  bool   `json:"category_dependent"`
	AttributeComplexID int64  `json:"attribute_complex_id"`
}

type attributesResponse struct {
	Result []Attribute `json:"result"`
	errorBody
}

// CategoryField is an attribute of a category together with all of its
// allowed values.
type CategoryField struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	IsRequired  bool             `json:"is_required"`
	Values      []AttributeValue `json:"values"`
}

// FieldFailure records an attribute whose values could not be fetched in full.
// The matching CategoryField still holds whatever values were collected.
type FieldFailure struct {
	AttributeID int64
	Name        string
	Err         error
}

// MarshalJSON implements json.Marshaler.
func (f FieldFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AttributeID int64  `json:"attribute_id"`
		Name        string `json:"name"`
		Error       string `json:"error"`
	}{f.AttributeID, f.Name, f.Err.Error()})
}

// CategoryInfo is the denormalized attribute schema of a category.
type CategoryInfo struct {
	RunID    string          `json:"run_id"`
	Fields   []CategoryField `json:"fields"`
	Failures []FieldFailure  `json:"failures,omitempty"`
}

// Complete reports whether every field's values were fetched in full.
func (ci *CategoryInfo) Complete() bool {
	return len(ci.Failures) == 0
}

type categoryConfig struct {
	concurrency int
	valuesOpts  []ValuesOption
}

// CategoryOption configures FullCategoryInfo.
type CategoryOption func(*categoryConfig)

// WithConcurrency sets how many attributes have their values fetched at once.
// The default of 1 fetches them one after another.
func WithConcurrency(n int) CategoryOption {
	return func(c *categoryConfig) {
		c.concurrency = n
	}
}

// WithValuesOptions passes options to every AttributeValues call.
func WithValuesOptions(opts ...ValuesOption) CategoryOption {
	return func(c *categoryConfig) {
		c.valuesOpts = append(c.valuesOpts, opts...)
	}
}

// AttributeList returns the attributes of the category and type in rc. A
// business error from the API is returned as an *APIError.
func (c *Client) AttributeList(ctx context.Context, rc RequestContext) ([]Attribute, error) {
	var resp attributesResponse
	if err := c.call(ctx, OpAttributes, newCategoryBody(rc), &resp); err != nil {
		return nil, err
	}
	if apiErr := resp.apiError(); apiErr != nil {
		return nil, apiErr
	}
	return resp.Result, nil
}

// FullCategoryInfo lists the attributes of the category in rc and fetches the
// allowed values of each. Fields keep the order of the attribute list.
//
// Only a failure to list the attributes, or a done context, is returned as an
// error. An attribute whose values cannot be fetched in full is kept with the
// values collected so far and reported in CategoryInfo.Failures.
func (c *Client) FullCategoryInfo(
	ctx context.Context,
	rc RequestContext,
	opts ...CategoryOption,
) (*CategoryInfo, error) {
	cfg := categoryConfig{concurrency: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	runID := uuid.NewString()
	log := c.logger.With(
		"run_id", runID,
		"description_category_id", rc.DescriptionCategoryID,
		"type_id", rc.TypeID,
	)

	attrs, err := c.AttributeList(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("listing category attributes: %w", err)
	}
	log.InfoContext(ctx, "fetching category values", "attributes", len(attrs))

	fields := make([]CategoryField, len(attrs))
	errs := make([]error, len(attrs))

	valuesOpts := slices.Clip(cfg.valuesOpts)

	var g errgroup.Group
	g.SetLimit(max(cfg.concurrency, 1))

	for i := range attrs {
		attr := attrs[i]
		g.Go(func() error {
			values, err := c.AttributeValues(
				ctx,
				rc,
				attr.ID,
				append(valuesOpts, WithAttributeName(attr.Name))...,
			)
			fields[i] = CategoryField{
				ID:          attr.ID,
				Name:        attr.Name,
				Description: attr.Description,
				IsRequired:  attr.IsRequired,
				Values:      values,
			}
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers report through errs

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building category info: %w", err)
	}

	info := &CategoryInfo{RunID: runID, Fields: fields}
	for i, err := range errs {
		if err == nil {
			continue
		}
		metrics.CategoryFieldFailuresTotal.Inc()
		log.WarnContext(ctx, "attribute values incomplete",
			"attribute_id", attrs[i].ID,
			"attribute", attrs[i].Name,
			"values", len(fields[i].Values),
			"err", err,
		)
		info.Failures = append(info.Failures, FieldFailure{
			AttributeID: attrs[i].ID,
			Name:        attrs[i].Name,
			Err:         err,
		})
	}

	log.InfoContext(ctx, "category info assembled",
		"fields", len(info.Fields),
		"failures", len(info.Failures),
	)
	return info, nil
}
