package ozon

import (
	"context"
	"net/http"
)

// Operation names a Seller API call.
type Operation string

// Operations exposed by Client.
const (
	OpCategoryTree          Operation = "category_tree"
	OpAttributes            Operation = "category_attributes"
	OpAttributeValues       Operation = "category_attribute_values"
	OpSearchAttributeValues Operation = "category_attribute_values_search"
	OpImportProducts        Operation = "product_import"
	OpImportInfo            Operation = "product_import_info"
	OpImportBySKU           Operation = "product_import_by_sku"
	OpUpdateAttributes      Operation = "product_attributes_update"
	OpImportPictures        Operation = "product_pictures_import"
	OpPicturesInfo          Operation = "product_pictures_info"
	OpListProducts          Operation = "product_list"
	OpUploadQuota           Operation = "product_info_limit"
)

const defaultSearchValuesLimit = 100

type endpoint struct {
	method  string
	version string
	path    string
}

var endpoints = map[Operation]endpoint{
	OpCategoryTree:          {http.MethodPost, "v1", "description-category/tree"},
	OpAttributes:            {http.MethodPost, "v1", "description-category/attribute"},
	OpAttributeValues:       {http.MethodPost, "v1", "description-category/attribute/values"},
	OpSearchAttributeValues: {http.MethodPost, "v1", "description-category/attribute/values/search"},
	OpImportProducts:        {http.MethodPost, "v3", "product/import"},
	OpImportInfo:            {http.MethodPost, "v1", "product/import/info"},
	OpImportBySKU:           {http.MethodPost, "v1", "product/import-by-sku"},
	OpUpdateAttributes:      {http.MethodPost, "v1", "product/attributes/update"},
	OpImportPictures:        {http.MethodPost, "v1", "product/pictures/import"},
	OpPicturesInfo:          {http.MethodPost, "v1", "product/pictures/info"},
	OpListProducts:          {http.MethodPost, "v1", "product/list"},
	OpUploadQuota:           {http.MethodPost, "v4", "product/info/limit"},
}

// Route returns the HTTP method, API version and path of op.
func Route(op Operation) (method, version, path string, ok bool) {
	ep, ok := endpoints[op]
	return ep.method, ep.version, ep.path, ok
}

type categoryTreeBody struct {
	Language Language `json:"language"`
}

type categoryBody struct {
	DescriptionCategoryID *int64   `json:"description_category_id"`
	TypeID                *int64   `json:"type_id"`
	Language              Language `json:"language"`
}

type searchValuesBody struct {
	AttributeID           int64    `json:"attribute_id"`
	DescriptionCategoryID *int64   `json:"description_category_id"`
	Language              Language `json:"language"`
	Limit                 int      `json:"limit"`
	TypeID                *int64   `json:"type_id"`
	Value                 string   `json:"value"`
}

type importInfoBody struct {
	TaskID int64 `json:"task_id" validate:"required"`
}

type picturesInfoBody struct {
	ProductID []string `json:"product_id"`
}

// CategoryTree returns the description category tree. The language is sent
// only when it is not LanguageDefault.
func (c *Client) CategoryTree(ctx context.Context, rc RequestContext) (Document, error) {
	var body any
	if lang := rc.language(); lang != LanguageDefault {
		body = categoryTreeBody{Language: lang}
	}
	return c.document(ctx, OpCategoryTree, body)
}

// Attributes returns the attribute list of the category and type in rc.
func (c *Client) Attributes(ctx context.Context, rc RequestContext) (Document, error) {
	return c.document(ctx, OpAttributes, newCategoryBody(rc))
}

// SearchAttributeValues searches the allowed values of an attribute by text.
// A non-positive limit uses 100.
func (c *Client) SearchAttributeValues(
	ctx context.Context,
	rc RequestContext,
	attributeID int64,
	value string,
	limit int,
) (Document, error) {
	if limit <= 0 {
		limit = defaultSearchValuesLimit
	}
	return c.document(ctx, OpSearchAttributeValues, searchValuesBody{
		AttributeID:           attributeID,
		DescriptionCategoryID: optionalID(rc.DescriptionCategoryID),
		Language:              rc.language(),
		Limit:                 limit,
		TypeID:                optionalID(rc.TypeID),
		Value:                 value,
	})
}

// ImportProducts creates or updates up to 100 products. Items with an empty
// currency code are sent as RUB.
func (c *Client) ImportProducts(ctx context.Context, items []ProductImportItem) (Document, error) {
	req := ProductImportRequest{Items: items}.normalized()
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}
	return c.document(ctx, OpImportProducts, req)
}

// ImportInfo returns the status of a product import task.
func (c *Client) ImportInfo(ctx context.Context, taskID int64) (Document, error) {
	body := importInfoBody{TaskID: taskID}
	if err := c.checkPayload(body); err != nil {
		return nil, err
	}
	return c.document(ctx, OpImportInfo, body)
}

// ImportBySKU creates products from existing Ozon SKUs.
func (c *Client) ImportBySKU(ctx context.Context, items []ImportBySKUItem) (Document, error) {
	req := ImportBySKURequest{Items: items}
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}
	return c.document(ctx, OpImportBySKU, req)
}

// UpdateAttributes updates product attributes by offer id.
func (c *Client) UpdateAttributes(ctx context.Context, items []AttributesUpdateItem) (Document, error) {
	req := AttributesUpdateRequest{Items: items}
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}
	return c.document(ctx, OpUpdateAttributes, req)
}

// ImportPictures uploads or replaces product pictures. The body is sent as is.
func (c *Client) ImportPictures(ctx context.Context, body Document) (Document, error) {
	return c.document(ctx, OpImportPictures, freeForm(body))
}

// PicturesInfo returns the picture upload status of the given products.
func (c *Client) PicturesInfo(ctx context.Context, productIDs []string) (Document, error) {
	return c.document(ctx, OpPicturesInfo, picturesInfoBody{ProductID: productIDs})
}

// ListProducts returns the seller's product list. The body (filter, last_id,
// limit) is sent as is.
func (c *Client) ListProducts(ctx context.Context, body Document) (Document, error) {
	return c.document(ctx, OpListProducts, freeForm(body))
}

// UploadQuota returns the product creation and update limits.
func (c *Client) UploadQuota(ctx context.Context) (Document, error) {
	return c.document(ctx, OpUploadQuota, nil)
}

func newCategoryBody(rc RequestContext) categoryBody {
	return categoryBody{
		DescriptionCategoryID: optionalID(rc.DescriptionCategoryID),
		TypeID:                optionalID(rc.TypeID),
		Language:              rc.language(),
	}
}

// freeForm keeps a nil Document from being sent as a JSON null.
func freeForm(d Document) any {
	if d == nil {
		return nil
	}
	return d
}
