package ozon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Currency is the price currency of a product.
type Currency string

// Currencies accepted by the Seller API.
const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyKZT Currency = "KZT"
	CurrencyBYN Currency = "BYN"
	CurrencyCNY Currency = "CNY"
)

// VAT is a value-added tax rate.
type VAT string

// VAT rates accepted by the Seller API.
const (
	VATNone VAT = "0"
	VAT10   VAT = "0.1"
	VAT20   VAT = "0.2"
)

// Scalar is a value the API accepts either as a JSON number or as a string,
// such as prices and package dimensions. The zero Scalar is empty and encodes
// as null.
type Scalar struct {
	raw    string
	quoted bool
}

// Int returns a Scalar encoded as a JSON number.
func Int(v int64) Scalar {
	return Scalar{raw: strconv.FormatInt(v, 10)}
}

// Str returns a Scalar encoded as a JSON string.
func Str(v string) Scalar {
	return Scalar{raw: v, quoted: true}
}

func (s Scalar) String() string {
	return s.raw
}

// IsZero reports whether s holds no value.
func (s Scalar) IsZero() bool {
	return s.raw == ""
}

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch {
	case s.quoted:
		return json.Marshal(s.raw)
	case s.raw == "":
		return []byte("null"), nil
	default:
		return []byte(s.raw), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Only numbers, strings and null
// are accepted.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch t := v.(type) {
	case nil:
		*s = Scalar{}
	case json.Number:
		*s = Scalar{raw: t.String()}
	case string:
		*s = Str(t)
	default:
		return fmt.Errorf("scalar must be a number or a string, got %T", v)
	}
	return nil
}

// ImportBySKUItem creates a seller product from an existing Ozon SKU.
type ImportBySKUItem struct {
	Name         string   `json:"name"          validate:"required,max=500"`
	OfferID      string   `json:"offer_id"      validate:"required,max=50"`
	OldPrice     string   `json:"old_price"     validate:"required"`
	Price        string   `json:"price"         validate:"required"`
	SKU          int64    `json:"sku"           validate:"required"`
	VAT          VAT      `json:"vat"           validate:"required,oneof=0 0.1 0.2"`
	CurrencyCode Currency `json:"currency_code" validate:"required,oneof=RUB USD EUR KZT BYN CNY"`
}

// ImportBySKURequest is the body of product/import-by-sku.
type ImportBySKURequest struct {
	Items []ImportBySKUItem `json:"items" validate:"required,min=1,dive"`
}

// AttributeValueInput is one value of a product attribute.
type AttributeValueInput struct {
	DictionaryValueID int64  `json:"dictionary_value_id"`
	Value             string `json:"value"`
}

// AttributeInput is a product attribute with its values. ComplexID is zero for
// attributes outside a complex group.
type AttributeInput struct {
	ComplexID int64                 `json:"complex_id"`
	ID        int64                 `json:"id"         validate:"required"`
	Values    []AttributeValueInput `json:"values"     validate:"required,dive"`
}

// AttributesUpdateItem updates the attributes of one product.
type AttributesUpdateItem struct {
	Attributes []AttributeInput `json:"attributes" validate:"required,dive"`
	OfferID    string           `json:"offer_id"   validate:"required"`
}

// AttributesUpdateRequest is the body of product/attributes/update.
type AttributesUpdateRequest struct {
	Items []AttributesUpdateItem `json:"items" validate:"required,min=1,dive"`
}

// ProductImportAttribute is an attribute of an imported product. Values are
// passed through untouched.
type ProductImportAttribute struct {
	ComplexID int64 `json:"complex_id"`
	ID        int64 `json:"id"         validate:"required"`
	Values    []any `json:"values"     validate:"required"`
}

// ProductImportItem is one product of a product/import call.
type ProductImportItem struct {
	Attributes               []ProductImportAttribute `json:"attributes"                  validate:"required,dive"`
	Barcode                  string                   `json:"barcode"                     validate:"required"`
	DescriptionCategoryID    int64                    `json:"description_category_id"     validate:"required"`
	NewDescriptionCategoryID int64                    `json:"new_description_category_id" validate:"required"`
	ColorImage               string                   `json:"color_image"                 validate:"required"`
	ComplexAttributes        []ProductImportAttribute `json:"complex_attributes"          validate:"required,dive"`
	CurrencyCode             Currency                 `json:"currency_code"               validate:"required,oneof=RUB USD EUR KZT BYN CNY"`
	Depth                    Scalar                   `json:"depth"                       validate:"required"`
	DimensionUnit            string                   `json:"dimension_unit"              validate:"required"`
	Height                   Scalar                   `json:"height"                      validate:"required"`
	Images                   []string                 `json:"images"                      validate:"required,max=10,dive,url"`
	Images360                []string                 `json:"images360"                   validate:"required,max=70,dive,url"`
	Name                     string                   `json:"name"                        validate:"required"`
	OfferID                  string                   `json:"offer_id"                    validate:"required,max=50"`
	OldPrice                 Scalar                   `json:"old_price"                   validate:"required"`
	PDFList                  []any                    `json:"pdf_list"                    validate:"required"`
	Price                    Scalar                   `json:"price"                       validate:"required"`
	PrimaryImage             string                   `json:"primary_image"               validate:"required"`
	VAT                      VAT                      `json:"vat"                         validate:"required,oneof=0 0.1 0.2"`
	Weight                   Scalar                   `json:"weight"                      validate:"required"`
	WeightUnit               string                   `json:"weight_unit"                 validate:"required"`
	Width                    Scalar                   `json:"width"                       validate:"required"`
}

func (it ProductImportItem) normalized() ProductImportItem {
	if it.CurrencyCode == "" {
		it.CurrencyCode = CurrencyRUB
	}
	return it
}

// ProductImportRequest is the body of product/import.
type ProductImportRequest struct {
	Items []ProductImportItem `json:"items" validate:"required,min=1,max=100,dive"`
}

func (r ProductImportRequest) normalized() ProductImportRequest {
	if r.Items == nil {
		return r
	}
	items := make([]ProductImportItem, len(r.Items))
	for i := range r.Items {
		items[i] = r.Items[i].normalized()
	}
	return ProductImportRequest{Items: items}
}

// normalize applies the defaults the client fills in before sending.
func normalize(v any) any {
	switch p := v.(type) {
	case ProductImportItem:
		return p.normalized()
	case *ProductImportItem:
		if p != nil {
			return p.normalized()
		}
	case ProductImportRequest:
		return p.normalized()
	case *ProductImportRequest:
		if p != nil {
			return p.normalized()
		}
	}
	return v
}

var payloadValidator = newPayloadValidator()

// ValidatePayload checks a typed request body against its field constraints,
// after the same defaults ImportProducts applies (an empty currency code is
// RUB). Errors wrap ErrInvalidPayload.
func ValidatePayload(v any) error {
	if err := payloadValidator.Struct(normalize(v)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

func newPayloadValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so errors match the wire format.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if s, ok := f.Interface().(Scalar); ok {
			return s.String()
		}
		return nil
	}, Scalar{})

	return v
}
