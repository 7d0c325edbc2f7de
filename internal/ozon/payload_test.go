package ozon_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
)

func TestScalar_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ozon.Scalar
		want string
	}{
		{name: "number", in: ozon.Int(250), want: `250`},
		{name: "string", in: ozon.Str("1000.50"), want: `"1000.50"`},
		{name: "zero", in: ozon.Scalar{}, want: `null`},
		{name: "empty string is still a string", in: ozon.Str(""), want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestScalar_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var item struct {
		Depth  ozon.Scalar `json:"depth"`
		Price  ozon.Scalar `json:"price"`
		Weight ozon.Scalar `json:"weight"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"depth":10,"price":"999","weight":null}`), &item))

	assert.Equal(t, ozon.Int(10), item.Depth)
	assert.Equal(t, ozon.Str("999"), item.Price)
	assert.True(t, item.Weight.IsZero())

	var bad ozon.Scalar
	require.Error(t, json.Unmarshal([]byte(`{"a":1}`), &bad))
	require.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestValidatePayload(t *testing.T) {
	t.Parallel()

	missingPrice := validImportItem()
	missingPrice.Price = ozon.Scalar{}

	badURL := validImportItem()
	badURL.Images = []string{"not a url"}

	longOffer := validSKUItem()
	longOffer.OfferID = "offer-id-that-is-definitely-longer-than-fifty-characters"

	badVAT := validSKUItem()
	badVAT.VAT = "0.18"

	badCurrency := validImportItem()
	badCurrency.CurrencyCode = "GBP"

	rubDefault := validImportItem()
	rubDefault.CurrencyCode = ""

	noBarcode := validImportItem()
	noBarcode.Barcode = ""

	noColorImage := validImportItem()
	noColorImage.ColorImage = ""

	noPrimaryImage := validImportItem()
	noPrimaryImage.PrimaryImage = ""

	noNewCategory := validImportItem()
	noNewCategory.NewDescriptionCategoryID = 0

	zeroIDs := ozon.AttributesUpdateRequest{Items: []ozon.AttributesUpdateItem{{
		OfferID: "KT-7",
		Attributes: []ozon.AttributeInput{{
			ID:     85,
			Values: []ozon.AttributeValueInput{{Value: "Acme"}},
		}},
	}}}

	tooMany := ozon.ProductImportRequest{Items: make([]ozon.ProductImportItem, 101)}
	for i := range tooMany.Items {
		tooMany.Items[i] = validImportItem()
	}

	tests := []struct {
		name    string
		payload any
		field   string
	}{
		{name: "valid import", payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{validImportItem()}}},
		{name: "valid import by sku", payload: ozon.ImportBySKURequest{Items: []ozon.ImportBySKUItem{validSKUItem()}}},
		{name: "zero complex and dictionary ids allowed", payload: zeroIDs},
		{name: "empty currency defaults to RUB", payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{rubDefault}}},
		{name: "single item is normalized too", payload: &rubDefault},
		{
			name:    "missing barcode",
			payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{noBarcode}},
			field:   "barcode",
		},
		{
			name:    "missing color image",
			payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{noColorImage}},
			field:   "color_image",
		},
		{
			name:    "missing primary image",
			payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{noPrimaryImage}},
			field:   "primary_image",
		},
		{
			name:    "missing new description category",
			payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{noNewCategory}},
			field:   "new_description_category_id",
		},
		{
			name:    "missing price",
			payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{missingPrice}},
			field:   "price",
		},
		{
			name:    "image must be a url",
			payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{badURL}},
			field:   "images[0]",
		},
		{
			name:    "offer id too long",
			payload: ozon.ImportBySKURequest{Items: []ozon.ImportBySKUItem{longOffer}},
			field:   "offer_id",
		},
		{
			name:    "unknown vat rate",
			payload: ozon.ImportBySKURequest{Items: []ozon.ImportBySKUItem{badVAT}},
			field:   "vat",
		},
		{
			name:    "unknown currency",
			payload: ozon.ProductImportRequest{Items: []ozon.ProductImportItem{badCurrency}},
			field:   "currency_code",
		},
		{name: "more than 100 items", payload: tooMany, field: "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ozon.ValidatePayload(tt.payload)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ozon.ErrInvalidPayload)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ozon.Language
		wantErr bool
	}{
		{in: "", want: ozon.LanguageDefault},
		{in: "ru", want: ozon.LanguageRU},
		{in: " EN ", want: ozon.LanguageEN},
		{in: "zh_hans", want: ozon.LanguageZhHans},
		{in: "default", want: ozon.LanguageDefault},
		{in: "de", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ozon.ParseLanguage(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_APIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  ozon.Document
		want *ozon.APIError
	}{
		{name: "success", doc: ozon.Document{"result": map[string]any{}}},
		{
			name: "error shape",
			doc: ozon.Document{
				"code":    json.Number("5"),
				"message": "Invalid request payload",
				"details": []any{"x"},
			},
			want: &ozon.APIError{Code: 5, Message: "Invalid request payload", Details: []any{"x"}},
		},
		{name: "message without code", doc: ozon.Document{"message": "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.doc.APIError())
		})
	}

	err := &ozon.APIError{Code: 7, Message: "Request denied"}
	assert.Equal(t, "ozon api error 7: Request denied", err.Error())
}
