package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: "-"},
		{name: "string", in: "Acme", want: "Acme"},
		{name: "number", in: json.Number("971082156"), want: "971082156"},
		{name: "float", in: 2.5, want: "2.5"},
		{name: "bool", in: true, want: "true"},
		{name: "object", in: map[string]any{"limit": 1}, want: `{"limit":1}`},
		{name: "long array", in: []string{strings.Repeat("x", 80)}, want: `["` + strings.Repeat("x", 55) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatValue(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "this is...", truncate("this is too long", 10))
}

func TestPrintDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      ozon.Document
		contains []string
	}{
		{
			name:     "result object sorted by key",
			doc:      ozon.Document{"result": map[string]any{"task_id": json.Number("172549793"), "a": "first"}},
			contains: []string{"a:", "task_id:", "172549793"},
		},
		{
			name:     "top-level members when there is no result",
			doc:      ozon.Document{"total": map[string]any{"limit": json.Number("10000")}},
			contains: []string{"total:", `{"limit":10000}`},
		},
		{
			name:     "array result as json",
			doc:      ozon.Document{"result": []any{"a", "b"}},
			contains: []string{"[\n  \"a\",\n  \"b\"\n]"},
		},
		{
			name:     "business error",
			doc:      ozon.Document{"code": json.Number("7"), "message": "Request denied"},
			contains: []string{"Code:", "7", "Message:", "Request denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, printDocument(&buf, tt.doc))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}

	var buf bytes.Buffer
	require.NoError(t, printDocument(&buf, ozon.Document{"result": map[string]any{"b": 1, "a": 2}}))
	assert.Less(t, strings.Index(buf.String(), "a:"), strings.Index(buf.String(), "b:"))
}

func TestPrintCategoryInfo(t *testing.T) {
	t.Parallel()

	info := &ozon.CategoryInfo{
		Fields: []ozon.CategoryField{
			{ID: 85, Name: "Brand", IsRequired: true, Values: []ozon.AttributeValue{{"id": 1}, {"id": 2}}},
			{ID: 4180, Name: "Name"},
		},
		Failures: []ozon.FieldFailure{{AttributeID: 4180, Name: "Name", Err: errors.New("boom")}},
	}

	var buf bytes.Buffer
	require.NoError(t, printCategoryInfo(&buf, info))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"85", "Brand", "true", "2", "true"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"4180", "Name", "false", "0", "false"}, strings.Fields(lines[2]))
}

func TestReadJSONFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items":[{"offer_id":"KT-7","sku":42}]}`), 0o644))

	var fromFile ozon.ImportBySKURequest
	require.NoError(t, readJSONFile(path, nil, &fromFile))
	require.Len(t, fromFile.Items, 1)
	assert.Equal(t, int64(42), fromFile.Items[0].SKU)

	var fromStdin ozon.Document
	require.NoError(t, readJSONFile("-", strings.NewReader(`{"product_id":1}`), &fromStdin))
	assert.Equal(t, json.Number("1"), fromStdin["product_id"])

	err := readJSONFile("-", strings.NewReader(`{`), &fromStdin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding stdin")

	err = readJSONFile(filepath.Join(t.TempDir(), "missing.json"), nil, &fromStdin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening input")
}
