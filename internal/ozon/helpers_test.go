package ozon_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
)

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

// bodyOf round-trips a request body through JSON so tests can inspect
// unexported body types.
func bodyOf(t *testing.T, req ozon.Request) map[string]any {
	t.Helper()
	if req.Body == nil {
		return nil
	}
	data, err := json.Marshal(req.Body)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

// forEndpoint matches requests sent to the given path.
func forEndpoint(path string) any {
	return mock.MatchedBy(func(r ozon.Request) bool {
		return r.Endpoint == path
	})
}

// valuesFor matches value page requests for one attribute and cursor.
func valuesFor(t *testing.T, attributeID, cursor float64) any {
	return mock.MatchedBy(func(r ozon.Request) bool {
		if r.Endpoint != "description-category/attribute/values" {
			return false
		}
		b := bodyOf(t, r)
		return b["attribute_id"] == attributeID && b["last_value_id"] == cursor
	})
}
