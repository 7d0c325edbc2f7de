package main

import (
	"net/http"
	"testing"
)

type listResponse struct {
	Result struct {
		Items  []product `json:"items"`
		Total  int       `json:"total"`
		LastID string    `json:"last_id"`
	} `json:"result"`
}

func TestImportBySKUHandler(t *testing.T) {
	h := newServer(testLogger(), loadTestCatalog(t)).routes()

	w := post(t, h, "/v1/product/import-by-sku", `{"items":[{"offer_id":"KT-7","sku":298789742},{"offer_id":"KT-9","sku":0}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		Result struct {
			TaskID    int64   `json:"task_id"`
			Unmatched []int64 `json:"unmatched_sku_list"`
		} `json:"result"`
	}
	decodeBody(t, w, &resp)
	if resp.Result.TaskID == 0 {
		t.Error("expected task id")
	}
	if len(resp.Result.Unmatched) != 1 {
		t.Errorf("unmatched=%v, want one sku", resp.Result.Unmatched)
	}

	w = post(t, h, "/v1/product/import-by-sku", `{"items":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty items: status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUpdateAttributesHandler(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "known product",
			body: `{"items":[{"offer_id":"KT-7","attributes":[{"id":85,"values":[{"value":"Acme"}]}]}]}`,
			want: http.StatusOK,
		},
		{
			name: "unknown product",
			body: `{"items":[{"offer_id":"missing"}]}`,
			want: http.StatusNotFound,
		},
		{
			name: "no items",
			body: `{"items":[]}`,
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newServer(testLogger(), loadTestCatalog(t)).routes()
			post(t, h, "/v3/product/import", `{"items":[{"offer_id":"KT-7"}]}`)

			w := post(t, h, "/v1/product/attributes/update", tt.body)
			if w.Code != tt.want {
				t.Errorf("status=%d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestPicturesHandlers(t *testing.T) {
	h := newServer(testLogger(), loadTestCatalog(t)).routes()

	w := post(t, h, "/v1/product/pictures/import",
		`{"product_id":1725497930,"images":["https://cdn.example.com/0.jpg","https://cdn.example.com/1.jpg"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}
	var imported struct {
		Result struct {
			Pictures []map[string]any `json:"pictures"`
		} `json:"result"`
	}
	decodeBody(t, w, &imported)
	if len(imported.Result.Pictures) != 2 {
		t.Fatalf("pictures=%d, want 2", len(imported.Result.Pictures))
	}
	if imported.Result.Pictures[0]["is_primary"] != true {
		t.Error("first image should be primary")
	}

	w = post(t, h, "/v1/product/pictures/import", `{"images":["https://cdn.example.com/0.jpg"]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing product_id: status=%d, want %d", w.Code, http.StatusBadRequest)
	}

	w = post(t, h, "/v1/product/pictures/info", `{"product_id":["1725497930","1725497931"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}
	var info struct {
		Items []map[string]any `json:"items"`
	}
	decodeBody(t, w, &info)
	if len(info.Items) != 2 {
		t.Errorf("items=%d, want 2", len(info.Items))
	}

	w = post(t, h, "/v1/product/pictures/info", `{"product_id":["abc"]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad product_id: status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestListHandler(t *testing.T) {
	h := newServer(testLogger(), loadTestCatalog(t)).routes()
	post(t, h, "/v3/product/import", `{"items":[{"offer_id":"KT-1"},{"offer_id":"KT-2"},{"offer_id":"KT-3"}]}`)
	// Re-importing an offer updates it in place.
	post(t, h, "/v3/product/import", `{"items":[{"offer_id":"KT-2"}]}`)

	var page listResponse
	decodeBody(t, post(t, h, "/v1/product/list", `{"limit":2}`), &page)
	if page.Result.Total != 3 {
		t.Errorf("total=%d, want 3", page.Result.Total)
	}
	if len(page.Result.Items) != 2 || page.Result.LastID != "2" {
		t.Fatalf("first page: items=%d last_id=%q, want 2 and \"2\"", len(page.Result.Items), page.Result.LastID)
	}

	var next listResponse
	decodeBody(t, post(t, h, "/v1/product/list", `{"limit":2,"last_id":"2"}`), &next)
	if len(next.Result.Items) != 1 || next.Result.Items[0].OfferID != "KT-3" {
		t.Errorf("second page=%v, want [KT-3]", next.Result.Items)
	}
	if next.Result.LastID != "" {
		t.Errorf("last_id=%q, want empty on the final page", next.Result.LastID)
	}

	var filtered listResponse
	decodeBody(t, post(t, h, "/v1/product/list", `{"filter":{"offer_id":["KT-2"]}}`), &filtered)
	if filtered.Result.Total != 1 || filtered.Result.Items[0].OfferID != "KT-2" {
		t.Errorf("filtered=%v, want [KT-2]", filtered.Result.Items)
	}

	w := post(t, h, "/v1/product/list", `{"limit":1001}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized limit: status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}
