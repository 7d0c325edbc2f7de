package main

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	maxImportItems   = 100
	defaultListLimit = 100
	maxListLimit     = 1000
)

// createTask records an import task and upserts its products by offer id.
func (s *server) createTask(offerIDs []string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	task := importTask{products: make([]product, 0, len(offerIDs))}
	for i, offerID := range offerIDs {
		p := product{ID: id*10 + int64(i), OfferID: offerID}
		if j := slices.IndexFunc(s.products, func(q product) bool { return q.OfferID == offerID }); j >= 0 {
			p.ID = s.products[j].ID
			s.products[j] = p
		} else {
			s.products = append(s.products, p)
		}
		task.products = append(task.products, p)
	}
	s.tasks[id] = task
	return id
}

func (s *server) importBySKUHandler(c echo.Context) error {
	var req struct {
		Items []struct {
			OfferID string `json:"offer_id"`
			SKU     int64  `json:"sku"`
		} `json:"items"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if len(req.Items) == 0 || len(req.Items) > maxImportItems {
		return echo.NewHTTPError(http.StatusBadRequest, "items must contain between 1 and 100 products")
	}

	offerIDs := make([]string, 0, len(req.Items))
	unmatched := []int64{}
	for _, it := range req.Items {
		if it.SKU <= 0 {
			unmatched = append(unmatched, it.SKU)
			continue
		}
		offerIDs = append(offerIDs, it.OfferID)
	}
	id := s.createTask(offerIDs)

	s.logger.Info("import by sku task created", "task_id", id, "items", len(offerIDs), "unmatched", len(unmatched))
	return c.JSON(http.StatusOK, map[string]any{
		"result": map[string]any{"task_id": id, "unmatched_sku_list": unmatched},
	})
}

func (s *server) updateAttributesHandler(c echo.Context) error {
	var req struct {
		Items []struct {
			OfferID    string           `json:"offer_id"`
			Attributes []map[string]any `json:"attributes"`
		} `json:"items"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "items are required")
	}

	s.mu.Lock()
	for _, it := range req.Items {
		if !slices.ContainsFunc(s.products, func(p product) bool { return p.OfferID == it.OfferID }) {
			s.mu.Unlock()
			return echo.NewHTTPError(http.StatusNotFound, "product "+it.OfferID+" not found")
		}
	}
	s.mu.Unlock()

	offerIDs := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		offerIDs = append(offerIDs, it.OfferID)
	}
	return c.JSON(http.StatusOK, map[string]any{"result": map[string]any{"task_id": s.createTask(offerIDs)}})
}

func (s *server) picturesImportHandler(c echo.Context) error {
	var req struct {
		ProductID  int64    `json:"product_id"`
		Images     []string `json:"images"`
		Images360  []string `json:"images360"`
		ColorImage string   `json:"color_image"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}
	if len(req.Images) > 30 {
		return echo.NewHTTPError(http.StatusBadRequest, "no more than 30 images are allowed")
	}

	pictures := make([]map[string]any, 0, len(req.Images)+len(req.Images360))
	add := func(url string, primary, is360 bool) {
		pictures = append(pictures, map[string]any{
			"product_id": req.ProductID,
			"url":        url,
			"is_primary": primary,
			"is_360":     is360,
			"is_color":   false,
			"state":      "imported",
		})
	}
	for i, u := range req.Images {
		add(u, i == 0, false)
	}
	for _, u := range req.Images360 {
		add(u, false, true)
	}
	return c.JSON(http.StatusOK, map[string]any{"result": map[string]any{"pictures": pictures}})
}

func (s *server) picturesInfoHandler(c echo.Context) error {
	var req struct {
		ProductID []string `json:"product_id"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if len(req.ProductID) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	items := make([]map[string]any, 0, len(req.ProductID))
	for _, id := range req.ProductID {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product_id "+strconv.Quote(id))
		}
		items = append(items, map[string]any{
			"product_id":    id,
			"primary_photo": []string{},
			"photo":         []string{},
			"color_photo":   []string{},
			"photo_360":     []string{},
			"errors":        []any{},
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// listHandler pages through imported products. last_id is the index of the
// next product, as a decimal string.
func (s *server) listHandler(c echo.Context) error {
	var req struct {
		Filter struct {
			OfferID []string `json:"offer_id"`
		} `json:"filter"`
		LastID string `json:"last_id"`
		Limit  int    `json:"limit"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}
	if req.Limit > maxListLimit {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must not exceed 1000")
	}
	start := 0
	if req.LastID != "" {
		n, err := strconv.Atoi(req.LastID)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid last_id")
		}
		start = n
	}

	s.mu.Lock()
	matched := make([]product, 0, len(s.products))
	for _, p := range s.products {
		if len(req.Filter.OfferID) == 0 || slices.Contains(req.Filter.OfferID, p.OfferID) {
			matched = append(matched, p)
		}
	}
	s.mu.Unlock()

	start = min(start, len(matched))
	end := min(start+req.Limit, len(matched))
	lastID := ""
	if end < len(matched) {
		lastID = strconv.Itoa(end)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"result": map[string]any{
			"items":   matched[start:end],
			"total":   len(matched),
			"last_id": lastID,
		},
	})
}
