// Package main implements a mock Ozon Seller API server for local development.
// It serves the category tree, attributes and attribute values from a JSON
// fixture and keeps product import tasks in memory, so ozonctl can be run
// without real seller credentials.
package main

import (
	"cmp"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type catalog struct {
	Tree       []json.RawMessage           `json:"tree"`
	Attributes []json.RawMessage           `json:"attributes"`
	Values     map[string][]attributeValue `json:"values"`
}

type attributeValue struct {
	ID      int64  `json:"id"`
	Value   string `json:"value"`
	Info    string `json:"info"`
	Picture string `json:"picture"`
}

type product struct {
	ID       int64  `json:"product_id"`
	OfferID  string `json:"offer_id"`
	Archived bool   `json:"archived"`
}

type importTask struct {
	products []product
}

type server struct {
	logger  *slog.Logger
	catalog *catalog

	mu       sync.Mutex
	nextID   int64
	tasks    map[int64]importTask
	products []product
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/catalog.json", "path to catalog fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cat, err := loadCatalog(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "attributes", len(cat.Attributes), "dictionaries", len(cat.Values))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Ozon Seller API", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      newServer(logger, cat).routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(path string) (*catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	for k := range c.Values {
		slices.SortFunc(c.Values[k], func(a, b attributeValue) int {
			return cmp.Compare(a.ID, b.ID)
		})
	}
	return &c, nil
}

func newServer(logger *slog.Logger, c *catalog) *server {
	return &server{
		logger:  logger,
		catalog: c,
		nextID:  172549793,
		tasks:   make(map[int64]importTask),
	}
}

func (s *server) routes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(s.logger)

	e.Use(recovery(s.logger), requestLog(s.logger), requireCredentials)

	e.POST("/v1/description-category/tree", s.treeHandler)
	e.POST("/v1/description-category/attribute", s.attributesHandler)
	e.POST("/v1/description-category/attribute/values", s.valuesHandler)
	e.POST("/v1/description-category/attribute/values/search", s.searchHandler)
	e.POST("/v3/product/import", s.importHandler)
	e.POST("/v1/product/import/info", s.importInfoHandler)
	e.POST("/v1/product/import-by-sku", s.importBySKUHandler)
	e.POST("/v1/product/attributes/update", s.updateAttributesHandler)
	e.POST("/v1/product/pictures/import", s.picturesImportHandler)
	e.POST("/v1/product/pictures/info", s.picturesInfoHandler)
	e.POST("/v1/product/list", s.listHandler)
	e.POST("/v4/product/info/limit", s.quotaHandler)
	return e
}

func (s *server) treeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"result": s.catalog.Tree})
}

func (s *server) attributesHandler(c echo.Context) error {
	var req struct {
		DescriptionCategoryID int64 `json:"description_category_id"`
		TypeID                int64 `json:"type_id"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.DescriptionCategoryID == 0 || req.TypeID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "description_category_id and type_id are required")
	}
	return c.JSON(http.StatusOK, map[string]any{"result": s.catalog.Attributes})
}

func (s *server) valuesHandler(c echo.Context) error {
	var req struct {
		AttributeID int64 `json:"attribute_id"`
		LastValueID int64 `json:"last_value_id"`
		Limit       int   `json:"limit"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	values, ok := s.catalog.Values[strconv.FormatInt(req.AttributeID, 10)]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "attribute has no dictionary")
	}
	if req.Limit <= 0 || req.Limit > 5000 {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 5000")
	}

	start, _ := slices.BinarySearchFunc(values, req.LastValueID+1, func(v attributeValue, id int64) int {
		return cmp.Compare(v.ID, id)
	})
	end := min(start+req.Limit, len(values))

	s.logger.Info("values", "attribute_id", req.AttributeID, "last_value_id", req.LastValueID, "returned", end-start)
	return c.JSON(http.StatusOK, map[string]any{
		"result":   values[start:end],
		"has_next": end < len(values),
	})
}

func (s *server) searchHandler(c echo.Context) error {
	var req struct {
		AttributeID int64  `json:"attribute_id"`
		Value       string `json:"value"`
		Limit       int    `json:"limit"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Limit <= 0 {
		req.Limit = 100
	}
	q := strings.ToLower(req.Value)

	matched := []attributeValue{}
	for _, v := range s.catalog.Values[strconv.FormatInt(req.AttributeID, 10)] {
		if len(matched) == req.Limit {
			break
		}
		if strings.Contains(strings.ToLower(v.Value), q) {
			matched = append(matched, v)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"result": matched})
}

func (s *server) importHandler(c echo.Context) error {
	var req struct {
		Items []struct {
			OfferID string `json:"offer_id"`
		} `json:"items"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if len(req.Items) == 0 || len(req.Items) > maxImportItems {
		return echo.NewHTTPError(http.StatusBadRequest, "items must contain between 1 and 100 products")
	}

	offerIDs := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		offerIDs = append(offerIDs, it.OfferID)
	}
	id := s.createTask(offerIDs)

	s.logger.Info("import task created", "task_id", id, "items", len(offerIDs))
	return c.JSON(http.StatusOK, map[string]any{"result": map[string]any{"task_id": id}})
}

func (s *server) importInfoHandler(c echo.Context) error {
	var req struct {
		TaskID int64 `json:"task_id"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	task, ok := s.tasks[req.TaskID]
	s.mu.Unlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}

	items := make([]map[string]any, 0, len(task.products))
	for _, p := range task.products {
		items = append(items, map[string]any{
			"offer_id":   p.OfferID,
			"product_id": p.ID,
			"status":     "imported",
			"errors":     []any{},
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"result": map[string]any{"items": items, "total": len(items)},
	})
}

func (s *server) quotaHandler(c echo.Context) error {
	s.mu.Lock()
	used := len(s.tasks)
	s.mu.Unlock()

	reset := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour).Format(time.RFC3339)
	return c.JSON(http.StatusOK, map[string]any{
		"daily_create": map[string]any{"limit": 1000, "reset_at": reset, "usage": used},
		"daily_update": map[string]any{"limit": 1000, "reset_at": reset, "usage": 0},
		"total":        map[string]any{"limit": 10000, "usage": used},
	})
}

func bind(c echo.Context, dst any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload: "+err.Error())
	}
	return nil
}
