package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PagesRate returns a timeseries panel showing attribute value pages fetched
// per minute.
func PagesRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Value Pages / min").
		Description("Attribute value pages fetched per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`ozon:pagination_pages:rate5m * 60`, "pages/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PaginationExhausted returns a stat panel showing value fetches abandoned at
// the stall limit or page cap.
func PaginationExhausted() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Pagination Exhausted (24h)").
		Description("Value fetches stopped by the stall limit or the page cap").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(ozon_pagination_exhausted_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// FieldFailures returns a stat panel showing category attributes left
// incomplete.
func FieldFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Incomplete Attributes (24h)").
		Description("Category attributes whose values could not be fetched in full").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(ozon_category_field_failures_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
