// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/ozon-seller-client/tools/dashgen/panels"
)

// BuildClient constructs the Ozon client dashboard.
func BuildClient() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Ozon Seller API Client").
		Uid("ozon-client").
		Tags([]string{"ozon", "ozonctl"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Seller API").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.TransportErrors()))

	b.WithRow(dashboard.NewRowBuilder("Attribute Values").
		WithPanel(panels.PagesRate()).
		WithPanel(panels.PaginationExhausted()).
		WithPanel(panels.FieldFailures()))

	b.WithRow(dashboard.NewRowBuilder("Rate Limit").
		WithPanel(panels.DailyUsage()).
		WithPanel(panels.LimitHits()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
