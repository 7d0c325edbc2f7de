package rules

// RecordingRules returns the rate expressions the client dashboard and alerts
// are built on.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("ozon-recording-rules", RuleGroup{
		Name: "ozon-recording",
		Rules: []Rule{
			record("ozon:api_requests:rate5m",
				`sum by (endpoint) (rate(ozon_api_requests_total[5m]))`),
			record("ozon:api_errors:rate5m",
				`sum by (endpoint) (rate(ozon_api_requests_total{status!~"2.."}[5m]))`),
			record("ozon:api_transport_errors:rate5m",
				`sum(rate(ozon_api_transport_errors_total[5m]))`),
			record("ozon:pagination_pages:rate5m",
				`rate(ozon_pagination_pages_total[5m])`),
		},
	})
}
