package rules

// AlertRules returns the alerts for the Ozon Seller API client.
func AlertRules() PrometheusRule {
	return newPrometheusRule("ozon-alerts", RuleGroup{
		Name: "ozon-alerts",
		Rules: []Rule{
			alert("OzonHighErrorRate",
				`sum(ozon:api_errors:rate5m) / sum(ozon:api_requests:rate5m) > 0.05`,
				"10m", "warning",
				"High Seller API error rate",
				"More than 5% of Seller API calls returned a non-2xx status over the last 10 minutes.",
			),
			alert("OzonTransportErrors",
				`ozon:api_transport_errors:rate5m > 0`,
				"5m", "warning",
				"Seller API unreachable",
				"Calls to the Seller API have been failing without an HTTP response for more than 5 minutes.",
			),
			alert("OzonPaginationExhausted",
				`increase(ozon_pagination_exhausted_total[15m]) > 0`,
				"0m", "warning",
				"Attribute value paging stopped early",
				"A value fetch hit the stall limit or the page cap; the returned dictionary is incomplete.",
			),
			alert("OzonDailyLimitReached",
				`increase(ozon_rate_limit_daily_hits_total[5m]) > 0`,
				"0m", "critical",
				"Client daily call limit reached",
				"The configured daily Seller API budget is spent. Calls fail until the window resets.",
			),
		},
	})
}
