package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chartsPrepared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_charts_prepared_total",
		Help: "Comparison charts prepared.",
	})
	chartRowsExcluded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_chart_rows_excluded_total",
		Help: "Rows dropped from charts because of unresolved subjects or scaling errors.",
	})
	rankingsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_rankings_computed_total",
		Help: "Cohort rankings computed.",
	})
	parseRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_parse_rejections_total",
		Help: "Raw results rejected by their validation rule.",
	})
)
