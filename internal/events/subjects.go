package events

const (
	SubjectStats = "tally.stats"

	StreamName   = "TALLY_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectComparisonCreated(id string) string { return "tally.comparison." + id + ".created" }
func SubjectComparisonUpdated(id string) string { return "tally.comparison." + id + ".updated" }
func SubjectComparisonDeleted(id string) string { return "tally.comparison." + id + ".deleted" }

func SubjectChartPrepared() string   { return "tally.chart.prepared" }
func SubjectRankingComputed() string { return "tally.ranking.computed" }
