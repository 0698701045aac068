package events

import "time"

type ComparisonEvent struct {
	ComparisonID string  `json:"comparison_id"`
	Name         string  `json:"name"`
	Owner        string  `json:"owner,omitempty"`
	RowCount     int     `json:"row_count"`
	Variation    float64 `json:"variation"`
	RangeMode    bool    `json:"range_mode"`
}

type ChartPreparedEvent struct {
	RowsIn     int     `json:"rows_in"`
	RowsOut    int     `json:"rows_out"`
	AxisMin    float64 `json:"axis_min"`
	AxisMax    float64 `json:"axis_max"`
	RangeMode  bool    `json:"range_mode"`
	SkipMiddle bool    `json:"skip_middle"`
}

type RankingComputedEvent struct {
	Results   int     `json:"results"`
	Variation float64 `json:"variation"`
}

type StatsEvent struct {
	Comparisons int       `json:"comparisons"`
	StoredRows  int       `json:"stored_rows"`
	Timestamp   time.Time `json:"timestamp"`
}
