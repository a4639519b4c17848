package models

import "time"

// SummaryPeriod selects the bucketing granularity.
type SummaryPeriod string

const (
	PeriodWeekly  SummaryPeriod = "weekly"
	PeriodMonthly SummaryPeriod = "monthly"
)

// SummaryBucket is one aggregation bucket: the start of an ISO week or
// calendar month paired with the hours logged inside it, rounded to
// two decimal places. Buckets are derived values and never persisted.
type SummaryBucket struct {
	PeriodStart time.Time `json:"period_start"`
	TotalHours  float64   `json:"total_hours"`
}
