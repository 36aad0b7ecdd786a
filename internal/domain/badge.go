package domain

import "time"

type Badge struct {
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at,omitempty"`
}

type BadgeMetric string

const (
	MetricCampaignsCompleted BadgeMetric = "campaigns_completed"
	MetricEcoPoints          BadgeMetric = "eco_points"
)

// BadgeRule grants Badge once the metric reaches Threshold.
type BadgeRule struct {
	Badge     Badge
	Metric    BadgeMetric
	Threshold int64
}

func (r BadgeRule) Satisfied(p Progress) bool {
	switch r.Metric {
	case MetricCampaignsCompleted:
		return p.CampaignsCompleted >= r.Threshold
	case MetricEcoPoints:
		return int64(p.EcoPoints) >= r.Threshold
	}
	return false
}
