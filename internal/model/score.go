package model

import "time"

// ScoreResult holds the four computed ESG scores for one company and
// reporting period, each in [0,100] rounded to one decimal. Overall is
// the 0.4/0.3/0.3 weighted sum of the pillar scores. The engine returns
// a fresh result on every call; persistence (one row per company+period,
// upserted) is the caller's job.
type ScoreResult struct {
	CompanyID     string    `json:"company_id"`
	Period        string    `json:"period"`
	Environmental float64   `json:"environmental"`
	Social        float64   `json:"social"`
	Governance    float64   `json:"governance"`
	Overall       float64   `json:"overall"`
	Warnings      []string  `json:"warnings,omitempty"`
	ComputedAt    time.Time `json:"computed_at"`
}
