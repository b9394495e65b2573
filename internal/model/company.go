package model

import "time"

// PlanTier is the subscription tier a company is on.
type PlanTier string

const (
	PlanTierTrial      PlanTier = "trial"
	PlanTierStarter    PlanTier = "starter"
	PlanTierGrowth     PlanTier = "growth"
	PlanTierEnterprise PlanTier = "enterprise"
)

// CompanyProfile holds the company attributes the engine needs.
// EmployeeCount is the per-employee normalization divisor used by the
// environmental scorer; it must be positive before use. The scorer never
// hard-fails on a bad count; it substitutes a documented fallback and
// records a warning on the result.
type CompanyProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Industry      string    `json:"industry"`
	PlanTier      PlanTier  `json:"plan_tier"`
	EmployeeCount int       `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasValidEmployeeCount reports whether the profile can be used as a
// normalization divisor as-is.
func (p *CompanyProfile) HasValidEmployeeCount() bool {
	return p != nil && p.EmployeeCount > 0
}
