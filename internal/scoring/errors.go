package scoring

import (
	"fmt"
	"strings"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// MissingMetricsError reports that one or more pillar snapshots are
// absent for the requested period. The calculator never partially
// scores; the caller should prompt for data entry for the named pillars.
type MissingMetricsError struct {
	CompanyID string
	Period    string
	Pillars   []model.Pillar
}

func (e *MissingMetricsError) Error() string {
	names := make([]string, len(e.Pillars))
	for i, p := range e.Pillars {
		names[i] = string(p)
	}
	return fmt.Sprintf("scoring: no %s metrics recorded for company %s in period %s",
		strings.Join(names, ", "), e.CompanyID, e.Period)
}

// ComputationError reports a NaN or infinite score. This is a logic or
// data-shape bug, not a data-completeness problem, and is surfaced
// distinctly so it is never mistaken for missing input.
type ComputationError struct {
	CompanyID string
	Period    string
	Detail    string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("scoring: invalid computation for company %s period %s: %s",
		e.CompanyID, e.Period, e.Detail)
}
