package tasks

import "github.com/namitkumarsingh97/ecotrack-product-server/internal/model"

// Plan is the outcome of reconciling a freshly generated task batch
// against what already exists in the backlog.
type Plan struct {
	Create  []model.Task
	Skipped int
}

// Reconcile drops generated tasks whose gap is already tracked by an
// open automatic task with the same source ID. Manual tasks never
// participate: a user-created task with a colliding source ID does not
// suppress generation, and sync never modifies manual entries.
// Duplicates inside the generated batch itself are also collapsed,
// first occurrence wins.
func Reconcile(generated, existing []model.Task) Plan {
	open := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		if t.Source == model.TaskSourceManual || !t.Status.Open() {
			continue
		}
		open[t.SourceID] = struct{}{}
	}

	var plan Plan
	seen := make(map[string]struct{}, len(generated))
	for _, t := range generated {
		if _, dup := seen[t.SourceID]; dup {
			plan.Skipped++
			continue
		}
		seen[t.SourceID] = struct{}{}
		if _, tracked := open[t.SourceID]; tracked {
			plan.Skipped++
			continue
		}
		plan.Create = append(plan.Create, t)
	}
	return plan
}
