package compliance

import "github.com/namitkumarsingh97/ecotrack-product-server/internal/model"

// PillarSnapshots carries the latest normalized snapshot per pillar.
// Any entry may be nil; a missing snapshot simply fails its coverage
// checks, it does not error.
type PillarSnapshots struct {
	Environmental *model.MetricSnapshot
	Social        *model.MetricSnapshot
	Governance    *model.MetricSnapshot
}

// ForPillar returns the snapshot for the requested pillar, or nil.
func (s PillarSnapshots) ForPillar(p model.Pillar) *model.MetricSnapshot {
	switch p {
	case model.PillarEnvironmental:
		return s.Environmental
	case model.PillarSocial:
		return s.Social
	case model.PillarGovernance:
		return s.Governance
	}
	return nil
}

// Covered evaluates a single requirement against the snapshots and
// evidence list. Metric-backed requirements check field presence (or
// truthiness for policy booleans); evidence-backed requirements match
// keywords against each document's free-text type.
func Covered(r Requirement, snaps PillarSnapshots, evidence []model.EvidenceRecord) bool {
	if r.MetricField != "" {
		snap := snaps.ForPillar(r.Pillar)
		if snap == nil {
			return false
		}
		if r.Truthy {
			v, ok := snap.Bool(r.MetricField)
			return ok && v
		}
		return snap.Present(r.MetricField)
	}

	for i := range evidence {
		if evidence[i].MatchesKeyword(r.EvidenceKeywords...) {
			return true
		}
	}
	return false
}
