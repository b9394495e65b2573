package model

// Pillar identifies one of the three ESG reporting pillars.
type Pillar string

const (
	PillarEnvironmental Pillar = "environmental"
	PillarSocial        Pillar = "social"
	PillarGovernance    Pillar = "governance"
)

// Pillars returns the three pillars in canonical reporting order.
func Pillars() []Pillar {
	return []Pillar{PillarEnvironmental, PillarSocial, PillarGovernance}
}

// Valid reports whether p is a known pillar.
func (p Pillar) Valid() bool {
	switch p {
	case PillarEnvironmental, PillarSocial, PillarGovernance:
		return true
	}
	return false
}

// Label returns the human-readable pillar name.
func (p Pillar) Label() string {
	switch p {
	case PillarEnvironmental:
		return "Environmental"
	case PillarSocial:
		return "Social"
	case PillarGovernance:
		return "Governance"
	default:
		return string(p)
	}
}
