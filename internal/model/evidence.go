package model

import (
	"strings"
	"time"
)

// EvidenceRecord is an uploaded policy or certificate document. The
// EvidenceType is free text entered by the user and is classified by
// keyword match, not by a controlled vocabulary. Evidence backs the
// coverage checks that have no numeric proxy (policies, certifications)
// and drives expiry-based task generation.
type EvidenceRecord struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	EvidenceType string     `json:"evidence_type"`
	FileName     string     `json:"file_name,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	UploadedAt   time.Time  `json:"uploaded_at"`
}

// MatchesKeyword reports whether the evidence type contains any of the
// given keywords, case-insensitively.
func (e *EvidenceRecord) MatchesKeyword(keywords ...string) bool {
	if e == nil || e.EvidenceType == "" {
		return false
	}
	haystack := strings.ToLower(e.EvidenceType)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ExpiringWithin reports whether the evidence has an expiry date that
// falls inside the window starting at now. Already-expired documents
// count too: they are at least as urgent.
func (e *EvidenceRecord) ExpiringWithin(now time.Time, window time.Duration) bool {
	if e == nil || e.ExpiryDate == nil {
		return false
	}
	return e.ExpiryDate.Before(now.Add(window))
}
