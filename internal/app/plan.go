package app

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

// PlanSuggestRequest is the context handed to a planning-suggestion source.
type PlanSuggestRequest struct {
	Project       *domain.Project
	Lots          []*domain.WorkPackage
	Interventions []*domain.SubIntervention
	Today         time.Time
	// Brief is free text from the user ("start in March, two teams").
	Brief string
}

// ExclusionReason says why a proposed entry cannot be accepted.
type ExclusionReason string

const (
	ExcludedUnknownLot   ExclusionReason = "UNKNOWN_LOT"
	ExcludedInvalidRange ExclusionReason = "INVALID_RANGE"
	ExcludedMissingTitle ExclusionReason = "MISSING_TITLE"
)

// MappedProposal is a proposal resolved to a known work package.
type MappedProposal struct {
	Proposal domain.ProposedIntervention
	Payload  domain.NewSubIntervention
}

type ExcludedProposal struct {
	Proposal domain.ProposedIntervention
	Reason   ExclusionReason
}

// PlanPreview splits a proposed schedule into what would be created and what
// would be dropped, before anything is written.
type PlanPreview struct {
	Accepted []MappedProposal
	Excluded []ExcludedProposal
}

// Payloads returns the create payloads of the accepted entries.
func (p *PlanPreview) Payloads() []domain.NewSubIntervention {
	out := make([]domain.NewSubIntervention, len(p.Accepted))
	for i, m := range p.Accepted {
		out[i] = m.Payload
	}
	return out
}

// AcceptanceSummary reports the outcome of a bulk acceptance.
type AcceptanceSummary struct {
	Created  int
	Excluded int
	Reasons  map[ExclusionReason]int
}
