package models

import (
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

// CapabilityScore is a vendor's self-reported judgment of whether their
// product integrates with a named external system.
type CapabilityScore string

const (
	CanIntegrateProven   CapabilityScore = "can-integrate-proven"
	CanIntegrateUnproven CapabilityScore = "can-integrate-unproven"
	CannotIntegrate      CapabilityScore = "cannot-integrate"
)

// ValidCapabilityScore reports whether s is one of the three allowed scores.
func ValidCapabilityScore(s CapabilityScore) bool {
	switch s {
	case CanIntegrateProven, CanIntegrateUnproven, CannotIntegrate:
		return true
	default:
		return false
	}
}

// IntegrationSystems is the fixed set of external systems every proposal must
// score on step 3. Absence of a key in the matrix means "unanswered".
var IntegrationSystems = []string{
	"ticketing",
	"accounting",
	"messaging",
	"payments",
	"scheduling",
	"inventory",
}

// ReferenceContact is one customer reference on step 5.
type ReferenceContact struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
}

// DraftContent is the partial, vendor-private working copy of a proposal.
// Every field is optional; empty string / nil means "not yet answered".
// It shares its shape with ProposalContent but is never stored as a
// Submission; it must pass Promote first.
type DraftContent struct {
	// Step 1: company info
	CompanyName     string `json:"company_name"`
	ContactEmail    string `json:"contact_email"`
	Website         string `json:"website"`
	YearsInBusiness int    `json:"years_in_business"`
	EmployeeCount   int    `json:"employee_count"`

	// Step 2: solution fit
	SolutionNarrative string `json:"solution_narrative"`
	Differentiators   string `json:"differentiators"`

	// Step 3: integration capability matrix
	IntegrationMatrix map[string]CapabilityScore `json:"integration_matrix"`

	// Step 4: implementation & pricing
	TimelineWeeks int              `json:"timeline_weeks"`
	TeamSize      int              `json:"team_size"`
	SetupFee      *decimal.Decimal `json:"setup_fee"`
	MonthlyFee    *decimal.Decimal `json:"monthly_fee"`
	PricingNotes  string           `json:"pricing_notes"`

	// Step 5: references & fit
	ReferencePrimary   ReferenceContact `json:"reference_primary"`
	ReferenceSecondary ReferenceContact `json:"reference_secondary"`
	FitStatement       string           `json:"fit_statement"`
	ConsentAccuracy    bool             `json:"consent_accuracy"`
	ConsentTerms       bool             `json:"consent_terms"`
}

// IsEmpty reports whether no field holds a non-empty value. The autosave
// scheduler uses this to avoid persisting spurious empty drafts.
func (c *DraftContent) IsEmpty() bool {
	if c == nil {
		return true
	}
	if c.CompanyName != "" || c.ContactEmail != "" || c.Website != "" ||
		c.YearsInBusiness != 0 || c.EmployeeCount != 0 ||
		c.SolutionNarrative != "" || c.Differentiators != "" ||
		len(c.IntegrationMatrix) != 0 ||
		c.TimelineWeeks != 0 || c.TeamSize != 0 ||
		c.SetupFee != nil || c.MonthlyFee != nil || c.PricingNotes != "" ||
		c.FitStatement != "" || c.ConsentAccuracy || c.ConsentTerms {
		return false
	}
	return c.ReferencePrimary == (ReferenceContact{}) &&
		c.ReferenceSecondary == (ReferenceContact{})
}

// ProposalContent is the complete, validated proposal payload carried by a
// Submission. It is produced only by DraftContent.Promote.
type ProposalContent struct {
	CompanyName     string `json:"company_name"`
	ContactEmail    string `json:"contact_email"`
	Website         string `json:"website"`
	YearsInBusiness int    `json:"years_in_business"`
	EmployeeCount   int    `json:"employee_count"`

	SolutionNarrative string `json:"solution_narrative"`
	Differentiators   string `json:"differentiators"`

	IntegrationMatrix map[string]CapabilityScore `json:"integration_matrix"`

	TimelineWeeks int             `json:"timeline_weeks"`
	TeamSize      int             `json:"team_size"`
	SetupFee      decimal.Decimal `json:"setup_fee"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	PricingNotes  string          `json:"pricing_notes"`

	ReferencePrimary   ReferenceContact `json:"reference_primary"`
	ReferenceSecondary ReferenceContact `json:"reference_secondary"`
	FitStatement       string           `json:"fit_statement"`
	ConsentAccuracy    bool             `json:"consent_accuracy"`
	ConsentTerms       bool             `json:"consent_terms"`
}

// Promote converts a draft into a complete proposal payload. It fails with a
// *ValidationError listing every unsatisfied required field; the draft is
// never mutated.
func (c *DraftContent) Promote() (*ProposalContent, error) {
	var verr ValidationError
	for _, f := range RequiredFields {
		if !f.Present(c) {
			verr.Fields = append(verr.Fields, FieldError{Field: string(f.ID), Message: f.Missing})
		}
	}
	if email := strings.TrimSpace(c.ContactEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.Fields = append(verr.Fields, FieldError{Field: string(FieldContactEmail), Message: "must be a valid email address"})
		}
	}
	for system, score := range c.IntegrationMatrix {
		if !ValidCapabilityScore(score) {
			verr.Fields = append(verr.Fields, FieldError{Field: "integration." + system, Message: "unknown capability score"})
		}
	}
	if len(verr.Fields) > 0 {
		return nil, &verr
	}

	matrix := make(map[string]CapabilityScore, len(c.IntegrationMatrix))
	for system, score := range c.IntegrationMatrix {
		matrix[system] = score
	}

	return &ProposalContent{
		CompanyName:        c.CompanyName,
		ContactEmail:       c.ContactEmail,
		Website:            c.Website,
		YearsInBusiness:    c.YearsInBusiness,
		EmployeeCount:      c.EmployeeCount,
		SolutionNarrative:  c.SolutionNarrative,
		Differentiators:    c.Differentiators,
		IntegrationMatrix:  matrix,
		TimelineWeeks:      c.TimelineWeeks,
		TeamSize:           c.TeamSize,
		SetupFee:           *c.SetupFee,
		MonthlyFee:         *c.MonthlyFee,
		PricingNotes:       c.PricingNotes,
		ReferencePrimary:   c.ReferencePrimary,
		ReferenceSecondary: c.ReferenceSecondary,
		FitStatement:       c.FitStatement,
		ConsentAccuracy:    c.ConsentAccuracy,
		ConsentTerms:       c.ConsentTerms,
	}, nil
}

// Partial converts a submission's content back into draft shape so the wizard
// can edit an existing submission with the same working-copy type.
func (p *ProposalContent) Partial() *DraftContent {
	matrix := make(map[string]CapabilityScore, len(p.IntegrationMatrix))
	for system, score := range p.IntegrationMatrix {
		matrix[system] = score
	}
	setup := p.SetupFee
	monthly := p.MonthlyFee
	return &DraftContent{
		CompanyName:        p.CompanyName,
		ContactEmail:       p.ContactEmail,
		Website:            p.Website,
		YearsInBusiness:    p.YearsInBusiness,
		EmployeeCount:      p.EmployeeCount,
		SolutionNarrative:  p.SolutionNarrative,
		Differentiators:    p.Differentiators,
		IntegrationMatrix:  matrix,
		TimelineWeeks:      p.TimelineWeeks,
		TeamSize:           p.TeamSize,
		SetupFee:           &setup,
		MonthlyFee:         &monthly,
		PricingNotes:       p.PricingNotes,
		ReferencePrimary:   p.ReferencePrimary,
		ReferenceSecondary: p.ReferenceSecondary,
		FitStatement:       p.FitStatement,
		ConsentAccuracy:    p.ConsentAccuracy,
		ConsentTerms:       p.ConsentTerms,
	}
}
