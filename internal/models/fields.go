package models

import "math"

// FieldID names a required proposal field on the wire and in validation
// messages.
type FieldID string

const (
	FieldCompanyName        FieldID = "company_name"
	FieldContactEmail       FieldID = "contact_email"
	FieldSolutionNarrative  FieldID = "solution_narrative"
	FieldTimelineWeeks      FieldID = "timeline_weeks"
	FieldTeamSize           FieldID = "team_size"
	FieldSetupFee           FieldID = "setup_fee"
	FieldMonthlyFee         FieldID = "monthly_fee"
	FieldReferencePrimary   FieldID = "reference_primary"
	FieldReferenceSecondary FieldID = "reference_secondary"
	FieldFitStatement       FieldID = "fit_statement"
	FieldConsentAccuracy    FieldID = "consent_accuracy"
	FieldConsentTerms       FieldID = "consent_terms"
)

// FieldSpec ties a required field to its wizard step and presence check.
type FieldSpec struct {
	ID      FieldID
	Step    int
	Missing string
	Present func(c *DraftContent) bool
}

// RequiredFields is the fixed, step-spanning list of required fields.
// Completion percentage is always computed over this whole list regardless
// of which step the vendor is viewing; per-step advance gates filter it by
// Step. The integration matrix contributes one entry per named system.
var RequiredFields = buildRequiredFields()

func buildRequiredFields() []FieldSpec {
	fields := []FieldSpec{
		{FieldCompanyName, 1, "company name is required", func(c *DraftContent) bool { return c.CompanyName != "" }},
		{FieldContactEmail, 1, "contact email is required", func(c *DraftContent) bool { return c.ContactEmail != "" }},
		{FieldSolutionNarrative, 2, "solution narrative is required", func(c *DraftContent) bool { return c.SolutionNarrative != "" }},
	}
	for _, system := range IntegrationSystems {
		system := system
		fields = append(fields, FieldSpec{
			ID:      FieldID("integration." + system),
			Step:    3,
			Missing: "capability score for " + system + " is required",
			Present: func(c *DraftContent) bool {
				_, ok := c.IntegrationMatrix[system]
				return ok
			},
		})
	}
	fields = append(fields,
		FieldSpec{FieldTimelineWeeks, 4, "implementation timeline is required", func(c *DraftContent) bool { return c.TimelineWeeks > 0 }},
		FieldSpec{FieldTeamSize, 4, "team size is required", func(c *DraftContent) bool { return c.TeamSize > 0 }},
		FieldSpec{FieldSetupFee, 4, "setup fee is required", func(c *DraftContent) bool { return c.SetupFee != nil }},
		FieldSpec{FieldMonthlyFee, 4, "monthly fee is required", func(c *DraftContent) bool { return c.MonthlyFee != nil }},
		FieldSpec{FieldReferencePrimary, 5, "a primary reference is required", func(c *DraftContent) bool {
			return c.ReferencePrimary.Name != "" && c.ReferencePrimary.Email != ""
		}},
		FieldSpec{FieldReferenceSecondary, 5, "a secondary reference is required", func(c *DraftContent) bool {
			return c.ReferenceSecondary.Name != "" && c.ReferenceSecondary.Email != ""
		}},
		FieldSpec{FieldFitStatement, 5, "fit statement is required", func(c *DraftContent) bool { return c.FitStatement != "" }},
		FieldSpec{FieldConsentAccuracy, 5, "accuracy consent must be given", func(c *DraftContent) bool { return c.ConsentAccuracy }},
		FieldSpec{FieldConsentTerms, 5, "terms consent must be given", func(c *DraftContent) bool { return c.ConsentTerms }},
	)
	return fields
}

// RequiredForStep returns the required fields gating forward navigation out
// of the given step.
func RequiredForStep(step int) []FieldSpec {
	var out []FieldSpec
	for _, f := range RequiredFields {
		if f.Step == step {
			out = append(out, f)
		}
	}
	return out
}

// CompletionPercentage is the share of the whole required-field list the
// draft satisfies, rounded to the nearest integer.
func CompletionPercentage(c *DraftContent) int {
	if c == nil {
		return 0
	}
	satisfied := 0
	for _, f := range RequiredFields {
		if f.Present(c) {
			satisfied++
		}
	}
	return int(math.Round(float64(satisfied) / float64(len(RequiredFields)) * 100))
}
