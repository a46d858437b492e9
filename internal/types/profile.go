// Package types provides type definitions for structured data used throughout the profile-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"regexp"
	"strings"
)

// TierHint is a parser or LLM provided hint about an institution's tier
type TierHint string

// Tier hints accepted in education entries
const (
	TierHintTier1 TierHint = "tier1"
	TierHintTier2 TierHint = "tier2"
	TierHintOther TierHint = "other"
)

// TestType identifies a graduate admissions test with a numeric score
type TestType string

// Supported test types
const (
	TestGMAT TestType = "GMAT"
	TestGRE  TestType = "GRE"
)

// Recency marks whether an activity is ongoing
type Recency string

// Recency values for extracurriculars
const (
	RecencyPast    Recency = "past"
	RecencyCurrent Recency = "current"
)

// Education represents one education entry
type Education struct {
	School     string   `json:"school"`
	Degree     string   `json:"degree,omitempty"`
	Discipline string   `json:"discipline,omitempty"`
	TierHint   TierHint `json:"tierHint,omitempty"`
}

// Metrics holds structured impact numbers attached to a bullet (usually LLM provided)
type Metrics struct {
	Pct      *float64 `json:"pct,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Multiple *float64 `json:"multiple,omitempty"`
}

// Scope holds structured scope data attached to a bullet
type Scope struct {
	TeamSize *int     `json:"teamSize,omitempty"`
	Budget   *float64 `json:"budget,omitempty"`
	Regions  []string `json:"regions,omitempty"`
}

// Bullet is a single achievement line within a role
type Bullet struct {
	Text    string   `json:"text"`
	Metrics *Metrics `json:"metrics,omitempty"`
	Scope   *Scope   `json:"scope,omitempty"`
}

// Role is one work-history entry. Start and End are free-form date strings;
// an empty End means the role is ongoing.
type Role struct {
	Company  string   `json:"company,omitempty"`
	Title    string   `json:"title,omitempty"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	Location string   `json:"location,omitempty"`
	Bullets  []Bullet `json:"bullets"`
}

// Tests holds the candidate's test information
type Tests struct {
	Type       TestType `json:"type,omitempty"`
	Actual     *int     `json:"actual,omitempty"`
	Target     *int     `json:"target,omitempty"`
	Descriptor string   `json:"descriptor,omitempty"`
}

// Extracurricular is an activity outside of work
type Extracurricular struct {
	Text       string  `json:"text"`
	Leadership bool    `json:"leadership,omitempty"`
	Recency    Recency `json:"recency,omitempty"`
}

// International summarizes international exposure found by the parser
type International struct {
	Regions  []string `json:"regions"`
	Months   int      `json:"months"`
	Evidence []string `json:"evidence"`
}

// NormalizedProfile is the canonical structured profile consumed by all detectors.
// Slices are kept in insertion order, which reflects recency in the source document.
type NormalizedProfile struct {
	Education        []Education       `json:"education"`
	Roles            []Role            `json:"roles"`
	Tests            *Tests            `json:"tests,omitempty"`
	Extracurriculars []Extracurricular `json:"extracurriculars"`
	International    *International    `json:"international,omitempty"`
	Awards           []string          `json:"awards,omitempty"`
	Certifications   []string          `json:"certifications,omitempty"`
}

// NewNormalizedProfile returns an empty profile with non-nil slices so it
// serializes as a schema-valid document.
func NewNormalizedProfile() *NormalizedProfile {
	return &NormalizedProfile{
		Education:        []Education{},
		Roles:            []Role{},
		Extracurriculars: []Extracurricular{},
	}
}

// BulletCount returns the total number of bullets across all roles
func (p *NormalizedProfile) BulletCount() int {
	if p == nil {
		return 0
	}
	count := 0
	for _, role := range p.Roles {
		count += len(role.Bullets)
	}
	return count
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// startPrefixLen is how much of the start date contributes to a role id (YYYY-MM)
const startPrefixLen = 7

// RoleID derives the stable identifier used to key detector output for a role.
// Two roles with the same company and start month share an id.
func RoleID(role Role) string {
	start := strings.TrimSpace(role.Start)
	if len(start) > startPrefixLen {
		start = start[:startPrefixLen]
	}

	parts := make([]string, 0, 2)
	for _, part := range []string{role.Company, start} {
		slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(part), "-"), "-")
		if slug != "" {
			parts = append(parts, slug)
		}
	}

	if len(parts) == 0 {
		return "role"
	}
	return strings.Join(parts, "-")
}
