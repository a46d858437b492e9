// Package gaps turns detector output and subscores into the actionable part
// of an evaluation: the bullets most worth rewriting, the weakest dimensions,
// short and medium term plans, and essay angles drawn from strengths.
package gaps

import (
	"fmt"
	"sort"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// MaxFixes caps the bullets returned by PickTopFixes
const MaxFixes = 5

// Per-bullet problem weights
const (
	weightNoMetric    = 3
	weightTooLong     = 2
	weightTooShort    = 1
	weightPassive     = 2
	weightWeakVerb    = 1
	weightLowCoverage = 1
)

// Reasons attached to a BulletFix
const (
	ReasonNoMetric    = "no quantified outcome"
	ReasonTooLong     = "too long"
	ReasonTooShort    = "too short"
	ReasonPassive     = "passive or duty-style phrasing"
	ReasonWeakVerb    = "opens without an ownership verb"
	ReasonLowCoverage = "few track keywords across bullets"
)

// PickTopFixes scores every bullet by the problems the detectors found and
// returns the worst ones, highest score first. Ties break by role id, then
// bullet index. Bullets without problems are never returned.
func PickTopFixes(profile *types.NormalizedProfile, analysis types.Analysis, lex *lexicon.Lexicon) []types.BulletFix {
	fixes := []types.BulletFix{}
	if profile == nil {
		return fixes
	}

	// an unknown track has no keywords and so zero coverage
	lowCoverage := analysis.Keywords.Coverage < lex.Thresholds.KeywordCoverageLow

	pos := 0
	for _, role := range profile.Roles {
		id := types.RoleID(role)
		for j, bullet := range role.Bullets {
			ref := types.BulletRef{RoleID: id, Index: j}
			fix := types.BulletFix{BulletRef: ref, Text: bullet.Text, Reasons: []string{}}

			if m, ok := at(analysis.Metrics.Bullets, pos, ref, metricsRef); ok && !m.HasNumber {
				addReason(&fix, weightNoMetric, ReasonNoMetric)
			}
			if l, ok := at(analysis.Length.Bullets, pos, ref, lengthRef); ok {
				if l.TooLong {
					addReason(&fix, weightTooLong, fmt.Sprintf("%s (%d words)", ReasonTooLong, l.Words))
				}
				if l.TooShort {
					addReason(&fix, weightTooShort, fmt.Sprintf("%s (%d words)", ReasonTooShort, l.Words))
				}
			}
			if v, ok := at(analysis.Verbs.Bullets, pos, ref, verbsRef); ok {
				if v.PassiveLikely {
					addReason(&fix, weightPassive, ReasonPassive)
				}
				if !v.StrongVerb && !v.SupportVerb {
					addReason(&fix, weightWeakVerb, ReasonWeakVerb)
				}
			}
			if lowCoverage {
				addReason(&fix, weightLowCoverage, ReasonLowCoverage)
			}

			if fix.Score > 0 {
				fixes = append(fixes, fix)
			}
			pos++
		}
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		a, b := fixes[i], fixes[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RoleID != b.RoleID {
			return a.RoleID < b.RoleID
		}
		return a.Index < b.Index
	})

	if len(fixes) > MaxFixes {
		fixes = fixes[:MaxFixes]
	}
	return fixes
}

func addReason(fix *types.BulletFix, weight int, reason string) {
	fix.Score += weight
	fix.Reasons = append(fix.Reasons, reason)
}

func metricsRef(b types.BulletMetrics) types.BulletRef { return b.BulletRef }
func lengthRef(b types.BulletLength) types.BulletRef   { return b.BulletRef }
func verbsRef(b types.BulletVerbs) types.BulletRef     { return b.BulletRef }

// at returns the per-bullet detector entry at pos in flattened bullet order.
// A failed detector leaves its slice empty, so the entry is only used when it
// addresses the same bullet.
func at[T any](items []T, pos int, ref types.BulletRef, refOf func(T) types.BulletRef) (T, bool) {
	var zero T
	if pos >= len(items) || refOf(items[pos]) != ref {
		return zero, false
	}
	return items[pos], true
}
