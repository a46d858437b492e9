package detectors

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/profile-evaluator/internal/types"
)

// dateLayouts are tried in order; each parses to the first day of its period
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006",
}

var ongoingEnds = map[string]bool{
	"present": true, "current": true, "now": true, "ongoing": true, "today": true,
}

type span struct {
	id         string
	start, end time.Time
	raw        string
}

// AnalyzeConsistency reports pairs of roles whose date ranges overlap. A
// missing or ongoing end means now; roles with unparseable dates are skipped.
// Ranges that only touch (one ends the month the next starts) do not overlap.
func AnalyzeConsistency(profile *types.NormalizedProfile, now time.Time) types.ConsistencyAnalysis {
	result := types.ConsistencyAnalysis{Issues: []types.ConsistencyIssue{}}
	if profile == nil {
		return result
	}

	spans := make([]span, 0, len(profile.Roles))
	for _, role := range profile.Roles {
		if s, ok := roleSpan(role, now); ok {
			spans = append(spans, s)
		}
	}

	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if a.start.Before(b.end) && b.start.Before(a.end) {
				result.Issues = append(result.Issues, types.ConsistencyIssue{
					Type:   types.IssueDateOverlap,
					RoleA:  a.id,
					RoleB:  b.id,
					Detail: fmt.Sprintf("%s overlaps %s", a.raw, b.raw),
				})
			}
		}
	}
	return result
}

func roleSpan(role types.Role, now time.Time) (span, bool) {
	start, ok := parseRoleDate(role.Start)
	if !ok {
		return span{}, false
	}

	endRaw := strings.TrimSpace(role.End)
	end := now
	if endRaw != "" && !ongoingEnds[strings.ToLower(endRaw)] {
		if end, ok = parseRoleDate(endRaw); !ok {
			return span{}, false
		}
	}
	if end.Before(start) {
		return span{}, false
	}

	label := endRaw
	if label == "" {
		label = "present"
	}
	return span{
		id:    types.RoleID(role),
		start: start,
		end:   end,
		raw:   fmt.Sprintf("%s (%s to %s)", types.RoleID(role), strings.TrimSpace(role.Start), label),
	}, true
}

func parseRoleDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
