// Package detectors implements the pure signal extractors that read a
// normalized profile and report metrics, verb quality, length, keyword
// coverage, duplicates, timeline consistency, academics, leadership and
// international exposure. Detectors never mutate the profile and never fail
// on missing optional fields.
package detectors

import (
	"strings"

	"github.com/jonathan/profile-evaluator/internal/types"
)

// Name identifies a detector in the suite and in failure reports
type Name string

// Detector names
const (
	NameMetrics       Name = "metrics"
	NameVerbs         Name = "verbs"
	NameLength        Name = "length"
	NameKeywords      Name = "keywords"
	NameDuplicates    Name = "duplicates"
	NameConsistency   Name = "consistency"
	NameAcademics     Name = "academics"
	NameLeadership    Name = "leadership"
	NameInternational Name = "international"
)

// bulletView pairs a bullet with its address and owning role
type bulletView struct {
	ref    types.BulletRef
	role   *types.Role
	bullet *types.Bullet
}

// bullets flattens the profile's bullets in role order
func bullets(profile *types.NormalizedProfile) []bulletView {
	if profile == nil {
		return nil
	}
	var views []bulletView
	for i := range profile.Roles {
		role := &profile.Roles[i]
		id := types.RoleID(*role)
		for j := range role.Bullets {
			views = append(views, bulletView{
				ref:    types.BulletRef{RoleID: id, Index: j},
				role:   role,
				bullet: &role.Bullets[j],
			})
		}
	}
	return views
}

// joinBullets concatenates bullet texts one per line
func joinBullets(views []bulletView) string {
	texts := make([]string, len(views))
	for i, v := range views {
		texts[i] = v.bullet.Text
	}
	return strings.Join(texts, "\n")
}

// appendUnique appends values not already present, keeping first-seen order
func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
