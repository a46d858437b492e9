package detectors

import (
	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

var testLex = lexicon.MustDefault()

// profileWithBullets builds a single-role profile at Acme starting 2020-01
func profileWithBullets(texts ...string) *types.NormalizedProfile {
	profile := types.NewNormalizedProfile()
	role := types.Role{Company: "Acme", Start: "2020-01", Bullets: []types.Bullet{}}
	for _, text := range texts {
		role.Bullets = append(role.Bullets, types.Bullet{Text: text})
	}
	profile.Roles = append(profile.Roles, role)
	return profile
}
