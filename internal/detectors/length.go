package detectors

import (
	"strings"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// AnalyzeLength counts words per bullet and flags bullets outside the
// configured [MinWords, MaxWords] range
func AnalyzeLength(profile *types.NormalizedProfile, lex *lexicon.Lexicon) types.LengthAnalysis {
	views := bullets(profile)
	result := types.LengthAnalysis{
		Bullets: make([]types.BulletLength, 0, len(views)),
		Roles:   []types.RoleLength{},
	}

	minWords, maxWords := lex.Thresholds.MinWords, lex.Thresholds.MaxWords

	totalWords, long := 0, 0
	roleWords := make(map[string]int)
	roleBullets := make(map[string]int)
	var roleOrder []string

	for _, v := range views {
		words := len(strings.Fields(v.bullet.Text))
		bl := types.BulletLength{
			BulletRef: v.ref,
			Words:     words,
			TooShort:  words < minWords,
			TooLong:   words > maxWords,
		}
		result.Bullets = append(result.Bullets, bl)

		totalWords += words
		if bl.TooLong {
			long++
		}
		if _, seen := roleBullets[v.ref.RoleID]; !seen {
			roleOrder = append(roleOrder, v.ref.RoleID)
		}
		roleWords[v.ref.RoleID] += words
		roleBullets[v.ref.RoleID]++
	}

	// Roles sharing an id are averaged together
	for _, id := range roleOrder {
		result.Roles = append(result.Roles, types.RoleLength{
			RoleID:   id,
			AvgWords: float64(roleWords[id]) / float64(roleBullets[id]),
		})
	}

	if len(views) > 0 {
		result.AvgWords = float64(totalWords) / float64(len(views))
		result.LongShare = share(long, len(views))
	}
	return result
}
