package gaps

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

const (
	maxWeakest = 3
	maxPlans   = 3
	maxAngles  = 3
)

// Essay angle template keys in the lexicon
const (
	AngleLeadership    = "leadership"
	AngleInternational = "international"
	AngleLaunch        = "launch"
	AngleMetric        = "metric"
	AngleAcademics     = "academics"
	AngleDefault       = "default"
)

// leadershipStory phrases a leadership category as the verb clause of an
// essay angle
var leadershipStory = map[string]string{
	"strong":           "led a team to a result",
	"cross_functional": "aligned cross-functional teams",
	"mentorship":       "developed the people around you",
	"strategic":        "shaped strategy",
	"influence":        "won over stakeholders without authority",
	"client_facing":    "earned a client's trust",
	"initiative":       "started something from nothing",
	"change":           "drove a transformation",
}

// Compose assembles the gaps section. fixes is the output of PickTopFixes.
func Compose(analysis types.Analysis, subs types.Subscores, fixes []types.BulletFix, lex *lexicon.Lexicon) types.Gaps {
	if fixes == nil {
		fixes = []types.BulletFix{}
	}
	weakest := WeakestDimensions(subs, lex.Thresholds.WeakDimension)
	sixWeeks, ninetyDays := plans(weakest, lex)

	return types.Gaps{
		TopBulletsToFix:   fixes,
		WeakestDimensions: weakest,
		Next6Weeks:        sixWeeks,
		Next90Days:        ninetyDays,
		EssayAngles:       EssayAngles(analysis, lex),
	}
}

// WeakestDimensions returns up to three dimensions scoring below threshold,
// lowest first. Equal scores keep the canonical dimension order.
func WeakestDimensions(subs types.Subscores, threshold int) []string {
	weak := []string{}
	for _, dim := range types.Dimensions {
		if subs.Get(dim) < threshold {
			weak = append(weak, dim)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return subs.Get(weak[i]) < subs.Get(weak[j])
	})
	if len(weak) > maxWeakest {
		weak = weak[:maxWeakest]
	}
	return weak
}

// plans takes the lexicon templates of the weak dimensions round-robin, so
// the weakest dimension leads and each one gets a turn before any repeats
func plans(weak []string, lex *lexicon.Lexicon) (sixWeeks, ninetyDays []string) {
	short := make([][]string, 0, len(weak))
	long := make([][]string, 0, len(weak))
	for _, dim := range weak {
		p := lex.Plans[dim]
		short = append(short, p.SixWeeks)
		long = append(long, p.NinetyDays)
	}
	return roundRobin(short, maxPlans), roundRobin(long, maxPlans)
}

func roundRobin(lists [][]string, limit int) []string {
	out := []string{}
	for i := 0; len(out) < limit; i++ {
		took := false
		for _, list := range lists {
			if i < len(list) && len(out) < limit {
				out = append(out, list[i])
				took = true
			}
		}
		if !took {
			break
		}
	}
	return out
}

// EssayAngles suggests up to three essay themes from the strongest signals
// in the analysis. A profile with no usable strengths gets the default angle.
func EssayAngles(analysis types.Analysis, lex *lexicon.Lexicon) []string {
	angles := []string{}
	add := func(key, detail string) {
		if len(angles) >= maxAngles {
			return
		}
		if text, ok := renderAngle(lex.EssayAngles[key], detail); ok {
			angles = append(angles, text)
		}
	}

	if story := leadershipDetail(analysis.Leadership.Categories); story != "" {
		add(AngleLeadership, story)
	}
	if regions := analysis.International.Regions; len(regions) > 0 {
		add(AngleInternational, joinList(regions))
	}
	if n := analysis.Metrics.Launches; n > 0 {
		detail := "a new product"
		if n > 1 {
			detail = fmt.Sprintf("%d products", n)
		}
		add(AngleLaunch, detail)
	}
	if pct := analysis.Metrics.MaxPct; pct > 0 {
		add(AngleMetric, fmt.Sprintf("%s%%", formatNumber(pct)))
	}
	if school := tier1School(analysis.Academics); school != "" {
		add(AngleAcademics, school)
	}

	if len(angles) == 0 {
		add(AngleDefault, "")
	}
	return angles
}

func renderAngle(text, detail string) (string, bool) {
	if text == "" {
		return "", false
	}
	tmpl, err := template.New("angle").Parse(text)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Detail string }{Detail: detail}); err != nil {
		return "", false
	}
	return buf.String(), true
}

func leadershipDetail(categories []string) string {
	for _, c := range categories {
		if story, ok := leadershipStory[c]; ok {
			return story
		}
	}
	if len(categories) > 0 {
		return "led others"
	}
	return ""
}

func tier1School(a types.AcademicsAnalysis) string {
	if !a.Tier1 {
		return ""
	}
	for _, e := range a.Entries {
		if e.Tier == 1 {
			if e.MatchedName != "" {
				return e.MatchedName
			}
			return e.School
		}
	}
	return ""
}

// joinList renders "a", "a and b", "a, b and c"
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
