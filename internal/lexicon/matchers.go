package lexicon

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/profile-evaluator/internal/types"
)

// stopwords are ignored when comparing institution names
var stopwords = map[string]bool{
	"of": true, "the": true, "and": true, "at": true, "for": true, "in": true,
}

// Words splits text into lowercase letter/digit tokens
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the set of lowercase tokens in text, minus stopwords
func TokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range Words(text) {
		if !stopwords[w] {
			set[w] = true
		}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// ActionVerb reports whether word is a strong action verb
func (l *Lexicon) ActionVerb(word string) bool {
	return l.compiled.action[strings.ToLower(word)]
}

// SupportVerb reports whether word is a weak or supporting verb
func (l *Lexicon) SupportVerb(word string) bool {
	return l.compiled.support[strings.ToLower(word)]
}

// PresentVerb reports whether word is a present-tense verb form
func (l *Lexicon) PresentVerb(word string) bool {
	return l.compiled.present[strings.ToLower(word)]
}

// HasPassivePhrase reports whether text contains a configured passive construction
func (l *Lexicon) HasPassivePhrase(text string) bool {
	for _, re := range l.compiled.passive {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchKeywords returns the track keywords present in text, in configured order.
// An unknown track matches nothing.
func (l *Lexicon) MatchKeywords(track types.Track, text string) []string {
	patterns := l.compiled.trackKeywords[track]
	keywords := l.TrackKeywords(track)
	var present []string
	for i, re := range patterns {
		if re.MatchString(text) {
			present = append(present, keywords[i])
		}
	}
	return present
}

// CategoryMatch is a leadership category that matched, with its evidence phrase
type CategoryMatch struct {
	Name     string
	Weight   float64
	Evidence string
}

// MatchLeadership walks the categories in configured order and returns the
// first matching phrase of each category. A category contributes at most once.
func (l *Lexicon) MatchLeadership(text string) []CategoryMatch {
	var matches []CategoryMatch
	for _, cat := range l.compiled.leadership {
		for _, re := range cat.phrases {
			if loc := re.FindString(text); loc != "" {
				matches = append(matches, CategoryMatch{Name: cat.name, Weight: cat.weight, Evidence: trimEvidence(loc)})
				break
			}
		}
	}
	return matches
}

// MatchBonuses returns bonus heuristics that fire on text and whose Unless
// category is not in matched.
func (l *Lexicon) MatchBonuses(text string, matched map[string]bool) []CategoryMatch {
	var bonuses []CategoryMatch
	for _, b := range l.compiled.bonuses {
		if b.unless != "" && matched[b.unless] {
			continue
		}
		if loc := b.pattern.FindString(text); loc != "" {
			bonuses = append(bonuses, CategoryMatch{Name: b.name, Weight: b.weight, Evidence: trimEvidence(loc)})
		}
	}
	return bonuses
}

// ExecutiveTitle reports whether text mentions an executive office or title
func (l *Lexicon) ExecutiveTitle(text string) bool {
	return l.compiled.executive.MatchString(text)
}

// Regions returns the region names mentioned in text, in configured order
func (l *Lexicon) Regions(text string) []string {
	var regions []string
	for _, r := range l.compiled.regions {
		for _, re := range r.patterns {
			if re.MatchString(text) {
				regions = append(regions, r.name)
				break
			}
		}
	}
	return regions
}

// CrossBorder returns the first cross-border phrase found in text, or ""
func (l *Lexicon) CrossBorder(text string) string {
	for _, re := range l.compiled.crossBorder {
		if loc := re.FindString(text); loc != "" {
			return trimEvidence(loc)
		}
	}
	return ""
}

// RigorousDiscipline reports whether text names a quantitative or technical discipline
func (l *Lexicon) RigorousDiscipline(text string) bool {
	for _, re := range l.compiled.rigorous {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// InstitutionMatch is the best tier-list match for a school name
type InstitutionMatch struct {
	Name       string
	Tier       int
	Similarity float64
}

// MatchInstitution finds the tier-list institution with the highest token
// Jaccard similarity to school, comparing against names and aliases. Ties go
// to the better (lower) tier. ok is false when nothing reaches the threshold.
func (l *Lexicon) MatchInstitution(school string) (InstitutionMatch, bool) {
	tokens := TokenSet(school)
	if len(tokens) == 0 {
		return InstitutionMatch{}, false
	}

	var best InstitutionMatch
	for _, inst := range l.compiled.institutions {
		for _, candidate := range inst.tokens {
			sim := Jaccard(tokens, candidate)
			if sim > best.Similarity || (sim == best.Similarity && sim > 0 && inst.tier < best.Tier) {
				best = InstitutionMatch{Name: inst.name, Tier: inst.tier, Similarity: sim}
			}
		}
	}

	if best.Similarity < l.Thresholds.AcademicMatch {
		return InstitutionMatch{}, false
	}
	return best, true
}

// FXRate returns the baseline conversion rate for a currency code
func (l *Lexicon) FXRate(code string) (float64, bool) {
	rate, ok := l.FX[strings.ToUpper(code)]
	return rate, ok
}

var edgeJunk = regexp.MustCompile(`^[^\pL\pN]+|[^\pL\pN]+$`)

func trimEvidence(s string) string {
	return strings.ToLower(edgeJunk.ReplaceAllString(s, ""))
}
