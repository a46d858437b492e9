package detectors

import (
	"regexp"
	"strings"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

var (
	// auxiliary + participle with an agent introduced by "by"
	passiveAux  = regexp.MustCompile(`(?i)\b(?:was|were|is|are|been|being|be|got|gets)\s+(?:\w+ly\s+)?\w+(?:ed|en|wn|lt|ght)\b.*?\bby\b`)
	clauseSplit = regexp.MustCompile(`(?i)\s*[,;]\s*|\s+(?:and|while|then|before|after)\s+`)
)

const edgePunct = ".,;:!?()[]\"'"

// AnalyzeVerbs classifies each bullet's leading verb, flags likely passive
// voice and guesses tense. A bullet reading present tense in a role with an
// end date is a tense mismatch.
func AnalyzeVerbs(profile *types.NormalizedProfile, lex *lexicon.Lexicon) types.VerbsAnalysis {
	views := bullets(profile)
	result := types.VerbsAnalysis{Bullets: make([]types.BulletVerbs, 0, len(views))}

	strong := 0
	for _, v := range views {
		text := v.bullet.Text
		leading := leadingWord(text)

		bv := types.BulletVerbs{
			BulletRef:     v.ref,
			LeadingVerb:   leading,
			SupportVerb:   lex.SupportVerb(leading),
			PassiveLikely: passiveAux.MatchString(text) || lex.HasPassivePhrase(text),
			Tense:         bulletTense(text, lex),
		}
		bv.StrongVerb = !bv.SupportVerb && (lex.ActionVerb(leading) || pastParticiple(leading))
		bv.TenseMismatch = strings.TrimSpace(v.role.End) != "" && bv.Tense == types.TensePresent

		if bv.StrongVerb {
			strong++
		}
		if bv.PassiveLikely {
			result.PassiveCount++
		}
		if bv.TenseMismatch {
			result.MismatchCount++
		}
		result.Bullets = append(result.Bullets, bv)
	}

	result.StrongShare = share(strong, len(views))
	return result
}

// leadingWord returns the first word of text, lowercased, without edge punctuation
func leadingWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Trim(fields[0], edgePunct))
}

// pastParticiple treats unlisted -ed words as action verbs ("Re-architected")
func pastParticiple(word string) bool {
	return len(word) > 4 && strings.HasSuffix(word, "ed")
}

// bulletTense looks only at the verb opening each clause, so nouns and
// infinitives later in the sentence ("to launch") do not count
func bulletTense(text string, lex *lexicon.Lexicon) string {
	past, present := false, false
	for _, clause := range clauseSplit.Split(text, -1) {
		switch verbTense(leadingWord(clause), lex) {
		case types.TensePast:
			past = true
		case types.TensePresent:
			present = true
		}
	}

	switch {
	case past && present:
		return types.TenseMixed
	case past:
		return types.TensePast
	case present:
		return types.TensePresent
	}
	return types.TenseUnknown
}

func verbTense(word string, lex *lexicon.Lexicon) string {
	switch {
	case word == "":
		return ""
	case lex.PresentVerb(word):
		return types.TensePresent
	case pastParticiple(word), lex.ActionVerb(word), lex.SupportVerb(word):
		return types.TensePast
	}
	return ""
}
