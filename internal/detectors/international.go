package detectors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// EvidenceMultiCountryLaunch marks a launch spanning several countries or markets
const EvidenceMultiCountryLaunch = "multi-country launch"

// multiCountryMonths is the exposure assumed for a multi-country launch
const multiCountryMonths = 6

var (
	durationMention = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\+?\s*(months?|mos?|years?|yrs?)\b`)
	multiCountry    = regexp.MustCompile(`(?i)\b\d+\+?\s+(?:countries|markets|regions|geographies)\b|\bmulti-?(?:country|market|region|national)\b|\bmultiple\s+(?:countries|markets|regions)\b|\bglobally\b|\bworldwide\b`)
)

// AnalyzeInternational collects regions and cross-border evidence from
// bullets, role locations, structured scope and any parser stub. Duration is
// the largest single signal found, never a sum.
func AnalyzeInternational(profile *types.NormalizedProfile, lex *lexicon.Lexicon) types.InternationalAnalysis {
	result := types.InternationalAnalysis{
		Regions:  []string{},
		Evidence: []string{},
	}
	if profile == nil {
		return result
	}

	for _, role := range profile.Roles {
		result.Regions = appendUnique(result.Regions, lex.Regions(role.Location)...)

		for _, b := range role.Bullets {
			regions := lex.Regions(b.Text)
			crossBorder := lex.CrossBorder(b.Text)
			if b.Scope != nil {
				for _, r := range b.Scope.Regions {
					if named := lex.Regions(r); len(named) > 0 {
						regions = appendUnique(regions, named...)
					} else {
						regions = appendUnique(regions, strings.TrimSpace(r))
					}
				}
			}

			result.Regions = appendUnique(result.Regions, regions...)
			result.Evidence = appendUnique(result.Evidence, crossBorder)
			if len(regions) == 0 && crossBorder == "" {
				continue
			}

			if months, phrase := longestDuration(b.Text); months > 0 {
				result.Months = max(result.Months, months)
				result.Evidence = appendUnique(result.Evidence, phrase)
			}
			if launchVerb.MatchString(b.Text) && (multiCountry.MatchString(b.Text) || len(regions) > 1) {
				result.Months = max(result.Months, multiCountryMonths)
				result.Evidence = appendUnique(result.Evidence, EvidenceMultiCountryLaunch)
			}
		}
	}

	if stub := profile.International; stub != nil {
		result.Regions = appendUnique(result.Regions, stub.Regions...)
		result.Evidence = appendUnique(result.Evidence, stub.Evidence...)
		result.Months = max(result.Months, stub.Months)
	}
	return result
}

// longestDuration returns the largest "N months" / "N years" mention in months
func longestDuration(text string) (int, string) {
	best, phrase := 0, ""
	for _, sm := range durationMention.FindAllStringSubmatch(text, -1) {
		n, err := strconv.ParseFloat(sm[1], 64)
		if err != nil {
			continue
		}
		months := int(n)
		if unit := strings.ToLower(sm[2]); strings.HasPrefix(unit, "y") {
			months = int(n * 12)
		}
		if months > best {
			best, phrase = months, strings.ToLower(sm[0])
		}
	}
	return best, phrase
}
