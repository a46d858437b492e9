package lexicon

// ParserList names one of the heuristic parser phrase lists
type ParserList string

// Parser phrase lists
const (
	ListTitle           ParserList = "title"
	ListInstitution     ParserList = "institution"
	ListElite           ParserList = "elite"
	ListExtracurricular ParserList = "extracurricular"
	ListLeadership      ParserList = "leadership"
	ListRegion          ParserList = "region"
	ListAwards          ParserList = "awards"
	ListCertifications  ParserList = "certifications"
)

var parserLists = []ParserList{
	ListTitle, ListInstitution, ListElite, ListExtracurricular,
	ListLeadership, ListRegion, ListAwards, ListCertifications,
}

func (p Parser) phrases(list ParserList) []string {
	switch list {
	case ListTitle:
		return p.TitleKeywords
	case ListInstitution:
		return p.InstitutionKeywords
	case ListElite:
		return p.EliteInstitutions
	case ListExtracurricular:
		return p.Extracurricular
	case ListLeadership:
		return p.LeadershipWords
	case ListRegion:
		return p.RegionKeywords
	case ListAwards:
		return p.Awards
	case ListCertifications:
		return p.Certifications
	}
	return nil
}

// ParserMatch returns the first phrase of list found in text as lowercase
// evidence, or "" when nothing matches
func (l *Lexicon) ParserMatch(list ParserList, text string) string {
	for _, re := range l.compiled.parser[list] {
		if loc := re.FindString(text); loc != "" {
			return trimEvidence(loc)
		}
	}
	return ""
}

// ParserHas reports whether any phrase of list occurs in text
func (l *Lexicon) ParserHas(list ParserList, text string) bool {
	return l.ParserMatch(list, text) != ""
}
