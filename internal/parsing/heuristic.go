// Package parsing turns normalized profile text into a types.NormalizedProfile,
// either with the offline heuristic parser or through a language model guarded
// by a timeout, a one-shot JSON repair and schema validation.
package parsing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

const (
	maxEducation        = 4
	maxExtracurriculars = 3
	maxHeaderWords      = 16
	maxSeparatorWords   = 10
	maxTitleOnlyWords   = 6
	maxCompanyLineWords = 6
)

type section int

const (
	sectionNone section = iota
	sectionExperience
	sectionEducation
	sectionExtracurricular
	sectionAwards
	sectionCertifications
	sectionSkills
	sectionTests
	sectionSummary
)

var sectionHeadings = []struct {
	pattern *regexp.Regexp
	section section
}{
	{regexp.MustCompile(`^(?:(?:work|professional|relevant|industry)\s+)?(?:experience|employment(?:\s+history)?|work\s+history|career(?:\s+history)?)$`), sectionExperience},
	{regexp.MustCompile(`^(?:education(?:al)?(?:\s+(?:background|qualifications?))?|academics?|academic\s+(?:background|qualifications?))$`), sectionEducation},
	{regexp.MustCompile(`^(?:extra[\s-]?curricular(?:s|\s+activities)?|activities|volunteer(?:ing)?(?:\s+experience)?|leadership(?:\s+(?:experience|(?:&|and)\s+activities))?|community(?:\s+(?:service|involvement))?|positions\s+of\s+responsibility)$`), sectionExtracurricular},
	{regexp.MustCompile(`^(?:awards?(?:\s+(?:&|and)\s+(?:honou?rs|achievements))?|honou?rs(?:\s+(?:&|and)\s+awards)?|achievements|accomplishments)$`), sectionAwards},
	{regexp.MustCompile(`^(?:certifications?|licen[cs]es?(?:\s+(?:&|and)\s+certifications?)?|courses)$`), sectionCertifications},
	{regexp.MustCompile(`^(?:(?:technical\s+)?skills|core\s+competencies|tools|languages|interests|hobbies)$`), sectionSkills},
	{regexp.MustCompile(`^(?:(?:test|exam)\s+scores?|standardi[sz]ed\s+tests?|scores)$`), sectionTests},
	{regexp.MustCompile(`^(?:(?:professional\s+)?summary|profile|objective|about(?:\s+me)?)$`), sectionSummary},
}

var (
	bulletGlyph   = regexp.MustCompile(`^(?:[-*]\s+|[•·–▪◦]\s*|\d{1,2}[.)]\s+)`)
	headerSep     = regexp.MustCompile(`\s+(?:-|–|—|\||@|at)\s+`)
	hasDigit      = regexp.MustCompile(`\d`)
	ongoingWord   = regexp.MustCompile(`(?i)\b(?:present|current(?:ly)?|ongoing|since|till\s+date)\b`)
	corpSuffix    = regexp.MustCompile(`(?i)^(?:inc\.?|ltd\.?|llc|llp|plc|pvt\.?\s*ltd\.?|corp\.?|co\.?|gmbh|limited)$`)
	degreePattern = regexp.MustCompile(`(?i)(?:^|[^\pL])(b\.?\s?tech|m\.?\s?tech|b\.?\s?sc\.?|m\.?\s?sc\.?|b\.?\s?com|b\.?\s?e\.|bba|mba|pgdm|pgp|ph\.?\s?d|b\.?\s?a\.|m\.?\s?a\.|b\.?\s?s\.|m\.?\s?s\.|bachelor(?:'s)?(?:\s+of\s+\pL+)?|master(?:'s)?(?:\s+of\s+\pL+)?|diploma)(?:$|[^\pL])`)
	disciplineCut = regexp.MustCompile(`(?i)[,|()\[\]–—@]|\s-\s|\s(?:from|at)\s`)
	segmentSep    = regexp.MustCompile(`\s*[,|–—]\s*|\s+-\s+`)
)

// Parse runs the heuristic parser with the embedded lexicon
func Parse(text string) *types.NormalizedProfile {
	return ParseWithLexicon(text, lexicon.MustDefault())
}

// ParseWithLexicon turns normalized text into a profile with a line scan.
// It never fails: a panic anywhere in the scan yields an empty profile.
func ParseWithLexicon(text string, lex *lexicon.Lexicon) (profile *types.NormalizedProfile) {
	defer func() {
		if r := recover(); r != nil {
			profile = types.NewNormalizedProfile()
		}
	}()

	p := &lineParser{lex: lex, profile: types.NewNormalizedProfile()}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, raw := range lines {
		p.consume(strings.TrimSpace(raw))
	}
	p.finish(text, lines)
	return p.profile
}

// lineParser holds the scan state for one document
type lineParser struct {
	lex     *lexicon.Lexicon
	profile *types.NormalizedProfile

	section    section
	role       *types.Role // current role, points into profile.Roles
	lastBullet *types.Bullet
	leftovers  []string // lines not consumed by any role or section
}

func (p *lineParser) consume(line string) {
	if line == "" {
		p.lastBullet = nil
		return
	}

	if s, ok := headingSection(line); ok {
		p.section = s
		p.role = nil
		p.lastBullet = nil
		return
	}

	glyph := bulletGlyph.MatchString(line)
	body := strings.TrimSpace(bulletGlyph.ReplaceAllString(line, ""))
	if body == "" {
		return
	}

	switch p.section {
	case sectionEducation:
		p.addEducation(body)
		return
	case sectionExtracurricular:
		p.addExtracurricular(body)
		return
	case sectionAwards:
		p.profile.Awards = append(p.profile.Awards, body)
		return
	case sectionCertifications:
		p.profile.Certifications = append(p.profile.Certifications, body)
		return
	case sectionSkills, sectionTests, sectionSummary:
		return
	}

	verb := p.leadingVerb(body)

	if p.section == sectionNone && !glyph && !verb && p.lex.ParserHas(lexicon.ListInstitution, body) &&
		len(strings.Fields(body)) <= 20 {
		p.addEducation(body)
		return
	}

	switch {
	case glyph:
		p.addBullet(body)
	case p.lastBullet != nil && startsLower(body):
		p.lastBullet.Text += " " + body
	case p.isHeader(body, verb):
		p.addRole(body)
	case verb:
		p.addBullet(body)
	case p.fillCompany(body):
	case p.lastBullet != nil:
		p.lastBullet.Text += " " + body
	case hasDigit.MatchString(body):
		p.addBullet(body)
	default:
		p.leftovers = append(p.leftovers, body)
	}
}

// headingSection reports whether line is a bare section heading
func headingSection(line string) (section, bool) {
	h := strings.ToLower(strings.TrimSpace(strings.TrimRight(line, ": ")))
	h = strings.Join(strings.Fields(h), " ")
	if h == "" || len(strings.Fields(h)) > 5 {
		return sectionNone, false
	}
	for _, sh := range sectionHeadings {
		if sh.pattern.MatchString(h) {
			return sh.section, true
		}
	}
	return sectionNone, false
}

func (p *lineParser) leadingVerb(body string) bool {
	words := lexicon.Words(body)
	if len(words) == 0 {
		return false
	}
	return p.lex.ActionVerb(words[0]) || p.lex.SupportVerb(words[0])
}

// isHeader decides whether a line opens a new role
func (p *lineParser) isHeader(body string, verb bool) bool {
	words := strings.Fields(body)
	if len(words) == 0 || len(words) > maxHeaderWords || strings.HasSuffix(body, ".") {
		return false
	}
	if !startsUpper(words[0]) {
		return false
	}

	title := p.lex.ParserHas(lexicon.ListTitle, body)
	if verb && !title {
		return false
	}

	dated := dateRange.MatchString(body)
	_, _, rest, _ := extractDates(body)
	sep := headerSep.MatchString(rest)

	switch {
	case dated:
		return true
	case title && sep:
		return true
	case title && len(words) <= maxTitleOnlyWords:
		return true
	case sep && !strings.Contains(body, "%") && len(words) <= maxSeparatorWords:
		return true
	}
	return false
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

func startsLower(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsLower(r)
}

// addRole opens a role from a header line, or completes the current role when
// it has no bullets yet and the header only adds dates or a company
func (p *lineParser) addRole(header string) {
	start, end, rest, _ := extractDates(header)
	title, company, location := p.splitHeader(rest)

	if p.role != nil && len(p.role.Bullets) == 0 && p.role.Start == "" && (title == "" || p.role.Title == "") &&
		(company == "" || p.role.Company == "") {
		if p.role.Title == "" {
			p.role.Title = title
		}
		if p.role.Company == "" {
			p.role.Company = company
		}
		if p.role.Location == "" {
			p.role.Location = location
		}
		p.role.Start, p.role.End = start, end
		return
	}

	p.profile.Roles = append(p.profile.Roles, types.Role{
		Company:  company,
		Title:    title,
		Start:    start,
		End:      end,
		Location: location,
		Bullets:  []types.Bullet{},
	})
	p.role = &p.profile.Roles[len(p.profile.Roles)-1]
	p.lastBullet = nil
}

// splitHeader separates the title, company and location parts of a header
func (p *lineParser) splitHeader(rest string) (title, company, location string) {
	rest = strings.Trim(strings.TrimSpace(rest), "-–—|,@ ")
	parts := headerSep.Split(rest, -1)
	cleaned := parts[:0]
	for _, part := range parts {
		if part = strings.Trim(strings.TrimSpace(part), "-–—|,@() "); part != "" {
			cleaned = append(cleaned, part)
		}
	}
	parts = cleaned

	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		if p.lex.ParserHas(lexicon.ListTitle, parts[0]) {
			return parts[0], "", ""
		}
		company, location = splitLocation(parts[0])
		return "", company, location
	}

	first, second := parts[0], parts[1]
	if len(parts) > 2 {
		location = parts[2]
	}
	switch {
	case p.lex.ParserHas(lexicon.ListTitle, first):
	case p.lex.ParserHas(lexicon.ListTitle, second):
		first, second = second, first
	default:
		// "Company - City"
		if location == "" {
			location = second
		}
		return "", first, location
	}
	company, loc := splitLocation(second)
	if location == "" {
		location = loc
	}
	return first, company, location
}

// splitLocation splits "Acme Corp, Mumbai" into company and location, keeping
// corporate suffixes such as "Inc." with the company
func splitLocation(s string) (string, string) {
	idx := strings.LastIndex(s, ",")
	if idx < 0 {
		return strings.TrimSpace(s), ""
	}
	head, tail := strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:])
	if tail == "" || corpSuffix.MatchString(tail) || len(strings.Fields(tail)) > 3 {
		return strings.TrimSpace(s), ""
	}
	return head, tail
}

// fillCompany treats a short capitalized line right after a title-only header
// as the company name
func (p *lineParser) fillCompany(body string) bool {
	if p.role == nil || len(p.role.Bullets) > 0 || p.role.Company != "" || p.role.Title == "" {
		return false
	}
	words := strings.Fields(body)
	if len(words) > maxCompanyLineWords || !startsUpper(words[0]) || strings.HasSuffix(body, ".") {
		return false
	}
	company, location := splitLocation(body)
	p.role.Company = company
	if p.role.Location == "" {
		p.role.Location = location
	}
	return true
}

func (p *lineParser) addBullet(text string) {
	if p.role == nil {
		p.profile.Roles = append(p.profile.Roles, types.Role{Bullets: []types.Bullet{}})
		p.role = &p.profile.Roles[len(p.profile.Roles)-1]
	}
	p.role.Bullets = append(p.role.Bullets, types.Bullet{Text: text})
	p.lastBullet = &p.role.Bullets[len(p.role.Bullets)-1]
}

func (p *lineParser) addEducation(line string) {
	if !p.lex.ParserHas(lexicon.ListInstitution, line) {
		// Degree line following a school line
		if n := len(p.profile.Education); n > 0 {
			edu := &p.profile.Education[n-1]
			if edu.Degree == "" {
				edu.Degree, edu.Discipline = extractDegree(line)
			}
		}
		return
	}
	if len(p.profile.Education) >= maxEducation {
		return
	}

	edu := types.Education{School: p.schoolName(line)}
	edu.Degree, edu.Discipline = extractDegree(line)
	if p.lex.ParserHas(lexicon.ListElite, line) {
		edu.TierHint = types.TierHintTier1
	}
	p.profile.Education = append(p.profile.Education, edu)
}

// schoolName picks the separator-delimited segment naming the institution
func (p *lineParser) schoolName(line string) string {
	_, _, rest, _ := extractDates(line)
	for _, segment := range segmentSep.Split(rest, -1) {
		segment = strings.Trim(strings.TrimSpace(segment), "()")
		if segment != "" && p.lex.ParserHas(lexicon.ListInstitution, segment) {
			return segment
		}
	}
	return strings.TrimSpace(rest)
}

// extractDegree finds a degree abbreviation or name and the discipline after it
func extractDegree(line string) (degree, discipline string) {
	loc := degreePattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return "", ""
	}
	degree = strings.TrimSpace(line[loc[2]:loc[3]])

	tail := line[loc[3]:]
	tail = strings.TrimLeft(tail, " .,:(")
	lower := strings.ToLower(tail)
	for _, prefix := range []string{"in ", "of ", "- "} {
		if strings.HasPrefix(lower, prefix) {
			tail = tail[len(prefix):]
			break
		}
	}
	if cut := disciplineCut.FindStringIndex(tail); cut != nil {
		tail = tail[:cut[0]]
	}
	tail = strings.TrimSpace(tail)
	words := strings.Fields(tail)
	if len(words) == 0 || len(words) > 5 || hasDigit.MatchString(tail) {
		return degree, ""
	}
	return degree, tail
}

func (p *lineParser) addExtracurricular(text string) {
	if len(p.profile.Extracurriculars) >= maxExtracurriculars {
		return
	}
	ec := types.Extracurricular{
		Text:       text,
		Leadership: p.lex.ParserHas(lexicon.ListLeadership, text),
		Recency:    types.RecencyPast,
	}
	if ongoingWord.MatchString(text) {
		ec.Recency = types.RecencyCurrent
	}
	p.profile.Extracurriculars = append(p.profile.Extracurriculars, ec)
}

// finish runs the whole-document extractors: tests, lexicon-matched leftovers
// and the international stub
func (p *lineParser) finish(text string, lines []string) {
	p.profile.Tests = extractTests(lines)

	// Headers that never received dates or bullets are usually contact
	// lines ("Mumbai | +91 ...") rather than roles
	roles := p.profile.Roles[:0]
	for _, role := range p.profile.Roles {
		if len(role.Bullets) == 0 && role.Start == "" {
			continue
		}
		roles = append(roles, role)
	}
	p.profile.Roles = roles

	for _, line := range p.leftovers {
		switch {
		case p.lex.ParserHas(lexicon.ListExtracurricular, line):
			p.addExtracurricular(line)
		case p.lex.ParserHas(lexicon.ListCertifications, line):
			p.profile.Certifications = append(p.profile.Certifications, line)
		case p.lex.ParserHas(lexicon.ListAwards, line):
			p.profile.Awards = append(p.profile.Awards, line)
		}
	}

	// The international signal is intentionally coarse: any geography keyword
	// marks six months of unspecified exposure. The detector refines it.
	if keyword := p.lex.ParserMatch(lexicon.ListRegion, text); keyword != "" {
		p.profile.International = &types.International{
			Regions:  []string{"global"},
			Months:   6,
			Evidence: []string{keyword},
		}
	}
}
