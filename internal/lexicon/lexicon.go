// Package lexicon provides the typed, validated word lists, tables and weights
// that drive parsing, detection and scoring. A Lexicon is loaded once, compiled,
// and then shared read-only by every request.
package lexicon

import (
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/profile-evaluator/internal/types"
)

//go:embed default.yaml
var defaultYAML []byte

// Thresholds are the tunable cutoffs used by detectors
type Thresholds struct {
	MinWords            int     `yaml:"minWords" validate:"gt=0"`
	MaxWords            int     `yaml:"maxWords" validate:"gtfield=MinWords"`
	DuplicateSimilarity float64 `yaml:"duplicateSimilarity" validate:"gt=0,lte=1"`
	AcademicMatch       float64 `yaml:"academicMatch" validate:"gt=0,lte=1"`
	LargeMoneyBaseline  float64 `yaml:"largeMoneyBaseline" validate:"gt=0"`
	BigPercent          float64 `yaml:"bigPercent" validate:"gt=0"`
	KeywordCoverageLow  float64 `yaml:"keywordCoverageLow" validate:"gte=0,lte=1"`
	WeakDimension       int     `yaml:"weakDimension" validate:"gte=0,lte=10"`
}

// Band is a named readiness range. Min is inclusive; Max is exclusive except
// for the last band, whose Max is inclusive.
type Band struct {
	Name string  `yaml:"name" validate:"required"`
	Min  float64 `yaml:"min" validate:"gte=0"`
	Max  float64 `yaml:"max" validate:"gtfield=Min,lte=10"`
}

// Persona holds the weight overrides for one applicant persona
type Persona struct {
	Weights map[string]float64 `yaml:"weights" validate:"dive,keys,oneof=academics testReadiness workImpact leadership extracurriculars internationalExposure,endkeys,gt=0"`
}

// Track holds the keyword list for one career track
type Track struct {
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// Verbs holds verb lexicons for the verb/tense detector and the parser
type Verbs struct {
	Action         []string `yaml:"action" validate:"required,min=1"`
	Support        []string `yaml:"support" validate:"required,min=1"`
	Present        []string `yaml:"present" validate:"required,min=1"`
	PassivePhrases []string `yaml:"passivePhrases"`
}

// Institution is one entry in the tiered institution list
type Institution struct {
	Name    string   `yaml:"name" validate:"required"`
	Tier    int      `yaml:"tier" validate:"gte=1,lte=5"`
	Aliases []string `yaml:"aliases"`
}

// LeadershipCategory is a weighted group of leadership phrases. A phrase
// ending in "*" matches as a prefix, otherwise as a whole word or phrase.
type LeadershipCategory struct {
	Name    string   `yaml:"name" validate:"required"`
	Weight  float64  `yaml:"weight" validate:"gt=0,lte=1"`
	Phrases []string `yaml:"phrases" validate:"required,min=1"`
}

// LeadershipBonus is a regex heuristic that only counts when its Unless
// category did not already match.
type LeadershipBonus struct {
	Name    string  `yaml:"name" validate:"required"`
	Weight  float64 `yaml:"weight" validate:"gt=0,lte=1"`
	Pattern string  `yaml:"pattern" validate:"required"`
	Unless  string  `yaml:"unless"`
}

// Leadership holds the leadership rubric
type Leadership struct {
	Categories      []LeadershipCategory `yaml:"categories" validate:"required,min=1,dive"`
	Bonuses         []LeadershipBonus    `yaml:"bonuses" validate:"dive"`
	ExecutiveTitles []string             `yaml:"executiveTitles" validate:"required,min=1"`
}

// Region maps keywords to a region label. Codes are matched case-sensitively.
type Region struct {
	Name     string   `yaml:"name" validate:"required"`
	Keywords []string `yaml:"keywords"`
	Codes    []string `yaml:"codes"`
}

// International holds the international exposure lexicon
type International struct {
	Regions     []Region `yaml:"regions" validate:"required,min=1,dive"`
	CrossBorder []string `yaml:"crossBorder" validate:"required,min=1"`
}

// Parser holds the heuristic parser lexicons
type Parser struct {
	TitleKeywords       []string `yaml:"titleKeywords" validate:"required,min=1"`
	InstitutionKeywords []string `yaml:"institutionKeywords" validate:"required,min=1"`
	EliteInstitutions   []string `yaml:"eliteInstitutions" validate:"required,min=1"`
	Extracurricular     []string `yaml:"extracurricular" validate:"required,min=1"`
	LeadershipWords     []string `yaml:"leadershipWords" validate:"required,min=1"`
	RegionKeywords      []string `yaml:"regionKeywords" validate:"required,min=1"`
	Awards              []string `yaml:"awards"`
	Certifications      []string `yaml:"certifications"`
}

// Plan holds action templates for one dimension
type Plan struct {
	SixWeeks   []string `yaml:"sixWeeks" validate:"required,min=1"`
	NinetyDays []string `yaml:"ninetyDays" validate:"required,min=1"`
}

// Lexicon is the full configuration document
type Lexicon struct {
	Version             string                    `yaml:"version" validate:"required"`
	Thresholds          Thresholds                `yaml:"thresholds"`
	Bands               []Band                    `yaml:"bands" validate:"required,min=1,dive"`
	Weights             map[string]float64        `yaml:"weights" validate:"required,len=6,dive,keys,oneof=academics testReadiness workImpact leadership extracurriculars internationalExposure,endkeys,gt=0"`
	Personas            map[types.Persona]Persona `yaml:"personas" validate:"required,dive,keys,oneof=full_time executive deferred switcher international reapplicant,endkeys"`
	Tracks              map[types.Track]Track     `yaml:"tracks" validate:"required,dive,keys,oneof=product_management consulting finance technology operations marketing general_management social_impact,endkeys"`
	Verbs               Verbs                     `yaml:"verbs"`
	FX                  map[string]float64        `yaml:"fx" validate:"required,dive,gt=0"`
	Institutions        []Institution             `yaml:"institutions" validate:"required,min=1,dive"`
	RigorousDisciplines []string                  `yaml:"rigorousDisciplines" validate:"required,min=1"`
	Leadership          Leadership                `yaml:"leadership"`
	International       International             `yaml:"international"`
	Parser              Parser                    `yaml:"parser"`
	Plans               map[string]Plan           `yaml:"plans" validate:"required,dive"`
	EssayAngles         map[string]string         `yaml:"essayAngles" validate:"required"`

	compiled *compiled
	digest   string
}

// compiled holds derived lookup tables and regexes built once at load
type compiled struct {
	action        map[string]bool
	support       map[string]bool
	present       map[string]bool
	passive       []*regexp.Regexp
	trackKeywords map[types.Track][]*regexp.Regexp
	leadership    []compiledCategory
	bonuses       []compiledBonus
	executive     *regexp.Regexp
	regions       []compiledRegion
	crossBorder   []*regexp.Regexp
	institutions  []compiledInstitution
	rigorous      []*regexp.Regexp
	parser        map[ParserList][]*regexp.Regexp
}

type compiledCategory struct {
	name    string
	weight  float64
	phrases []*regexp.Regexp
}

type compiledBonus struct {
	name    string
	weight  float64
	pattern *regexp.Regexp
	unless  string
}

type compiledRegion struct {
	name     string
	patterns []*regexp.Regexp
}

type compiledInstitution struct {
	name   string
	tier   int
	tokens []map[string]bool // name followed by aliases
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the embedded lexicon, parsed and validated on first use
func Default() (*Lexicon, error) {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = Parse(defaultYAML)
	})
	return defaultLex, defaultErr
}

// MustDefault returns the embedded lexicon, panicking if it is invalid.
// The embedded document is covered by tests, so this only fails on a broken build.
func MustDefault() *Lexicon {
	lex, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load embedded lexicon: %v", err))
	}
	return lex
}

// Load reads, validates and compiles a lexicon from a YAML file
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read lexicon file", Cause: err}
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "invalid lexicon", Cause: err}
	}
	return lex, nil
}

// Parse decodes, validates and compiles a lexicon document
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon YAML: %w", err)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	c, err := compile(&lex)
	if err != nil {
		return nil, err
	}
	lex.compiled = c
	sum := blake2b.Sum256(data)
	lex.digest = hex.EncodeToString(sum[:])
	return &lex, nil
}

// Digest is the hex blake2b-256 hash of the document the lexicon was parsed
// from. Two lexicons with the same Version but different contents differ here.
func (l *Lexicon) Digest() string {
	return l.digest
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints plus cross-field rules validator tags cannot express
func (l *Lexicon) Validate() error {
	if err := validate.Struct(l); err != nil {
		return &ValidationError{Message: "struct validation failed", Cause: err}
	}
	if err := ValidateBands(l.Bands); err != nil {
		return err
	}
	names := make(map[string]bool, len(l.Leadership.Categories))
	for _, c := range l.Leadership.Categories {
		if names[c.Name] {
			return &ValidationError{Message: fmt.Sprintf("duplicate leadership category %q", c.Name)}
		}
		names[c.Name] = true
	}
	for _, b := range l.Leadership.Bonuses {
		if b.Unless != "" && !names[b.Unless] {
			return &ValidationError{Message: fmt.Sprintf("leadership bonus %q references unknown category %q", b.Name, b.Unless)}
		}
	}
	if _, ok := l.FX["USD"]; !ok {
		return &ValidationError{Message: "fx table must include the USD baseline"}
	}
	for _, dim := range types.Dimensions {
		if _, ok := l.Plans[dim]; !ok {
			return &ValidationError{Message: fmt.Sprintf("missing plan for dimension %q", dim)}
		}
	}
	return nil
}

// ValidateBands checks that bands are sorted, contiguous and cover [0, 10]
func ValidateBands(bands []Band) error {
	if len(bands) == 0 {
		return &ValidationError{Message: "at least one band is required"}
	}
	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	if sorted[0].Min != 0 {
		return &ValidationError{Message: fmt.Sprintf("first band %q must start at 0", sorted[0].Name)}
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Min != sorted[i-1].Max {
			return &ValidationError{Message: fmt.Sprintf("bands %q and %q are not contiguous", sorted[i-1].Name, sorted[i].Name)}
		}
	}
	if last := sorted[len(sorted)-1]; last.Max != 10 {
		return &ValidationError{Message: fmt.Sprintf("last band %q must end at 10", last.Name)}
	}
	return nil
}

// BandFor returns the band name for a readiness score in [0, 10]
func (l *Lexicon) BandFor(score float64) string {
	for i, b := range l.Bands {
		last := i == len(l.Bands)-1
		if score >= b.Min && (score < b.Max || (last && score <= b.Max)) {
			return b.Name
		}
	}
	if score < 0 {
		return l.Bands[0].Name
	}
	return l.Bands[len(l.Bands)-1].Name
}

// WeightsFor returns the default weights with persona overrides applied
func (l *Lexicon) WeightsFor(persona types.Persona) map[string]float64 {
	weights := make(map[string]float64, len(l.Weights))
	for k, v := range l.Weights {
		weights[k] = v
	}
	if p, ok := l.Personas[persona]; ok {
		for k, v := range p.Weights {
			weights[k] = v
		}
	}
	return weights
}

// HasPersona reports whether a persona is configured
func (l *Lexicon) HasPersona(persona types.Persona) bool {
	_, ok := l.Personas[persona]
	return ok
}

// TrackKeywords returns the keyword list for a track, or nil when unknown.
// Prefix markers are stripped.
func (l *Lexicon) TrackKeywords(track types.Track) []string {
	t, ok := l.Tracks[track]
	if !ok {
		return nil
	}
	keywords := make([]string, len(t.Keywords))
	for i, kw := range t.Keywords {
		keywords[i] = strings.TrimSuffix(kw, "*")
	}
	return keywords
}

// wordPattern compiles a case-insensitive whole-word matcher. A trailing "*"
// turns the phrase into a prefix match.
func wordPattern(phrase string) (*regexp.Regexp, error) {
	phrase = strings.TrimSpace(phrase)
	prefix := strings.HasSuffix(phrase, "*")
	phrase = strings.TrimSuffix(phrase, "*")
	quoted := regexp.QuoteMeta(phrase)
	quoted = strings.ReplaceAll(quoted, " ", `\s+`)
	expr := `(?i)(?:^|[^\pL\pN])` + quoted
	if !prefix {
		expr += `(?:$|[^\pL\pN])`
	}
	return regexp.Compile(expr)
}

// casePattern compiles a case-sensitive whole-word matcher for codes like "US"
func casePattern(code string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?:^|[^\pL\pN])` + regexp.QuoteMeta(code) + `(?:$|[^\pL\pN])`)
}

func compileAll(phrases []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		re, err := wordPattern(p)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("invalid phrase %q", p), Cause: err}
		}
		out = append(out, re)
	}
	return out, nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}

func compile(l *Lexicon) (*compiled, error) {
	c := &compiled{
		action:        toSet(l.Verbs.Action),
		support:       toSet(l.Verbs.Support),
		present:       toSet(l.Verbs.Present),
		trackKeywords: make(map[types.Track][]*regexp.Regexp, len(l.Tracks)),
	}

	var err error
	if c.passive, err = compileAll(l.Verbs.PassivePhrases); err != nil {
		return nil, err
	}
	for track, cfg := range l.Tracks {
		if c.trackKeywords[track], err = compileAll(cfg.Keywords); err != nil {
			return nil, err
		}
	}
	for _, cat := range l.Leadership.Categories {
		phrases, err := compileAll(cat.Phrases)
		if err != nil {
			return nil, err
		}
		c.leadership = append(c.leadership, compiledCategory{name: cat.Name, weight: cat.Weight, phrases: phrases})
	}
	for _, b := range l.Leadership.Bonuses {
		re, err := regexp.Compile(b.Pattern)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("invalid bonus pattern for %q", b.Name), Cause: err}
		}
		c.bonuses = append(c.bonuses, compiledBonus{name: b.Name, weight: b.Weight, pattern: re, unless: b.Unless})
	}

	execParts := make([]string, 0, len(l.Leadership.ExecutiveTitles))
	for _, title := range l.Leadership.ExecutiveTitles {
		execParts = append(execParts, strings.ReplaceAll(regexp.QuoteMeta(strings.TrimSpace(title)), " ", `\s+`))
	}
	c.executive = regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(?:` + strings.Join(execParts, "|") + `)(?:$|[^\pL\pN])`)

	for _, region := range l.International.Regions {
		patterns, err := compileAll(region.Keywords)
		if err != nil {
			return nil, err
		}
		for _, code := range region.Codes {
			re, err := casePattern(code)
			if err != nil {
				return nil, &ValidationError{Message: fmt.Sprintf("invalid region code %q", code), Cause: err}
			}
			patterns = append(patterns, re)
		}
		c.regions = append(c.regions, compiledRegion{name: region.Name, patterns: patterns})
	}
	if c.crossBorder, err = compileAll(l.International.CrossBorder); err != nil {
		return nil, err
	}
	if c.rigorous, err = compileAll(l.RigorousDisciplines); err != nil {
		return nil, err
	}

	c.parser = make(map[ParserList][]*regexp.Regexp, len(parserLists))
	for _, list := range parserLists {
		if c.parser[list], err = compileAll(l.Parser.phrases(list)); err != nil {
			return nil, err
		}
	}

	for _, inst := range l.Institutions {
		ci := compiledInstitution{name: inst.Name, tier: inst.Tier}
		ci.tokens = append(ci.tokens, TokenSet(inst.Name))
		for _, alias := range inst.Aliases {
			ci.tokens = append(ci.tokens, TokenSet(alias))
		}
		c.institutions = append(c.institutions, ci)
	}

	return c, nil
}
