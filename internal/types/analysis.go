package types

// BulletRef addresses a bullet by its role id and index within the role
type BulletRef struct {
	RoleID string `json:"roleId"`
	Index  int    `json:"index"`
}

// Unit classes reported by the metrics detector
const (
	UnitPct      = "pct"
	UnitCurrency = "currency"
	UnitCount    = "count"
	UnitTime     = "time"
	UnitRatio    = "ratio"
)

// MoneyMention is a currency amount found in a bullet
type MoneyMention struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
	Baseline float64 `json:"baseline"` // amount converted to the baseline currency (USD)
}

// BulletMetrics is the per-bullet output of the metrics detector
type BulletMetrics struct {
	BulletRef
	HasNumber   bool           `json:"hasNumber"`
	Units       []string       `json:"units"`
	HasDelta    bool           `json:"hasDelta"`
	Percentages []float64      `json:"percentages,omitempty"`
	Money       []MoneyMention `json:"money,omitempty"`
	Launches    int            `json:"launches"`
}

// MetricsAnalysis summarizes quantified impact across all bullets
type MetricsAnalysis struct {
	Bullets      []BulletMetrics `json:"bullets"`
	Density      float64         `json:"density"`
	Confidence   float64         `json:"confidence"`
	MaxPct       float64         `json:"maxPct"`
	MaxMoney     float64         `json:"maxMoney"`
	Launches     int             `json:"launches"`
	SignalsFired []string        `json:"signalsFired"`
}

// Tense classifications for bullets
const (
	TensePast    = "past"
	TensePresent = "present"
	TenseMixed   = "mixed"
	TenseUnknown = "unknown"
)

// BulletVerbs is the per-bullet output of the verb/tense detector
type BulletVerbs struct {
	BulletRef
	LeadingVerb   string `json:"leadingVerb"`
	StrongVerb    bool   `json:"strongVerb"`
	SupportVerb   bool   `json:"supportVerb"`
	PassiveLikely bool   `json:"passiveLikely"`
	Tense         string `json:"tense"`
	TenseMismatch bool   `json:"tenseMismatch"`
}

// VerbsAnalysis summarizes verb strength and tense consistency
type VerbsAnalysis struct {
	Bullets       []BulletVerbs `json:"bullets"`
	StrongShare   float64       `json:"strongShare"`
	PassiveCount  int           `json:"passiveCount"`
	MismatchCount int           `json:"mismatchCount"`
}

// BulletLength is the per-bullet output of the length detector
type BulletLength struct {
	BulletRef
	Words    int  `json:"words"`
	TooShort bool `json:"tooShort"`
	TooLong  bool `json:"tooLong"`
}

// RoleLength is the average bullet length within a role
type RoleLength struct {
	RoleID   string  `json:"roleId"`
	AvgWords float64 `json:"avgWords"`
}

// LengthAnalysis summarizes bullet length quality
type LengthAnalysis struct {
	Bullets   []BulletLength `json:"bullets"`
	Roles     []RoleLength   `json:"roles"`
	AvgWords  float64        `json:"avgWords"`
	LongShare float64        `json:"longShare"`
}

// RoleKeywords is the keyword hit summary for a single role
type RoleKeywords struct {
	RoleID  string  `json:"roleId"`
	Hits    int     `json:"hits"`
	Density float64 `json:"density"`
}

// KeywordsAnalysis reports track keyword coverage
type KeywordsAnalysis struct {
	Track    Track          `json:"track"`
	Want     []string       `json:"want"`
	Present  []string       `json:"present"`
	Missing  []string       `json:"missing"`
	Coverage float64        `json:"coverage"`
	Roles    []RoleKeywords `json:"roles"`
}

// DuplicatePair is a pair of near-identical bullets
type DuplicatePair struct {
	A          BulletRef `json:"a"`
	B          BulletRef `json:"b"`
	Similarity float64   `json:"similarity"`
}

// DuplicatesAnalysis lists near-duplicate bullet pairs
type DuplicatesAnalysis struct {
	Pairs []DuplicatePair `json:"pairs"`
}

// IssueDateOverlap is the consistency issue type for overlapping roles
const IssueDateOverlap = "date_overlap"

// ConsistencyIssue describes one timeline problem
type ConsistencyIssue struct {
	Type   string `json:"type"`
	RoleA  string `json:"roleA"`
	RoleB  string `json:"roleB"`
	Detail string `json:"detail"`
}

// ConsistencyAnalysis lists timeline issues
type ConsistencyAnalysis struct {
	Issues []ConsistencyIssue `json:"issues"`
}

// AcademicMatch is the tier resolution for a single education entry
type AcademicMatch struct {
	School         string  `json:"school"`
	MatchedName    string  `json:"matchedName,omitempty"`
	Tier           int     `json:"tier"`
	Confidence     float64 `json:"confidence"`
	RigorousDegree bool    `json:"rigorousDegree"`
	FromHint       bool    `json:"fromHint"`
}

// AcademicsAnalysis summarizes institution tier and degree rigor
type AcademicsAnalysis struct {
	Entries        []AcademicMatch `json:"entries"`
	BestTier       int             `json:"bestTier"`
	Tier1          bool            `json:"tier1"`
	RigorousDegree bool            `json:"rigorousDegree"`
	Confidence     float64         `json:"confidence"`
}

// LeadershipAnalysis reports matched leadership categories and the capped score
type LeadershipAnalysis struct {
	Categories      []string `json:"categories"`
	Bonuses         []string `json:"bonuses,omitempty"`
	Evidence        []string `json:"evidence"`
	Score           float64  `json:"score"`
	ExecutiveSignal bool     `json:"executiveSignal"`
}

// HasCategory reports whether a leadership category matched
func (a LeadershipAnalysis) HasCategory(name string) bool {
	for _, c := range a.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// InternationalAnalysis reports regions and estimated months abroad or cross-border
type InternationalAnalysis struct {
	Regions  []string `json:"regions"`
	Months   int      `json:"months"`
	Evidence []string `json:"evidence"`
}

// DetectorFailure records a detector that failed and was replaced by its neutral result
type DetectorFailure struct {
	Detector string `json:"detector"`
	Error    string `json:"error"`
}

// Analysis bundles the output of every detector for one profile
type Analysis struct {
	Metrics       MetricsAnalysis       `json:"metrics"`
	Verbs         VerbsAnalysis         `json:"verbs"`
	Length        LengthAnalysis        `json:"length"`
	Keywords      KeywordsAnalysis      `json:"keywords"`
	Duplicates    DuplicatesAnalysis    `json:"duplicates"`
	Consistency   ConsistencyAnalysis   `json:"consistency"`
	Academics     AcademicsAnalysis     `json:"academics"`
	Leadership    LeadershipAnalysis    `json:"leadership"`
	International InternationalAnalysis `json:"international"`
	Failures      []DetectorFailure     `json:"failures,omitempty"`
}
