package types

// Track is the target post-MBA career track
type Track string

// Supported tracks
const (
	TrackProductManagement Track = "product_management"
	TrackConsulting        Track = "consulting"
	TrackFinance           Track = "finance"
	TrackTechnology        Track = "technology"
	TrackOperations        Track = "operations"
	TrackMarketing         Track = "marketing"
	TrackGeneralManagement Track = "general_management"
	TrackSocialImpact      Track = "social_impact"
)

// Persona is the applicant profile archetype used to pick scoring weights
type Persona string

// Supported personas
const (
	PersonaFullTime      Persona = "full_time"
	PersonaExecutive     Persona = "executive"
	PersonaDeferred      Persona = "deferred"
	PersonaSwitcher      Persona = "switcher"
	PersonaInternational Persona = "international"
	PersonaReapplicant   Persona = "reapplicant"
)

// Dimension names, also used as weight keys
const (
	DimAcademics             = "academics"
	DimTestReadiness         = "testReadiness"
	DimWorkImpact            = "workImpact"
	DimLeadership            = "leadership"
	DimExtracurriculars      = "extracurriculars"
	DimInternationalExposure = "internationalExposure"
)

// Dimensions lists every scored dimension in report order
var Dimensions = []string{
	DimAcademics,
	DimTestReadiness,
	DimWorkImpact,
	DimLeadership,
	DimExtracurriculars,
	DimInternationalExposure,
}

// Subscores holds the six dimension scores, each an integer in [0, 10]
type Subscores struct {
	Academics             int `json:"academics"`
	TestReadiness         int `json:"testReadiness"`
	WorkImpact            int `json:"workImpact"`
	Leadership            int `json:"leadership"`
	Extracurriculars      int `json:"extracurriculars"`
	InternationalExposure int `json:"internationalExposure"`
}

// Get returns the subscore for a dimension name
func (s Subscores) Get(dim string) int {
	switch dim {
	case DimAcademics:
		return s.Academics
	case DimTestReadiness:
		return s.TestReadiness
	case DimWorkImpact:
		return s.WorkImpact
	case DimLeadership:
		return s.Leadership
	case DimExtracurriculars:
		return s.Extracurriculars
	case DimInternationalExposure:
		return s.InternationalExposure
	}
	return 0
}

// Readiness is the banded overall readiness
type Readiness struct {
	Band  string  `json:"band"`
	Score float64 `json:"score"`
}

// BulletFix is a prioritized bullet with the reasons it needs work
type BulletFix struct {
	BulletRef
	Text    string   `json:"text"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Gaps holds prioritized improvement guidance
type Gaps struct {
	TopBulletsToFix   []BulletFix `json:"topBulletsToFix"`
	WeakestDimensions []string    `json:"weakestDimensions"`
	Next6Weeks        []string    `json:"next6Weeks"`
	Next90Days        []string    `json:"next90Days"`
	EssayAngles       []string    `json:"essayAngles"`
}

// Trace records which rules fired and the key signals behind a score
type Trace struct {
	RulesFired           []RuleFired        `json:"rulesFired"`
	ParserSource         string             `json:"parserSource,omitempty"`
	ParserStage          string             `json:"parserStage,omitempty"`
	Density              float64            `json:"density"`
	Coverage             float64            `json:"coverage"`
	LongBulletShare      float64            `json:"longBulletShare"`
	MetricsConfidence    float64            `json:"metricsConfidence"`
	AcademicTier         int                `json:"academicTier"`
	LeadershipCategories []string           `json:"leadershipCategories"`
	Weights              map[string]float64 `json:"weights"`
	DetectorFailures     []DetectorFailure  `json:"detectorFailures,omitempty"`
}

// RuleFired identifies a scoring rule and a short human summary
type RuleFired struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// EvaluationOutput is the full, persisted result of an evaluation
type EvaluationOutput struct {
	Version    string    `json:"version"`
	Persona    Persona   `json:"persona"`
	Track      Track     `json:"track"`
	Readiness  Readiness `json:"readiness"`
	Dimensions Subscores `json:"dimensions"`
	Gaps       Gaps      `json:"gaps"`
	Trace      Trace     `json:"trace"`
}

// AnalyzeOutput is the lighter-weight bullet-quality report
type AnalyzeOutput struct {
	Metrics         MetricsAnalysis     `json:"metrics"`
	Verbs           VerbsAnalysis       `json:"verbs"`
	Length          LengthAnalysis      `json:"length"`
	Keywords        KeywordsAnalysis    `json:"keywords"`
	Duplicates      DuplicatesAnalysis  `json:"duplicates"`
	Consistency     ConsistencyAnalysis `json:"consistency"`
	TopBulletsToFix []BulletFix         `json:"topBulletsToFix"`
}
