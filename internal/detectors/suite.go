package detectors

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// Input is everything a suite run reads. It is shared read-only by all detectors.
type Input struct {
	Profile *types.NormalizedProfile
	Track   types.Track
	Lexicon *lexicon.Lexicon
	Now     time.Time
}

// detector writes its result into its own field of the Analysis
type detector struct {
	name Name
	run  func(in Input, out *types.Analysis)
}

var suite = []detector{
	{NameMetrics, func(in Input, out *types.Analysis) { out.Metrics = AnalyzeMetrics(in.Profile, in.Lexicon) }},
	{NameVerbs, func(in Input, out *types.Analysis) { out.Verbs = AnalyzeVerbs(in.Profile, in.Lexicon) }},
	{NameLength, func(in Input, out *types.Analysis) { out.Length = AnalyzeLength(in.Profile, in.Lexicon) }},
	{NameKeywords, func(in Input, out *types.Analysis) {
		out.Keywords = AnalyzeKeywords(in.Profile, in.Track, in.Lexicon)
	}},
	{NameDuplicates, func(in Input, out *types.Analysis) { out.Duplicates = AnalyzeDuplicates(in.Profile, in.Lexicon) }},
	{NameConsistency, func(in Input, out *types.Analysis) { out.Consistency = AnalyzeConsistency(in.Profile, in.Now) }},
	{NameAcademics, func(in Input, out *types.Analysis) { out.Academics = AnalyzeAcademics(in.Profile, in.Lexicon) }},
	{NameLeadership, func(in Input, out *types.Analysis) { out.Leadership = AnalyzeLeadership(in.Profile, in.Lexicon) }},
	{NameInternational, func(in Input, out *types.Analysis) {
		out.International = AnalyzeInternational(in.Profile, in.Lexicon)
	}},
}

// RunSuite runs every detector concurrently. A detector that panics leaves
// its neutral result in place and is reported in Analysis.Failures; the
// others are unaffected. A nil Lexicon uses the embedded default and a zero
// Now uses the current time.
func RunSuite(in Input) types.Analysis {
	if in.Lexicon == nil {
		in.Lexicon = lexicon.MustDefault()
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	if in.Profile == nil {
		in.Profile = types.NewNormalizedProfile()
	}
	return runDetectors(in, suite)
}

func runDetectors(in Input, detectors []detector) types.Analysis {
	var out types.Analysis
	failures := make([]*types.DetectorFailure, len(detectors))

	var g errgroup.Group
	for i, d := range detectors {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					failures[i] = &types.DetectorFailure{Detector: string(d.name), Error: fmt.Sprint(r)}
				}
			}()
			d.run(in, &out)
			return nil
		})
	}
	_ = g.Wait()

	for _, f := range failures {
		if f != nil {
			out.Failures = append(out.Failures, *f)
		}
	}
	fillNeutral(&out)
	return out
}

// fillNeutral replaces nil slices left by failed detectors so the analysis
// serializes the same shape either way
func fillNeutral(a *types.Analysis) {
	if a.Metrics.Bullets == nil {
		a.Metrics.Bullets = []types.BulletMetrics{}
	}
	if a.Metrics.SignalsFired == nil {
		a.Metrics.SignalsFired = []string{}
	}
	if a.Verbs.Bullets == nil {
		a.Verbs.Bullets = []types.BulletVerbs{}
	}
	if a.Length.Bullets == nil {
		a.Length.Bullets = []types.BulletLength{}
	}
	if a.Length.Roles == nil {
		a.Length.Roles = []types.RoleLength{}
	}
	if a.Keywords.Want == nil {
		a.Keywords.Want = []string{}
	}
	if a.Keywords.Present == nil {
		a.Keywords.Present = []string{}
	}
	if a.Keywords.Missing == nil {
		a.Keywords.Missing = []string{}
	}
	if a.Keywords.Roles == nil {
		a.Keywords.Roles = []types.RoleKeywords{}
	}
	if a.Duplicates.Pairs == nil {
		a.Duplicates.Pairs = []types.DuplicatePair{}
	}
	if a.Consistency.Issues == nil {
		a.Consistency.Issues = []types.ConsistencyIssue{}
	}
	if a.Academics.Entries == nil {
		a.Academics.Entries = []types.AcademicMatch{}
	}
	if a.Leadership.Categories == nil {
		a.Leadership.Categories = []string{}
	}
	if a.Leadership.Evidence == nil {
		a.Leadership.Evidence = []string{}
	}
	if a.International.Regions == nil {
		a.International.Regions = []string{}
	}
	if a.International.Evidence == nil {
		a.International.Evidence = []string{}
	}
}
