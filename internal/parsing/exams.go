package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/profile-evaluator/internal/types"
)

var (
	examScore  = regexp.MustCompile(`\b(GMAT|GRE|CAT|SAT|IELTS|TOEFL)\b[^A-Za-z\d\n]*((?:[A-Za-z]+[^A-Za-z\d\n]+){0,3}?)(\d{2,3}(?:\.\d+)?)\b`)
	targetWord = regexp.MustCompile(`(?i)\b(?:target(?:ing|ed)?|goal|aim(?:ing)?|planned|planning|expected|aspir(?:e|ing))\b`)
)

// maxTailTokens bounds how far after a score a target word still applies
const maxTailTokens = 4

// scoreTail returns the rest of the clause after a score: up to the next
// ",", ";" or ")" and at most maxTailTokens words. "GMAT 740 (target)" and
// "GMAT: 740 - target score" both carry their target word here.
func scoreTail(rest string) string {
	if i := strings.IndexAny(rest, ",;)"); i >= 0 {
		rest = rest[:i]
	}
	fields := strings.Fields(rest)
	if len(fields) > maxTailTokens {
		fields = fields[:maxTailTokens]
	}
	return strings.Join(fields, " ")
}

// extractTests scans every line for exam mentions. GMAT and GRE fill the
// typed fields; other exams are kept as a descriptor such as "CAT 99".
func extractTests(lines []string) *types.Tests {
	var tests types.Tests
	var descriptors []string

	for _, line := range lines {
		for _, loc := range examScore.FindAllStringSubmatchIndex(line, -1) {
			name := strings.ToUpper(line[loc[2]:loc[3]])
			window := line[loc[4]:loc[5]]
			score := line[loc[6]:loc[7]]

			switch types.TestType(name) {
			case types.TestGMAT, types.TestGRE:
				value, err := strconv.Atoi(strings.SplitN(score, ".", 2)[0])
				if err != nil {
					continue
				}
				if tests.Type != "" && tests.Type != types.TestType(name) {
					descriptors = append(descriptors, name+" "+score)
					continue
				}
				tests.Type = types.TestType(name)
				isTarget := targetWord.MatchString(window) ||
					targetWord.MatchString(line[:loc[0]]) ||
					targetWord.MatchString(scoreTail(line[loc[7]:]))
				switch {
				case isTarget && tests.Target == nil:
					tests.Target = &value
				case !isTarget && tests.Actual == nil:
					tests.Actual = &value
				}
			default:
				descriptors = append(descriptors, name+" "+score)
			}
		}
	}

	tests.Descriptor = strings.Join(descriptors, ", ")
	if tests.Type == "" && tests.Descriptor == "" {
		return nil
	}
	return &tests
}
