package parsing

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/profile-evaluator/internal/llm"
)

// Stage reports how far DecodeWithRepair had to go
type Stage string

// Repair stages
const (
	StageParsed   Stage = "parsed"
	StageRepaired Stage = "repaired"
	StageFailed   Stage = "failed"
)

// RepairResult is the outcome of decoding a model reply. JSON holds the
// syntactically valid document; Err is the original syntax error when Stage
// is StageFailed.
type RepairResult struct {
	Stage Stage
	JSON  []byte
	Err   error
}

var smartQuotes = strings.NewReplacer(
	"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u201f", `"`, "\u2033", `"`,
	"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'", "\u2032", "'",
)

// DecodeWithRepair extracts a JSON document from a model reply. The first
// attempt only strips code fences. If that is not valid JSON, exactly one
// repair pass runs: smart quotes are normalized, prose around the object is
// dropped and trailing commas are removed.
func DecodeWithRepair(raw string) RepairResult {
	first := stripFences(raw)
	err := syntaxError(first)
	if err == nil {
		return RepairResult{Stage: StageParsed, JSON: []byte(first)}
	}

	if repaired := repairJSON(first); repaired != "" && syntaxError(repaired) == nil {
		return RepairResult{Stage: StageRepaired, JSON: []byte(repaired)}
	}
	return RepairResult{Stage: StageFailed, Err: err}
}

// syntaxError reports why text is not a single JSON object
func syntaxError(text string) error {
	var doc map[string]json.RawMessage
	return json.Unmarshal([]byte(text), &doc)
}

// stripFences removes a surrounding markdown code fence
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 && !strings.ContainsAny(text[:idx], "{[") {
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// repairJSON applies the single best-effort repair pass. It returns "" when
// the text has no object at all.
func repairJSON(text string) string {
	text = smartQuotes.Replace(text)

	// first balanced object; otherwise the outermost brace span
	object := llm.CleanJSONBlock(text)
	if !strings.HasPrefix(object, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return ""
		}
		object = text[start : end+1]
	}
	return removeTrailingCommas(object)
}

// removeTrailingCommas drops commas that directly precede a closing brace or
// bracket, leaving string contents untouched
func removeTrailingCommas(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			sb.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
		}
		if ch == ',' {
			j := i + 1
			for j < len(text) && strings.IndexByte(" \t\r\n", text[j]) >= 0 {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				continue
			}
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}
