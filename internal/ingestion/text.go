// Package ingestion turns raw résumé or profile text (plain, markdown or HTML)
// into the normalized plain text consumed by the parsers.
package ingestion

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	codeFence      = regexp.MustCompile("(?s)```.*?```")
	strayFence     = regexp.MustCompile("(?m)^\\s*```.*$")
	inlineCode     = regexp.MustCompile("`([^`\n]*)`")
	mdImage        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLink         = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	mdHeading      = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]*`)
	mdRule         = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,}|={3,})[ \t]*$`)
	mdQuote        = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	mdEmphasis     = regexp.MustCompile(`\*\*|__|~~`)
	urlPattern     = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>()]+`)
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	handlePattern  = regexp.MustCompile(`(^|[\s(])@[A-Za-z0-9_]{2,}`)
	spaceRun       = regexp.MustCompile(`[ \t]+`)
	blankLineRun   = regexp.MustCompile(`\n{3,}`)
	noiseHeading   = regexp.MustCompile(`(?i)^(?:my\s+)?(?:github\s+stats|stats|github\s+trophies|trophies|top\s+languages|most\s+used\s+languages|visitors?(?:\s+count)?|profile\s+views|(?:github\s+)?streak(?:\s+stats)?|contribution\s+graph)\s*:?$`)
	invisibleRunes = strings.NewReplacer("\u200b", "", "\u200c", "", "\u200d", "", "\ufeff", "")
	spaceRunes     = strings.NewReplacer("\u00a0", " ", "\u2007", " ", "\u202f", " ", "\t", " ")
)

// Normalize cleans raw text for parsing. It strips markup and contact noise,
// decodes entities, prunes auto-generated profile blocks and collapses
// whitespace while keeping line structure. Normalize is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := raw
	for {
		next := normalizeOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

// normalizeOnce applies a single cleaning pass. Every step only removes or
// shortens content, so repeated passes converge.
func normalizeOnce(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	content = stripHTML(content)
	content = stripCode(content)
	content = inlineMarkdown(content)
	content = removeContactNoise(content)

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}
	cleaned = pruneNoiseBlocks(cleaned)

	result := strings.Join(cleaned, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// stripCode removes fenced code blocks entirely and unwraps inline code
func stripCode(content string) string {
	content = codeFence.ReplaceAllString(content, "")
	content = strayFence.ReplaceAllString(content, "")
	return inlineCode.ReplaceAllString(content, "$1")
}

// inlineMarkdown replaces links and images with their text and drops
// heading, rule, quote and emphasis markers
func inlineMarkdown(content string) string {
	content = mdImage.ReplaceAllString(content, "$1")
	content = mdLink.ReplaceAllString(content, "$1")
	content = mdRule.ReplaceAllString(content, "")
	content = mdHeading.ReplaceAllString(content, "")
	content = mdQuote.ReplaceAllString(content, "")
	return mdEmphasis.ReplaceAllString(content, "")
}

// removeContactNoise drops URLs, email addresses and @handles
func removeContactNoise(content string) string {
	content = urlPattern.ReplaceAllString(content, "")
	content = emailPattern.ReplaceAllString(content, "")
	return handlePattern.ReplaceAllString(content, "$1")
}

// cleanLine strips control characters and collapses whitespace in a single line
func cleanLine(line string) string {
	line = invisibleRunes.Replace(line)
	line = spaceRunes.Replace(line)
	line = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, line)
	line = spaceRun.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// pruneNoiseBlocks drops auto-generated profile sections (stats cards,
// trophies, visitor counters): the heading line and every line after it up
// to the next blank line.
func pruneNoiseBlocks(lines []string) []string {
	out := make([]string, 0, len(lines))
	skipping := false
	for _, line := range lines {
		if skipping {
			if line == "" {
				skipping = false
				out = append(out, line)
			}
			continue
		}
		if noiseHeading.MatchString(line) {
			skipping = true
			continue
		}
		out = append(out, line)
	}
	return out
}

// decodeEntities decodes HTML character references such as &amp; and &#39;
// until none remain, so "&amp;amp;lt;" ends up as "<"
func decodeEntities(content string) string {
	for strings.Contains(content, "&") {
		next := html.UnescapeString(content)
		if next == content {
			break
		}
		content = next
	}
	return content
}

// IngestFromFile reads a résumé file, normalizes it, and returns the text with metadata
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	normalized := Normalize(string(content))
	metadata := NewMetadata(normalized, path)

	return normalized, metadata, nil
}

// WriteOutput writes the normalized text and metadata to output files
func WriteOutput(outDir string, normalized string, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	textPath := filepath.Join(outDir, "profile.normalized.txt")
	if err := os.WriteFile(textPath, []byte(normalized), 0644); err != nil {
		return fmt.Errorf("failed to write normalized text file: %w", err)
	}

	metaPath := filepath.Join(outDir, "profile.meta.json")
	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
