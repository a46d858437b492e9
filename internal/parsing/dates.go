package parsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const datePoint = `(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+|\d{1,2}[/.-])?(?:19|20)\d{2}`

var (
	dateRange = regexp.MustCompile(`(?i)\(?\s*(` + datePoint + `)\s*(?:-|–|—|to|until|till)\s*(` + datePoint +
		`|present|current|now|ongoing|today|till\s+date|date)\s*\)?`)
	dateSingle = regexp.MustCompile(`(?i)\(?\s*(?:since\s+|from\s+)?(` + datePoint + `)\s*\)?`)
	dateParts  = regexp.MustCompile(`(?i)^(?:([a-z]+)\.?,?\s+|(\d{1,2})[/.-])?((?:19|20)\d{2})$`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// extractDates finds a date range (or a single date) in a header line. It
// returns the normalized start and end, and the line with the dates removed.
// An ongoing role has an empty end.
func extractDates(line string) (start, end, rest string, found bool) {
	if m := dateRange.FindStringSubmatchIndex(line); m != nil {
		start = normalizeDate(line[m[2]:m[3]])
		end = normalizeDate(line[m[4]:m[5]])
		rest = line[:m[0]] + " " + line[m[1]:]
		return start, end, rest, true
	}

	if m := dateSingle.FindStringSubmatchIndex(line); m != nil {
		start = normalizeDate(line[m[2]:m[3]])
		rest = line[:m[0]] + " " + line[m[1]:]
		if strings.Contains(strings.ToLower(line[m[0]:m[1]]), "since") {
			return start, "", rest, true
		}
		return start, start, rest, true
	}

	return "", "", line, false
}

// normalizeDate turns "Jan 2020", "01/2020" or "2020" into YYYY-MM or YYYY.
// Ongoing markers normalize to "".
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	m := dateParts.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}

	year := m[3]
	month := 0
	switch {
	case m[1] != "":
		name := strings.ToLower(m[1])
		if len(name) >= 3 {
			month = monthNumbers[name[:3]]
		}
	case m[2] != "":
		month, _ = strconv.Atoi(m[2])
	}

	if month < 1 || month > 12 {
		return year
	}
	return fmt.Sprintf("%s-%02d", year, month)
}
