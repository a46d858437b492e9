package detectors

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// Signal names reported in MetricsAnalysis.SignalsFired
const (
	SignalBigPercent = "big_percent"
	SignalLargeMoney = "large_money"
	SignalLaunch     = "launch"
)

const (
	moneyMagnitude = `k|mn|m|million|bn|b|billion|lakhs?|lacs?|crores?|cr`
	currencyCodes  = `inr|usd|eur|gbp|sgd|aed|aud|cad|jpy|cny|hkd|chf`
	amount         = `(\d[\d,]*(?:\.\d+)?)`
)

var (
	anyDigit   = regexp.MustCompile(`\d`)
	pctValue   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:%|percent\b|pct\b|per\s+cent\b)`)
	multiplier = regexp.MustCompile(`(?i)(?:^|[^\w.])(\d+(?:\.\d+)?)\s?(?:x|×)(?:[^\pL\pN]|$)`)
	ratioValue = regexp.MustCompile(`(?i)\b\d+\s*(?::|/|out\s+of)\s*\d+\b`)
	timeValue  = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\+?\s*(?:ms|milliseconds?|seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?|wks?|months?|mos?|years?|yrs?|quarters?)\b`)

	deltaWords = regexp.MustCompile(`(?i)\b(?:increas|decreas|reduc|grew|grow|boost|improv|lower|doubl|tripl|halv|declin|rose|jump|accelerat|shrank|slash|cut|rais|expand|drop)\w*`)
	fromTo     = regexp.MustCompile(`(?i)\bfrom\s+\S*\d\S*\s+to\s+\S*\d`)

	prefixMoney = regexp.MustCompile(`(?i)(us\$|s\$|a\$|c\$|hk\$|\$|€|£|₹|¥|\brs\.?|\b(?:` + currencyCodes + `))\s?` +
		amount + `(?:\s*(` + moneyMagnitude + `)\b)?`)
	suffixMoney = regexp.MustCompile(`(?i)\b` + amount + `\s*(` + moneyMagnitude + `)?\s*\b(` + currencyCodes + `)\b`)
	indianMoney = regexp.MustCompile(`(?i)\b` + amount + `\s*(lakhs?|lacs?|crores?|cr)\b`)

	launchCount = regexp.MustCompile(`(?i)\blaunch(?:ed|ing)?\s+(?:over\s+|more\s+than\s+)?(\d+)\+?\s+(?:new\s+)?` +
		`(?:products?|features?|apps?|markets?|services?|brands?|campaigns?|initiatives?|offerings?|stores?|skus?|cities|countries|programs?|categories)`)
	launchVerb = regexp.MustCompile(`(?i)\b(?:launch(?:ed|es|ing)?|shipped|rolled\s+out|released|introduced|debuted|went\s+live|go-live)\b`)
)

var currencySymbols = map[string]string{
	"$": "USD", "us$": "USD", "s$": "SGD", "a$": "AUD", "c$": "CAD", "hk$": "HKD",
	"€": "EUR", "£": "GBP", "₹": "INR", "¥": "JPY", "rs": "INR", "rs.": "INR",
}

var magnitudes = map[string]float64{
	"k": 1e3, "m": 1e6, "mn": 1e6, "million": 1e6, "b": 1e9, "bn": 1e9, "billion": 1e9,
	"lakh": 1e5, "lakhs": 1e5, "lac": 1e5, "lacs": 1e5, "crore": 1e7, "crores": 1e7, "cr": 1e7,
}

// AnalyzeMetrics measures quantified impact per bullet: numbers, unit classes,
// delta language, percentages, money normalized to USD and launches.
func AnalyzeMetrics(profile *types.NormalizedProfile, lex *lexicon.Lexicon) types.MetricsAnalysis {
	views := bullets(profile)
	result := types.MetricsAnalysis{
		Bullets:      make([]types.BulletMetrics, 0, len(views)),
		SignalsFired: []string{},
	}

	withNumbers := 0
	for _, v := range views {
		m := bulletMetrics(v, lex)
		if m.HasNumber {
			withNumbers++
		}
		for _, pct := range m.Percentages {
			result.MaxPct = math.Max(result.MaxPct, pct)
		}
		for _, money := range m.Money {
			result.MaxMoney = math.Max(result.MaxMoney, money.Baseline)
		}
		result.Launches += m.Launches
		result.Bullets = append(result.Bullets, m)
	}

	if len(views) == 0 {
		return result
	}

	result.Density = share(withNumbers, len(views))
	if result.MaxPct >= lex.Thresholds.BigPercent {
		result.SignalsFired = append(result.SignalsFired, SignalBigPercent)
	}
	if result.MaxMoney >= lex.Thresholds.LargeMoneyBaseline {
		result.SignalsFired = append(result.SignalsFired, SignalLargeMoney)
	}
	if result.Launches >= 1 {
		result.SignalsFired = append(result.SignalsFired, SignalLaunch)
	}
	result.Confidence = math.Min(1, float64(len(result.SignalsFired))/3+0.1)
	return result
}

func bulletMetrics(v bulletView, lex *lexicon.Lexicon) types.BulletMetrics {
	text := v.bullet.Text
	m := types.BulletMetrics{
		BulletRef: v.ref,
		HasNumber: anyDigit.MatchString(text),
		Units:     []string{},
		HasDelta:  deltaWords.MatchString(text) || fromTo.MatchString(text),
	}

	// Each matched span is blanked so a number is classified once
	rest := text
	hasPct, hasRatio, hasTime := false, false, false

	for _, sm := range pctValue.FindAllStringSubmatch(rest, -1) {
		if pct, err := strconv.ParseFloat(sm[1], 64); err == nil {
			m.Percentages = append(m.Percentages, pct)
			hasPct = true
		}
	}
	rest = maskSpans(rest, pctValue.FindAllStringIndex(rest, -1))

	for _, sm := range multiplier.FindAllStringSubmatch(rest, -1) {
		if n, err := strconv.ParseFloat(sm[1], 64); err == nil && n > 1 {
			m.Percentages = append(m.Percentages, (n-1)*100)
			hasRatio = true
		}
	}
	rest = maskSpans(rest, multiplier.FindAllStringIndex(rest, -1))

	m.Money, rest = extractMoney(rest, lex)

	if ratioValue.MatchString(rest) {
		hasRatio = true
		rest = maskSpans(rest, ratioValue.FindAllStringIndex(rest, -1))
	}
	if timeValue.MatchString(rest) {
		hasTime = true
		rest = maskSpans(rest, timeValue.FindAllStringIndex(rest, -1))
	}
	hasCount := anyDigit.MatchString(rest)

	if s := v.bullet.Metrics; s != nil {
		if s.Pct != nil {
			m.Percentages = append(m.Percentages, *s.Pct)
			hasPct = true
		}
		if s.Multiple != nil && *s.Multiple > 1 {
			m.Percentages = append(m.Percentages, (*s.Multiple-1)*100)
			hasRatio = true
		}
		if s.Value != nil {
			if s.Currency != "" {
				m.Money = append(m.Money, money(strings.ToUpper(s.Currency), *s.Value, lex))
			} else {
				hasCount = true
			}
		}
		m.HasNumber = m.HasNumber || s.Pct != nil || s.Multiple != nil || s.Value != nil
	}

	if hasPct {
		m.Units = append(m.Units, types.UnitPct)
	}
	if len(m.Money) > 0 {
		m.Units = append(m.Units, types.UnitCurrency)
	}
	if hasCount {
		m.Units = append(m.Units, types.UnitCount)
	}
	if hasTime {
		m.Units = append(m.Units, types.UnitTime)
	}
	if hasRatio {
		m.Units = append(m.Units, types.UnitRatio)
	}

	m.Launches = countLaunches(text)
	return m
}

// extractMoney finds currency amounts in symbol, code and lakh/crore forms and
// returns the text with those spans blanked
func extractMoney(text string, lex *lexicon.Lexicon) ([]types.MoneyMention, string) {
	var found []types.MoneyMention

	for _, sm := range prefixMoney.FindAllStringSubmatch(text, -1) {
		code := currencyCode(sm[1])
		if value, ok := parseAmount(sm[2], sm[3]); ok {
			found = append(found, money(code, value, lex))
		}
	}
	text = maskSpans(text, prefixMoney.FindAllStringIndex(text, -1))

	for _, sm := range suffixMoney.FindAllStringSubmatch(text, -1) {
		if value, ok := parseAmount(sm[1], sm[2]); ok {
			found = append(found, money(strings.ToUpper(sm[3]), value, lex))
		}
	}
	text = maskSpans(text, suffixMoney.FindAllStringIndex(text, -1))

	for _, sm := range indianMoney.FindAllStringSubmatch(text, -1) {
		if value, ok := parseAmount(sm[1], sm[2]); ok {
			found = append(found, money("INR", value, lex))
		}
	}
	text = maskSpans(text, indianMoney.FindAllStringIndex(text, -1))

	return found, text
}

func currencyCode(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if code, ok := currencySymbols[token]; ok {
		return code
	}
	return strings.ToUpper(token)
}

func parseAmount(digits, magnitude string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if mult, ok := magnitudes[strings.ToLower(magnitude)]; ok {
		value *= mult
	}
	return value, true
}

func money(code string, value float64, lex *lexicon.Lexicon) types.MoneyMention {
	rate, _ := lex.FXRate(code)
	return types.MoneyMention{Currency: code, Amount: value, Baseline: value * rate}
}

// countLaunches prefers explicit counts ("launched 6 products") and falls
// back to one launch when a launch verb appears
func countLaunches(text string) int {
	total := 0
	for _, sm := range launchCount.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(sm[1]); err == nil {
			total += n
		}
	}
	if total == 0 && launchVerb.MatchString(text) {
		return 1
	}
	return total
}

func maskSpans(text string, spans [][]int) string {
	if len(spans) == 0 {
		return text
	}
	b := []byte(text)
	for _, span := range spans {
		for i := span[0]; i < span[1]; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}
