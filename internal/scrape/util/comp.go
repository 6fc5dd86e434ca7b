package util

import (
	"regexp"
	"strconv"
	"strings"
)

// Pay types detected by ExtractAnnualComp.
const (
	PayTypeHourly = "hourly"
	PayTypeSalary = "salary"
)

// 40 hours x 52 weeks
const hoursPerYear = 2080

const (
	money  = `\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`
	spanTo = `\s*(?:-|–|—|to)\s*\$?\s*`
	unitHr = `\s*(?:/|per)?\s*(?:hr|hour|hourly)\b`
	unitYr = `\s*(?:/|per)?\s*(?:yr|year|annum|annually)\b`
)

var (
	reHourlyRange  = regexp.MustCompile(`(?i)` + money + spanTo + `([0-9][0-9,]*(?:\.[0-9]+)?)` + unitHr)
	reHourlySingle = regexp.MustCompile(`(?i)` + money + unitHr)
	reAnnualRange  = regexp.MustCompile(`(?i)` + money + spanTo + `([0-9][0-9,]*(?:\.[0-9]+)?)` + unitYr)
	reAnnualSingle = regexp.MustCompile(`(?i)` + money + unitYr)
	reBareType     = regexp.MustCompile(`(?i)\b(hourly|salary)\b`)
)

// ExtractAnnualComp scans free text for compensation figures and returns
// annualized bounds plus the detected pay type. Patterns are tried in
// priority order: hourly range, single hourly, annual range, single annual,
// then a bare "hourly"/"salary" keyword with no figure. Hourly rates are
// annualized at 2080 hours. Nil bounds mean no figure was found; an empty
// pay type means nothing matched at all.
func ExtractAnnualComp(text string) (min, max *float64, payType string) {
	if text == "" {
		return nil, nil, ""
	}

	if m := reHourlyRange.FindStringSubmatch(text); m != nil {
		lo := parseMoney(m[1]) * hoursPerYear
		hi := parseMoney(m[2]) * hoursPerYear
		return &lo, &hi, PayTypeHourly
	}
	if m := reHourlySingle.FindStringSubmatch(text); m != nil {
		lo := parseMoney(m[1]) * hoursPerYear
		return &lo, nil, PayTypeHourly
	}
	if m := reAnnualRange.FindStringSubmatch(text); m != nil {
		lo := parseMoney(m[1])
		hi := parseMoney(m[2])
		return &lo, &hi, PayTypeSalary
	}
	if m := reAnnualSingle.FindStringSubmatch(text); m != nil {
		lo := parseMoney(m[1])
		return &lo, nil, PayTypeSalary
	}
	if m := reBareType.FindStringSubmatch(text); m != nil {
		return nil, nil, strings.ToLower(m[1])
	}
	return nil, nil, ""
}

func parseMoney(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
