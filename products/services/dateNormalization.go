package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const expiryDateLayout = "2006-01-02"

// AcceptedDateFormats is quoted in row failure messages when an expiry date
// cannot be normalized.
const AcceptedDateFormats = "YYYY-MM-DD, DD/MM/YYYY, MM/DD/YYYY, a spreadsheet date serial, or a written date such as 3 Dec 2025"

var (
	dotsAndSpaces  = regexp.MustCompile(`[.\s]+`)
	repeatedSlash  = regexp.MustCompile(`/{2,}`)
	dateSeparators = regexp.MustCompile(`[-/]`)
)

// generic calendar layouts tried after the numeric forms. The separator
// normalization has already turned whitespace into hyphens by the time these
// run, so the hyphenated variants cover inputs like "3 Dec 2025".
var writtenDateLayouts = []string{
	"2-Jan-2006",
	"2-January-2006",
	"Jan-2-2006",
	"January-2-2006",
	"Jan-2,-2006",
	"January-2,-2006",
	"2006-Jan-2",
	time.RFC3339,
}

// NormalizeExpiryDate converts the heterogeneous date representations found
// in import files into zero-padded YYYY-MM-DD. The branches are tried in a
// fixed priority order: numeric spreadsheet serial, native date value, then
// string parsing. An empty result means normalization failed.
func NormalizeExpiryDate(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(expiryDateLayout)
	case float64:
		return serialToDate(v)
	case float32:
		return serialToDate(float64(v))
	case int:
		return serialToDate(float64(v))
	case int64:
		return serialToDate(float64(v))
	case string:
		return normalizeDateString(v)
	default:
		return ""
	}
}

// serialToDate interprets a spreadsheet date serial with the 1900 epoch.
// Day 1 is 1900-01-01 and a 2-day correction absorbs the spreadsheet
// leap-year quirk, so serial 2 maps back onto 1900-01-01.
func serialToDate(serial float64) string {
	if serial <= 0 {
		return ""
	}
	base := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(serial)-2).Format(expiryDateLayout)
}

func normalizeDateString(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// Periods and runs of whitespace become hyphens; repeated slashes collapse.
	s = dotsAndSpaces.ReplaceAllString(s, "-")
	s = repeatedSlash.ReplaceAllString(s, "/")

	if result := parseNumericDate(s); result != "" {
		return result
	}

	for _, layout := range writtenDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(expiryDateLayout)
		}
	}

	return ""
}

// parseNumericDate handles the three-numeric-group forms. Year-first wins
// when the leading group is four digits wide or too large to be a day.
// Otherwise the day/month order is disambiguated: a leading group above 12
// is unambiguously the day; a second group above 12 forces month-first;
// anything else defaults to day-first.
func parseNumericDate(s string) string {
	parts := dateSeparators.Split(s, -1)
	if len(parts) != 3 {
		return ""
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return ""
		}
		nums[i] = n
	}

	var year, month, day int
	switch {
	case len(parts[0]) == 4 || nums[0] > 31:
		year, month, day = nums[0], nums[1], nums[2]
	case len(parts[2]) != 4:
		return ""
	case nums[0] > 12:
		day, month, year = nums[0], nums[1], nums[2]
	case nums[1] > 12:
		month, day, year = nums[0], nums[1], nums[2]
	default:
		day, month, year = nums[0], nums[1], nums[2]
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		// time.Date silently rolls invalid dates like Feb 30 forward.
		return ""
	}

	return t.Format(expiryDateLayout)
}
