package filedate

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Granularity records how much of the date was actually present in the
// filename. Missing components default to 1 (January, first of the month).
type Granularity string

const (
	Full      Granularity = "full"
	YearMonth Granularity = "year-month"
	YearOnly  Granularity = "year"
)

// Date is a calendar date inferred from a filename.
type Date struct {
	Year        int
	Month       time.Month
	Day         int
	Granularity Granularity
}

// Time returns the date at midnight in loc. If loc is nil, time.Local is used.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Years outside this range are never treated as dates, so stray 4-digit runs
// (resolutions, serial numbers) don't get mistaken for years.
const (
	minYear = 1900
	maxYear = 2100
)

var (
	reFullDate  = regexp.MustCompile(`(\d{4})[.-](\d{1,2})[.-](\d{1,2})`)
	reYearMonth = regexp.MustCompile(`(\d{4})[.-](\d{1,2})`)
	reYear      = regexp.MustCompile(`\d{4}`)
)

// Infer extracts a date from a filename. The extension is stripped first and
// the remainder is matched against three tiers in strict priority order:
// full date (YYYY.MM.DD or YYYY-MM-DD, separators may mix), year-month, and
// bare year. Only the first match of the first matching tier is considered;
// a match that fails validation (year out of range, day 30 in February, ...)
// yields no date at all rather than falling through to a coarser tier.
func Infer(filename string) (Date, bool) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	if m := reFullDate.FindStringSubmatch(base); m != nil {
		year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if year < minYear || year > maxYear || month < 1 || month > 12 || day < 1 || day > 31 {
			return Date{}, false
		}
		if day > daysIn(year, time.Month(month)) {
			return Date{}, false
		}
		return Date{Year: year, Month: time.Month(month), Day: day, Granularity: Full}, true
	}

	if m := reYearMonth.FindStringSubmatchIndex(base); m != nil {
		monthStr := base[m[4]:m[5]]
		// A month immediately followed by another separator+digit belongs to
		// a full date, which the tier above owns. A two-digit month in that
		// position shrinks to its first digit; a one-digit month never gets
		// here, since the full-date tier would already have matched.
		if len(monthStr) == 2 && followedBySepDigit(base, m[5]) {
			monthStr = monthStr[:1]
		}
		year, month := atoi(base[m[2]:m[3]]), atoi(monthStr)
		if year < minYear || year > maxYear || month < 1 || month > 12 {
			return Date{}, false
		}
		return Date{Year: year, Month: time.Month(month), Day: 1, Granularity: YearMonth}, true
	}

	// By this tier no 4-digit run can be followed by separator+digit (the
	// year-month tier would have claimed it), so the first run is the one.
	if loc := reYear.FindStringIndex(base); loc != nil {
		year := atoi(base[loc[0]:loc[1]])
		if year < minYear || year > maxYear {
			return Date{}, false
		}
		return Date{Year: year, Month: time.January, Day: 1, Granularity: YearOnly}, true
	}

	return Date{}, false
}

func followedBySepDigit(s string, i int) bool {
	if i+2 > len(s) {
		return false
	}
	return (s[i] == '.' || s[i] == '-') && s[i+1] >= '0' && s[i+1] <= '9'
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
