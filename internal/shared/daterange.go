package shared

import (
	"regexp"
	"time"
)

// RangeSource identifies which filter resolved the reporting window.
type RangeSource string

const (
	// RangeSourceMonth means an explicit year-month token was applied.
	RangeSourceMonth RangeSource = "month"
	// RangeSourceExplicit means a start/end date pair was applied.
	RangeSourceExplicit RangeSource = "explicit"
	// RangeSourceDefault means the current calendar month fallback was applied.
	RangeSourceDefault RangeSource = "default"
	// RangeSourceAll means the unbounded all-time window was requested.
	RangeSourceAll RangeSource = "all"
)

var monthTokenRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// RangeQuery carries the optional date filters as received from the caller.
// AllTime short-circuits the date filters entirely.
type RangeQuery struct {
	Month     string
	DateStart string
	DateEnd   string
	AllTime   bool
}

// DateRange is a half-open [Start, End) reporting window. End is the first
// excluded instant. Days is the number of calendar days the window spans.
type DateRange struct {
	Start  time.Time
	End    time.Time
	Days   int
	Source RangeSource
}

// Contains reports whether t falls inside the half-open window.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

type rangeStrategy func(q RangeQuery, now time.Time) (DateRange, bool)

// rangeStrategies is evaluated in order; the first match wins. The priority
// (month over explicit pair over current-month default) is fixed; the
// all-time strategy only fires on the explicit AllTime flag.
var rangeStrategies = []rangeStrategy{
	resolveAllTime,
	resolveMonthToken,
	resolveExplicitPair,
	resolveCurrentMonth,
}

// ResolveDateRange turns the optional filters into one canonical window.
//
// A malformed month token is treated as absent. A pair with only one side
// present falls back to the current-month default and additionally surfaces
// ErrPartialDateRange so the caller can flag it; the returned range is still
// usable.
func ResolveDateRange(q RangeQuery, now time.Time) (DateRange, error) {
	for _, strategy := range rangeStrategies {
		if resolved, ok := strategy(q, now); ok {
			return resolved, partialRangeError(q, resolved)
		}
	}
	// resolveCurrentMonth always matches; not reached.
	resolved, _ := resolveCurrentMonth(q, now)
	return resolved, nil
}

func partialRangeError(q RangeQuery, resolved DateRange) error {
	if resolved.Source != RangeSourceDefault {
		return nil
	}
	if (q.DateStart == "") != (q.DateEnd == "") {
		return ErrPartialDateRange
	}
	return nil
}

// allTimeEpoch bounds the all-time window; no sale predates it.
var allTimeEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

func resolveAllTime(q RangeQuery, now time.Time) (DateRange, bool) {
	if !q.AllTime {
		return DateRange{}, false
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return DateRange{
		Start:  allTimeEpoch,
		End:    end,
		Days:   int(end.Sub(allTimeEpoch).Hours() / 24),
		Source: RangeSourceAll,
	}, true
}

func resolveMonthToken(q RangeQuery, _ time.Time) (DateRange, bool) {
	if !monthTokenRegex.MatchString(q.Month) {
		return DateRange{}, false
	}
	start, err := time.ParseInLocation("2006-01", q.Month, time.UTC)
	if err != nil {
		return DateRange{}, false
	}
	return monthRange(start, RangeSourceMonth), true
}

func resolveExplicitPair(q RangeQuery, _ time.Time) (DateRange, bool) {
	if q.DateStart == "" || q.DateEnd == "" {
		return DateRange{}, false
	}
	start, err := time.ParseInLocation("2006-01-02", q.DateStart, time.UTC)
	if err != nil {
		return DateRange{}, false
	}
	last, err := time.ParseInLocation("2006-01-02", q.DateEnd, time.UTC)
	if err != nil {
		return DateRange{}, false
	}
	if last.Before(start) {
		return DateRange{}, false
	}
	end := last.AddDate(0, 0, 1)
	days := int(end.Sub(start).Hours() / 24)
	return DateRange{Start: start, End: end, Days: days, Source: RangeSourceExplicit}, true
}

func resolveCurrentMonth(_ RangeQuery, now time.Time) (DateRange, bool) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return monthRange(start, RangeSourceDefault), true
}

func monthRange(firstDay time.Time, source RangeSource) DateRange {
	end := firstDay.AddDate(0, 1, 0)
	return DateRange{
		Start:  firstDay,
		End:    end,
		Days:   int(end.Sub(firstDay).Hours() / 24),
		Source: source,
	}
}

// PriorMonthRange returns the calendar month immediately preceding the
// window's start, used by period-over-period comparisons.
func PriorMonthRange(r DateRange) DateRange {
	start := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return monthRange(start, RangeSourceMonth)
}
