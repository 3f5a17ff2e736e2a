package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 17, 14, 30, 0, 0, time.UTC)

func TestResolveMonthToken(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{Month: "2024-03"}, testNow)
	require.NoError(t, err)
	require.Equal(t, RangeSourceMonth, r.Source)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), r.End)
	require.Equal(t, 31, r.Days)
}

func TestMonthTokenWinsOverExplicitPair(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{
		Month:     "2024-02",
		DateStart: "2024-03-10",
		DateEnd:   "2024-03-20",
	}, testNow)
	require.NoError(t, err)
	require.Equal(t, RangeSourceMonth, r.Source)
	require.Equal(t, 29, r.Days)
}

func TestResolveExplicitPair(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{DateStart: "2024-03-10", DateEnd: "2024-03-10"}, testNow)
	require.NoError(t, err)
	require.Equal(t, RangeSourceExplicit, r.Source)
	require.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), r.End)
	require.Equal(t, 1, r.Days)
}

func TestMalformedMonthFallsThrough(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{Month: "03/2024", DateStart: "2024-03-01", DateEnd: "2024-03-02"}, testNow)
	require.NoError(t, err)
	require.Equal(t, RangeSourceExplicit, r.Source)
	require.Equal(t, 2, r.Days)
}

func TestPartialPairFallsToDefaultWithSignal(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{DateStart: "2024-03-10"}, testNow)
	require.ErrorIs(t, err, ErrPartialDateRange)
	require.Equal(t, RangeSourceDefault, r.Source)
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, 31, r.Days)
}

func TestDefaultIsCurrentMonth(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{}, testNow)
	require.NoError(t, err)
	require.Equal(t, RangeSourceDefault, r.Source)
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), r.End)
}

func TestContainsIsHalfOpen(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{Month: "2024-03"}, testNow)
	require.NoError(t, err)
	require.True(t, r.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, r.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)))
	require.False(t, r.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPriorMonthRange(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{Month: "2024-03"}, testNow)
	require.NoError(t, err)
	prior := PriorMonthRange(r)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), prior.Start)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), prior.End)
	require.Equal(t, 29, prior.Days)
}

func TestAllTimeWinsOverOtherFilters(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{AllTime: true, Month: "2024-03"}, testNow)
	require.NoError(t, err)
	require.Equal(t, RangeSourceAll, r.Source)
	require.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC), r.End)
}

func TestEndBeforeStartFallsToDefault(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{DateStart: "2024-03-20", DateEnd: "2024-03-10"}, testNow)
	require.NoError(t, err)
	require.Equal(t, RangeSourceDefault, r.Source)
}
