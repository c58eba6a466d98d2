package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2099-04-30")
	require.NoError(t, err)
	require.Equal(t, "2099-04-30", d.String())

	for _, bad := range []string{"1111-22-33", "2099-01-11T00:00", "", "test"} {
		_, err := ParseDate(bad)
		require.Error(t, err, bad)
	}
}

func TestDateOf_UsesInstantLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 2024-05-01 20:00 UTC is already 2024-05-02 in Seoul.
	instant := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC).In(seoul)
	require.Equal(t, "2024-05-02", DateOf(instant).String())
}

func TestDate_Comparisons(t *testing.T) {
	a := NewDate(2024, time.May, 1)
	b := a.AddDays(1)
	require.True(t, a.Before(b))
	require.True(t, b.After(a))
	require.True(t, a.Equal(NewDate(2024, time.May, 1)))
	require.Equal(t, "2024-04-30", a.AddDays(-1).String())
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "2024-05-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-06-02")))
	require.Equal(t, "2024-06-02", d.String())

	require.NoError(t, d.Scan("2024-07-03 00:00:00"))
	require.Equal(t, "2024-07-03", d.String())

	require.Error(t, d.Scan(12))
}
