package timex

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	var cfg struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1m30s","b":2000000000}`), &cfg))
	assert.Equal(t, 90*time.Second, cfg.A.Duration)
	assert.Equal(t, 2*time.Second, cfg.B.Duration)

	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 30 * time.Second})
	require.NoError(t, err)
	assert.JSONEq(t, `"30s"`, string(b))
}

func TestFormatISO_RoundTripAndUTC(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	in := time.Date(2025, 3, 4, 10, 11, 12, 1500, loc)

	s := FormatISO(in)
	assert.Equal(t, "2025-03-04T07:11:12.000001500Z", s)

	out, err := ParseISO(s)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())
}

func TestFormatISO_LexicalOrderIsTimeOrder(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		base.Add(time.Second),
		base.Add(1500 * time.Millisecond),
		base,
		base.Add(10 * time.Nanosecond),
		base.Add(24 * time.Hour),
	}
	formatted := make([]string, len(times))
	for i, tt := range times {
		formatted[i] = FormatISO(tt)
	}
	sort.Strings(formatted)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	for i := range times {
		assert.Equal(t, FormatISO(times[i]), formatted[i])
	}
}

func TestParseISO_AcceptsRFC3339AndRejectsGarbage(t *testing.T) {
	got, err := ParseISO("2025-01-02T03:04:05+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 1, 4, 5, 0, time.UTC), got)

	_, err = ParseISO("yesterday")
	assert.Error(t, err)
}
