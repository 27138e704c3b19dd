package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampAcceptsZSuffix(t *testing.T) {
	got, err := ParseTimestamp("2024-01-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestParseTimestampNormalizesOffsetsToUTC(t *testing.T) {
	plus, err := ParseTimestamp("2024-01-01T14:00:00+02:00")
	require.NoError(t, err)
	z, err := ParseTimestamp("2024-01-01T12:00:00Z")
	require.NoError(t, err)
	assert.True(t, plus.Equal(z))
	assert.Equal(t, time.UTC, plus.Location())
}

func TestParseTimestampNaiveReadAsUTC(t *testing.T) {
	got, err := ParseTimestamp("2024-01-01T12:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestParseTimestampFractionalSeconds(t *testing.T) {
	got, err := ParseTimestamp("2024-01-01T12:00:00.250Z")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, time.Duration(got.Nanosecond()))
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, ts := range []string{"", "not-a-time", "2024-13-01T00:00:00Z", "12:00:00"} {
		assert.False(t, ValidTimestamp(ts), "expected %q to be invalid", ts)
	}
}

func TestHasSyslogBothOrNeither(t *testing.T) {
	assert.False(t, TransformedRecord{}.HasSyslog())
	assert.True(t, TransformedRecord{SyslogSeverity: "ERROR", SyslogMsg: "down"}.HasSyslog())
}
