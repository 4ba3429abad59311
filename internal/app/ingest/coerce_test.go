package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{name: "plain integer", input: "443", want: intPtr(443)},
		{name: "float rendering truncates", input: "443.0", want: intPtr(443)},
		{name: "whitespace trimmed", input: " 22 ", want: intPtr(22)},
		{name: "blank", input: "", want: nil},
		{name: "garbage", input: "tcp", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseInt(tt.input))
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *bool
	}{
		{name: "true word", input: "true", want: boolPtr(true)},
		{name: "yes uppercase", input: "YES", want: boolPtr(true)},
		{name: "one", input: "1", want: boolPtr(true)},
		{name: "false letter", input: "f", want: boolPtr(false)},
		{name: "zero", input: "0", want: boolPtr(false)},
		{name: "blank", input: "", want: nil},
		{name: "unknown word", input: "maybe", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBool(tt.input))
		})
	}
}

func TestParseFloat(t *testing.T) {
	got := parseFloat("9.8")
	require.NotNil(t, got)
	assert.InDelta(t, 9.8, *got, 0.0001)

	assert.Nil(t, parseFloat(""))
	assert.Nil(t, parseFloat("high"))
}

func TestParseISOTime(t *testing.T) {
	got := parseISOTime("2025-03-10T14:30:00Z")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), got.UTC())

	got = parseISOTime("2025-03-10")
	require.NotNil(t, got)
	assert.Equal(t, 2025, got.Year())

	assert.Nil(t, parseISOTime(""))
	assert.Nil(t, parseISOTime("last tuesday"))
}

func TestParseWebTime(t *testing.T) {
	got := parseWebTime("15 Mar 2025 7:30PM GMT")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 15, 19, 30, 0, 0, time.UTC), *got)

	assert.Nil(t, parseWebTime("2025-03-15"))
	assert.Nil(t, parseWebTime(""))
}

func TestOptString(t *testing.T) {
	assert.Nil(t, optString("  "))

	got := optString(" web-01 ")
	require.NotNil(t, got)
	assert.Equal(t, "web-01", *got)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
