package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWrapLikePattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain term", input: "apache", want: "%apache%"},
		{name: "escapes percent", input: "100%", want: `%100\%%`},
		{name: "escapes underscore", input: "my_host", want: `%my\_host%`},
		{name: "escapes backslash", input: `a\b`, want: `%a\\b%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapLikePattern(tt.input))
		})
	}
}

func TestNullHelpers(t *testing.T) {
	t.Run("nullString round trip", func(t *testing.T) {
		s := "value"
		ns := nullString(&s)
		assert.True(t, ns.Valid)
		assert.Equal(t, &s, nullStringValue(ns))

		assert.False(t, nullString(nil).Valid)
		assert.Nil(t, nullStringValue(nullString(nil)))
	})

	t.Run("nullInt round trip", func(t *testing.T) {
		i := 42
		ni := nullInt(&i)
		assert.True(t, ni.Valid)
		assert.Equal(t, &i, nullIntValue(ni))

		assert.False(t, nullInt(nil).Valid)
		assert.Nil(t, nullIntValue(nullInt(nil)))
	})

	t.Run("nullTime round trip", func(t *testing.T) {
		now := time.Now()
		nt := nullTime(&now)
		assert.True(t, nt.Valid)
		assert.Equal(t, now, *nullTimeValue(nt))

		assert.False(t, nullTime(nil).Valid)
		assert.Nil(t, nullTimeValue(nullTime(nil)))
	})
}
