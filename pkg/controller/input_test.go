package controller

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(in *Input) []string {
	var toks []string
	for {
		tok, ok := in.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestInputTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"90\n", []string{"90"}},
		{"1 2 3\r\n", []string{"1", "2", "3"}},
		{"a1b22c333d", []string{"1", "22", "333"}},
		{"-5 +7 - + -x 8", []string{"-5", "+7", "8"}},
		{"--12", []string{"-12"}},
		{"12-3", []string{"12", "-3"}},
		{"no digits here\n", nil},
		{"", nil},
	}
	for _, tt := range tests {
		in := NewInput(0)
		_, _ = in.Write([]byte(tt.in))
		assert.Equal(t, tt.want, drain(in), "input %q", tt.in)
		assert.Zero(t, in.Buffered(), "input %q", tt.in)
	}
}

func TestInputTrailingTokenWaitsForTimeout(t *testing.T) {
	now := time.Unix(0, 0)
	in := NewInput(time.Second)
	in.now = func() time.Time { return now }

	_, _ = in.Write([]byte("12"))
	_, ok := in.Next()
	assert.False(t, ok)

	now = now.Add(500 * time.Millisecond)
	_, _ = in.Write([]byte("0"))
	_, ok = in.Next()
	assert.False(t, ok)

	now = now.Add(time.Second)
	tok, ok := in.Next()
	require.True(t, ok)
	assert.Equal(t, "120", tok)
}

func TestInputTrailingSign(t *testing.T) {
	now := time.Unix(0, 0)
	in := NewInput(time.Second)
	in.now = func() time.Time { return now }

	_, _ = in.Write([]byte("-"))
	_, ok := in.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, in.Buffered())

	_, _ = in.Write([]byte("30 "))
	tok, ok := in.Next()
	require.True(t, ok)
	assert.Equal(t, "-30", tok)

	_, _ = in.Write([]byte("+"))
	now = now.Add(2 * time.Second)
	_, ok = in.Next()
	assert.False(t, ok)
	assert.Zero(t, in.Buffered())
}

func TestInputStall(t *testing.T) {
	in := NewInput(0)
	_, _ = in.Write([]byte("1 2"))
	in.Stall()
	_, ok := in.Next()
	assert.False(t, ok)

	_, _ = in.Write([]byte(" 3"))
	assert.Equal(t, []string{"1", "2", "3"}, drain(in))
}

func TestInputReadFrom(t *testing.T) {
	in := NewInput(0)
	n, err := in.ReadFrom(strings.NewReader("45 135\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, []string{"45", "135"}, drain(in))
}
