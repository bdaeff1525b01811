package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPosix(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"foo", []string{"foo"}},
		{"foo bar baz", []string{"foo", "bar", "baz"}},
		{"foo   bar", []string{"foo", "bar"}},
		{`foo "bar baz"`, []string{"foo", "bar baz"}},
		{`foo 'bar baz'`, []string{"foo", "bar baz"}},
		{`foo bar\ baz`, []string{"foo", "bar baz"}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			toks, err := SplitPosix(tc.line)
			require.NoError(t, err)
			if tc.want == nil {
				assert.Empty(t, toks)
			} else {
				assert.Equal(t, tc.want, toks)
			}
		})
	}
}

func TestSplitPosixUnterminatedQuote(t *testing.T) {
	_, err := SplitPosix(`foo "bar`)
	assert.Error(t, err)
}

func TestDefaultParseLine(t *testing.T) {
	cmd, args, err := defaultParseLine(`greet "big world"`)
	require.NoError(t, err)
	assert.Equal(t, "greet", cmd)
	assert.Equal(t, []string{"big world"}, args)

	cmd, args, err = defaultParseLine("solo")
	require.NoError(t, err)
	assert.Equal(t, "solo", cmd)
	assert.Empty(t, args)

	cmd, _, err = defaultParseLine("   ")
	require.NoError(t, err)
	assert.Equal(t, "", cmd)
}
