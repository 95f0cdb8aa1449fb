package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(readerFromLines("  hello world  "), "Say something", &out)

	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("partial"))
	got, err := GetSimpleText(r, "Prompt", &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}

func TestGetPassword_UsesSeam(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	pw, err := GetPassword(&out)

	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Contains(t, out.String(), "Enter password:")
}

func TestGetList(t *testing.T) {
	got, err := GetList(readerFromLines("Peru, Chile , ,Mexico"), "Locations", &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, []string{"Peru", "Chile", "Mexico"}, got)
}

func TestGetList_Empty(t *testing.T) {
	got, err := GetList(readerFromLines(""), "Locations", &bytes.Buffer{})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"n", false},
		{"", false},
		{"sure", false},
	}
	for _, tc := range tests {
		got, err := Confirm(readerFromLines(tc.answer), "Proceed?", &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "answer %q", tc.answer)
	}
}
