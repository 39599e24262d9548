package htmltext

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestToText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain   text\n here", want: "plain text here"},
		{in: "<p>Hello <b>world</b></p><p>again</p>", want: "Hello world again"},
		{in: "Fish &amp; Chips &lt;3", want: "Fish & Chips <3"},
		{in: "<script>alert(1)</script>safe", want: "safe"},
		{in: "line<br>break", want: "line break"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ToText(tt.in), tt.in)
	}
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "short", Excerpt("short", 200))
	require.Equal(t, "abcdefg...", Excerpt("abcdefghijklmnop", 10))

	multi := "ééééééééééééééé"
	got := Excerpt(multi, 8)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, "ééééé...", got)

	require.Equal(t, "ab", Excerpt("abcdef", 2))
}
