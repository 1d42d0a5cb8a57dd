package source

import "testing"

func TestLinkCounter(t *testing.T) {
	lc := NewLinkCounter("example.com")

	tests := []struct {
		name                       string
		body                       string
		internal, external, images int
	}{
		{
			name: "mixed",
			body: `<p><a href="https://example.com/a/">a</a> <a href="https://example.com/b/">b</a>` +
				`<a href="https://other.org/">o</a><img src="1.png"><img src="2.png" /><img alt=""></p>`,
			internal: 2, external: 1, images: 3,
		},
		{
			name:     "lookalike host is external",
			body:     `<a href="https://example.com.evil.net/x">x</a><a href="http://example.com">home</a>`,
			internal: 1, external: 1,
		},
		{
			name: "relative links are ignored",
			body: `<a href="/local/">l</a><a href="mailto:a@example.com">m</a>`,
		},
		{name: "empty"},
	}

	for _, tt := range tests {
		in, ex, im := lc.Count(tt.body)
		if in != tt.internal || ex != tt.external || im != tt.images {
			t.Errorf("%s: Count = (%d, %d, %d), expected (%d, %d, %d)", tt.name, in, ex, im, tt.internal, tt.external, tt.images)
		}
	}
}
