package pipeline

import "testing"

func TestGoldmarkEscaper(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"url is percent-encoded and escaped", GoldmarkEscaper{}.EscapeURL("/a b?x=1&y"), "/a%20b?x=1&amp;y"},
		{"dangerous url is dropped", GoldmarkEscaper{}.EscapeURL("javascript:alert"), ""},
		{"dangerous url is kept when unsafe", GoldmarkEscaper{Unsafe: true}.EscapeURL("javascript:alert"), "javascript:alert"},
		{"title entities are not encoded twice", GoldmarkEscaper{}.EscapeTitle(`A &amp; "B"`), "A &amp; &quot;B&quot;"},
		{"attribute is escaped", GoldmarkEscaper{}.EscapeAttr(`a"<b`), "a&quot;&lt;b"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
