package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestFromEmailText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "dedup and trailing punctuation",
			text: "Visit http://a.com/a! Then http://a.com/a.",
			want: []string{"http://a.com/a"},
		},
		{
			name: "no urls",
			text: "nothing to see here",
			want: []string{},
		},
		{
			name: "preserves first-seen order",
			text: "http://b.com then https://a.com then http://b.com again",
			want: []string{"http://b.com", "https://a.com"},
		},
		{
			name: "strips stacked punctuation",
			text: "see (http://x.com/path).",
			want: []string{"http://x.com/path"},
		},
		{
			name: "stops at angle bracket",
			text: "<http://x.com>",
			want: []string{"http://x.com"},
		},
		{
			name: "https and query strings",
			text: "login at https://secure.example.com/login?next=/home now",
			want: []string{"https://secure.example.com/login?next=/home"},
		},
		{
			name: "ignores bare domains",
			text: "go to example.com or www.example.org",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromEmailText(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromEmailText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromDelimitedFile(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "header row skipped",
			text: "url\nhttp://x.com\nhttp://y.com\n",
			want: []string{"http://x.com", "http://y.com"},
		},
		{
			name: "link header skipped",
			text: "Link,Notes\nhttp://x.com,ok\n",
			want: []string{"http://x.com"},
		},
		{
			name: "blank lines discarded",
			text: "\n\nhttp://x.com\n\n",
			want: []string{"http://x.com"},
		},
		{
			name: "picks first http field",
			text: "some label,http://x.com,extra\n",
			want: []string{"http://x.com"},
		},
		{
			name: "quoted fields",
			text: "\"http://x.com\",\"note\"\n",
			want: []string{"http://x.com"},
		},
		{
			name: "non-url first field dropped",
			text: "not-a-website,still-not\n",
			want: []string{},
		},
		{
			name: "duplicates removed",
			text: "http://x.com\nhttp://x.com\n",
			want: []string{"http://x.com"},
		},
		{
			name: "windows line endings",
			text: "http://x.com\r\nhttp://y.com\r\n",
			want: []string{"http://x.com", "http://y.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDelimitedFile(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromDelimitedFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractionInvariants(t *testing.T) {
	text := "http://a.com. http://b.com http://a.com, https://c.com/x)! plain words"

	got := FromEmailText(text)

	if len(got) > strings.Count(text, "http") {
		t.Errorf("extraction fabricated URLs: %d entries", len(got))
	}

	seen := make(map[string]struct{})
	for _, u := range got {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			t.Errorf("entry %q does not carry an HTTP scheme", u)
		}
		if _, dup := seen[u]; dup {
			t.Errorf("duplicate entry %q", u)
		}
		seen[u] = struct{}{}
	}
}
