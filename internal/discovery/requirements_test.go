package discovery

import (
	"reflect"
	"testing"
)

func TestParseRequirements(t *testing.T) {
	content := `
# runtime deps
openai==1.3.0
requests>=2.31
flask

pytest == 7.4.0
`
	got := ParseRequirements(content)
	want := map[string]string{
		"openai":   "1.3.0",
		"requests": ">=2.31",
		"flask":    "unpinned",
		"pytest":   "7.4.0",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDetectFrameworks(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"single", "openai==1.0\n", []string{"openai"}},
		{"variant name", "langchain-community>=0.1\n", []string{"langchain"}},
		{"torch alias", "torch==2.1\n", []string{"pytorch"}},
		{"stable order", "torch\nopenai\nlangchain\n", []string{"openai", "langchain", "pytorch"}},
		{"none", "requests\nflask\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectFrameworks(tc.content)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
