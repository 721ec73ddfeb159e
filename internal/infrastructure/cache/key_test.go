package cache

import (
	"regexp"
	"testing"
)

var hexKey = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestKey_Deterministic(t *testing.T) {
	url := "https://www.linkedin.com/posts/someone_activity-123"

	first := Key(url)
	second := Key(url)

	if first != second {
		t.Errorf("Key() not deterministic: %q != %q", first, second)
	}
}

func TestKey_Format(t *testing.T) {
	for _, url := range []string{"", "https://linkedin.com/x", "ünïcode"} {
		if got := Key(url); !hexKey.MatchString(got) {
			t.Errorf("Key(%q) = %q, want 32 lowercase hex characters", url, got)
		}
	}
}

func TestKey_KnownDigest(t *testing.T) {
	// md5("") is a well-known constant.
	if got := Key(""); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("Key(\"\") = %q", got)
	}
}

func TestKey_DistinctInputs(t *testing.T) {
	urls := []string{
		"https://www.linkedin.com/posts/a",
		"https://www.linkedin.com/posts/b",
		"https://www.linkedin.com/posts/a ",
		"https://www.linkedin.com/posts/A",
	}

	seen := make(map[string]string)
	for _, url := range urls {
		key := Key(url)
		if prev, ok := seen[key]; ok {
			t.Errorf("Key collision between %q and %q", prev, url)
		}
		seen[key] = url
	}
}
