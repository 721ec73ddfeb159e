package extractor

import "testing"

func TestFriendlyMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unable to extract", "ERROR: [linkedin] abc: Unable to extract video", msgUnableToExtract},
		{"private video", "ERROR: Private video", msgPrivate},
		{"lowercase private", "this content is PRIVATE", msgPrivate},
		{"unable wins over private", "Unable to extract video; Private video", msgUnableToExtract},
		{"unknown passes through", "ERROR: HTTP Error 500", "ERROR: HTTP Error 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FriendlyMessage(tt.in); got != tt.want {
				t.Errorf("FriendlyMessage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"trimmed", "  ERROR: boom \n", "ERROR: boom"},
		{"known failure reworded", "ERROR: Private video\n", msgPrivate},
		{"lowercase private not a known marker", "private post", "private post"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failureMessage(tt.stderr); got != tt.want {
				t.Errorf("failureMessage(%q) = %q, want %q", tt.stderr, got, tt.want)
			}
		})
	}
}
