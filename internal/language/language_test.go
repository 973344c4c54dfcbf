package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"zh-CN", "zh-CN"},
		{"zh-cn", "zh-CN"},
		{"ZH_cn", "zh-CN"},
		{"en-US", "en-US"},
		{"en", "en"},
		{"Chinese", "zh-CN"},
		{"chi", "zh-CN"},
		{"ger", "de-DE"},
		{" japanese ", "ja-JP"},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	for _, in := range []string{"not a language", "zh--CN", "!!"} {
		if _, err := Normalize(in); err == nil {
			t.Fatalf("Normalize(%q) expected error", in)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"":      "Unknown",
		"zh-CN": "Chinese",
		"en_us": "English",
		"fre":   "French",
		"tlh":   "tlh",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
