package internal

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNumberFormat_Int(t *testing.T) {
	// x/text uses a non-breaking space (U+00A0) as the Swedish group separator
	nbsp := "\u00a0"

	tests := []struct {
		locale string
		value  int
		want   string
	}{
		{"en", 100, "100"},
		{"en", 1234, "1,234"},
		{"en-US", 1234567, "1,234,567"},
		{"de", 1234, "1.234"},
		{"sv_SE.UTF-8", 1234, "1" + nbsp + "234"},
		{"sv-SE", 1234567, "1" + nbsp + "234" + nbsp + "567"},
		{"en", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			got := NewNumberFormat(tt.locale).Int(tt.value)
			if got != tt.want {
				t.Errorf("Int(%d) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestNumberFormat_Float(t *testing.T) {
	tests := []struct {
		locale   string
		value    float64
		decimals int
		want     string
	}{
		{"en", 7.5, 2, "7.50"},
		{"en", 0.5, 1, "0.5"},
		{"en", 1234.5, 1, "1,234.5"},
		{"de", 7.5, 2, "7,50"},
		{"en", 0, 1, "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			got := NewNumberFormat(tt.locale).Float(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("Float(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestParseLocaleTag(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
		ok     bool
	}{
		{"sv_SE.UTF-8", language.MustParse("sv-SE"), true},
		{"de_DE@euro", language.MustParse("de-DE"), true},
		{"en-US", language.MustParse("en-US"), true},
		{"C", language.Und, false},
		{"POSIX", language.Und, false},
		{"", language.Und, false},
		{"not a locale!", language.Und, false},
	}

	for _, tt := range tests {
		got, ok := parseLocaleTag(tt.locale)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseLocaleTag(%q) = %v, %v; want %v, %v", tt.locale, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLocaleFromEnv(t *testing.T) {
	// Skip OS-level locale detection so tests are predictable across platforms
	skipSystemLocale = true
	defer func() { skipSystemLocale = false }()

	tests := []struct {
		name      string
		lcAll     string
		lcNumeric string
		lang      string
		want      string
	}{
		{"LC_ALL takes priority", "sv_SE.UTF-8", "de_DE.UTF-8", "en_US.UTF-8", "sv_SE.UTF-8"},
		{"LC_NUMERIC when LC_ALL empty", "", "de_DE.UTF-8", "en_US.UTF-8", "de_DE.UTF-8"},
		{"LANG as fallback", "", "", "en_US.UTF-8", "en_US.UTF-8"},
		{"C locale is skipped", "C", "", "sv_SE.UTF-8", "sv_SE.UTF-8"},
		{"nothing set", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_NUMERIC", tt.lcNumeric)
			t.Setenv("LANG", tt.lang)

			if got := localeFromEnv(); got != tt.want {
				t.Errorf("localeFromEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewNumberFormat_FallsBackToEnglish(t *testing.T) {
	skipSystemLocale = true
	defer func() { skipSystemLocale = false }()
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_NUMERIC", "")
	t.Setenv("LANG", "C")

	nf := NewNumberFormat("")
	if nf.Tag != language.English {
		t.Errorf("Tag = %v, want English", nf.Tag)
	}
	if got := nf.Int(1234); got != "1,234" {
		t.Errorf("Int(1234) = %q, want 1,234", got)
	}
}
