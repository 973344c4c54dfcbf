package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code2   string // ISO 639-1
	code3   string // ISO 639-2/T
	alt3    string // ISO 639-2/B where it differs
	display string
	region  string // region the catalog most often uses for this language
}

var languages = []entry{
	{"en", "eng", "", "English", "US"},
	{"es", "spa", "", "Spanish", "ES"},
	{"fr", "fra", "fre", "French", "FR"},
	{"de", "deu", "ger", "German", "DE"},
	{"it", "ita", "", "Italian", "IT"},
	{"pt", "por", "", "Portuguese", "BR"},
	{"ja", "jpn", "", "Japanese", "JP"},
	{"ko", "kor", "", "Korean", "KR"},
	{"zh", "zho", "chi", "Chinese", "CN"},
	{"ru", "rus", "", "Russian", "RU"},
	{"ar", "ara", "", "Arabic", "SA"},
	{"hi", "hin", "", "Hindi", "IN"},
	{"nl", "nld", "dut", "Dutch", "NL"},
	{"pl", "pol", "", "Polish", "PL"},
	{"sv", "swe", "", "Swedish", "SE"},
	{"da", "dan", "", "Danish", "DK"},
	{"no", "nor", "", "Norwegian", "NO"},
	{"fi", "fin", "", "Finnish", "FI"},
}

var (
	byCode2 map[string]*entry
	byAlias map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byAlias = make(map[string]*entry, len(languages)*3)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byAlias[e.code3] = e
		byAlias[strings.ToLower(e.display)] = e
		if e.alt3 != "" {
			byAlias[e.alt3] = e
		}
	}
}

// Normalize returns the canonical BCP 47 form of value. Three-letter codes
// and English names map to the language's usual catalog region, so "Chinese"
// becomes "zh-CN". An empty value stays empty.
func Normalize(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if e, ok := byAlias[strings.ToLower(value)]; ok {
		return e.code2 + "-" + e.region, nil
	}
	tag, err := xlanguage.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", value, err)
	}
	return tag.String(), nil
}

// DisplayName returns the English name of the tag's base language, or the
// tag itself when it is not in the table.
func DisplayName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "Unknown"
	}
	parts := strings.FieldsFunc(tag, func(r rune) bool { return r == '-' || r == '_' })
	if len(parts) == 0 {
		return tag
	}
	base := strings.ToLower(parts[0])
	if e, ok := byCode2[base]; ok {
		return e.display
	}
	if e, ok := byAlias[base]; ok {
		return e.display
	}
	return tag
}
