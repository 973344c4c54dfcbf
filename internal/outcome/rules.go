package outcome

import "regexp"

// textRule maps a pattern in tool output to a classification. Rules are
// evaluated in order and the first match wins.
type textRule struct {
	pattern *regexp.Regexp
	class   Classification
}

var failureRules = []textRule{
	{pattern: regexp.MustCompile(`KeyboardInterrupt|(?i:\binterrupted\b)|\^C|SIGINT`), class: UserInterrupted},
	{pattern: regexp.MustCompile(`HTTP 500|(?i:500 internal server error)`), class: ServerError},
	{pattern: regexp.MustCompile(`Timeout|(?i:\btimed?[- ]?outs?\b)`), class: Timeout},
	{pattern: regexp.MustCompile(`ConnectionError|(?i:connection (refused|reset|aborted))`), class: ConnectionError},
}

func matchFailureText(text string) (Classification, bool) {
	for _, rule := range failureRules {
		if rule.pattern.MatchString(text) {
			return rule.class, true
		}
	}
	return "", false
}

// episodePattern pairs a reporting convention with the regexp that finds it.
// The first submatch is the episode number.
type episodePattern struct {
	pattern *regexp.Regexp
	meaning string
}

var episodePatterns = []episodePattern{
	{pattern: regexp.MustCompile(`(?i)\bepisode\s*#?\s*(\d{1,3})\b`), meaning: "episode"},
	{pattern: regexp.MustCompile(`第\s*(\d{1,3})\s*集`), meaning: "chinese_episode"},
	{pattern: regexp.MustCompile(`(?i)\bS\d{1,2}\s*E(\d{1,3})\b`), meaning: "season_episode"},
	{pattern: regexp.MustCompile(`(?i)(?:^|[^A-Za-z0-9])E(\d{1,3})\b`), meaning: "bare_episode"},
	{pattern: regexp.MustCompile(`导入第\s*(\d{1,3})\s*集`), meaning: "import_marker"},
	{pattern: regexp.MustCompile(`成功导入\s*(\d{1,3})`), meaning: "import_success"},
}

var bareIntegerPattern = regexp.MustCompile(`\d+`)

const (
	minFallbackEpisode = 1
	maxFallbackEpisode = 999
)
