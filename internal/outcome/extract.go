package outcome

import (
	"sort"
	"strconv"

	"golang.org/x/text/width"
)

// ExtractEpisodes returns the sorted, unique episode numbers reported in text.
// When no known convention matches, any bare integer between 1 and 999 is
// taken instead; that fallback is lossy and may pick up unrelated numbers.
func ExtractEpisodes(text string) []int {
	text = width.Fold.String(text)

	found := make(map[int]struct{})
	for _, p := range episodePatterns {
		for _, m := range p.pattern.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				found[n] = struct{}{}
			}
		}
	}
	if len(found) == 0 {
		for _, token := range bareIntegerPattern.FindAllString(text, -1) {
			n, err := strconv.Atoi(token)
			if err != nil || n < minFallbackEpisode || n > maxFallbackEpisode {
				continue
			}
			found[n] = struct{}{}
		}
	}
	if len(found) == 0 {
		return nil
	}

	out := make([]int, 0, len(found))
	for n := range found {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
