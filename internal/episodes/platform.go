package episodes

import "sort"

// Platform identifies the numbering convention of the source the episode
// numbers were read from.
type Platform int

const (
	// PlatformCanonical uses the catalog's own numbering.
	PlatformCanonical Platform = iota
	// PlatformOffsetByOne labels every episode one higher than the catalog.
	PlatformOffsetByOne
)

func (p Platform) String() string {
	switch p {
	case PlatformOffsetByOne:
		return "offset_by_one"
	default:
		return "canonical"
	}
}

// platformRules maps a platform to its per-number correction. The bool is
// false when the corrected number is no longer a valid episode.
var platformRules = map[Platform]func(int) (int, bool){
	PlatformCanonical: func(e int) (int, bool) {
		return e, true
	},
	PlatformOffsetByOne: func(e int) (int, bool) {
		return e - 1, e-1 > 0
	},
}

// AdjustForPlatform converts requested episode numbers into the catalog's
// numbering. The result is sorted and free of duplicates.
func AdjustForPlatform(requested []int, platform Platform) []int {
	rule, ok := platformRules[platform]
	if !ok {
		rule = platformRules[PlatformCanonical]
	}
	seen := make(map[int]struct{}, len(requested))
	out := make([]int, 0, len(requested))
	for _, e := range requested {
		adjusted, valid := rule(e)
		if !valid {
			continue
		}
		if _, dup := seen[adjusted]; dup {
			continue
		}
		seen[adjusted] = struct{}{}
		out = append(out, adjusted)
	}
	sort.Ints(out)
	return out
}
