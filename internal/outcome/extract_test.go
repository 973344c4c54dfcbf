package outcome_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tmdbhelper/internal/outcome"
)

func TestExtractEpisodes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{name: "english", text: "Episode 3 imported", want: []int{3}},
		{name: "chinese", text: "第5集已导入", want: []int{5}},
		{name: "season episode", text: "S01E07", want: []int{7}},
		{name: "fallback bare integer", text: "processed item 12 ok", want: []int{12}},
		{name: "deduplicated", text: "导入第1集 导入第1集", want: []int{1}},
		{name: "union of conventions", text: "Episode 2 done\n第4集\nS02E09\n成功导入 6", want: []int{2, 4, 6, 9}},
		{name: "bare E marker", text: "saved E11 backdrop", want: []int{11}},
		{name: "full-width digits", text: "第１２集", want: []int{12}},
		{name: "fallback range", text: "0 1000 42", want: []int{42}},
		{name: "fallback skipped when pattern matched", text: "Episode 8 of 24", want: []int{8}},
		{name: "nothing", text: "no numbers here", want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := outcome.ExtractEpisodes(tc.text)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ExtractEpisodes(%q) mismatch (-want +got):\n%s", tc.text, diff)
			}
		})
	}
}
