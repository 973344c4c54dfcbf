package csvtable_test

import (
	"testing"

	"tmdbhelper/internal/csvtable"
)

func TestSerializeQuotesOnlyWhenNeeded(t *testing.T) {
	table := csvtable.Table{
		Headers: []string{"episode_number", "name"},
		Rows: [][]string{
			{"1", "Pilot"},
			{"2", "a,b"},
			{"3", `x"y`},
			{"4", "two\nlines"},
		},
	}
	want := "episode_number,name\n" +
		"1,Pilot\n" +
		"2,\"a,b\"\n" +
		"3,\"x\"\"y\"\n" +
		"4,\"two\nlines\""
	if got := csvtable.Serialize(table); got != want {
		t.Fatalf("Serialize mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestSerializeEmptyTable(t *testing.T) {
	if got := csvtable.Serialize(csvtable.Table{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
