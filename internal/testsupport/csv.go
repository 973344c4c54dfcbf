package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleEpisodesCSV is a small episode table in the import tool's layout.
const SampleEpisodesCSV = `episode_number,name,air_date,runtime,overview,backdrop
1,Pilot (Director's Cut),2024-01-01,45,"First episode",https://img.example/1.jpg
2,Second,2024-01-08,44,"Line one
line two",https://img.example/2.jpg
3,Third (Director's Cut),2024-01-15,46,Third overview,https://img.example/3.jpg
4,Fourth,2024-01-22,45,Fourth overview,https://img.example/4.jpg
`

// WriteCSV writes content to name inside dir and returns the path.
func WriteCSV(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
