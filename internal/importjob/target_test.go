package importjob_test

import (
	"errors"
	"testing"

	"tmdbhelper/internal/importjob"
	"tmdbhelper/internal/services"
)

const defaultTemplate = "https://www.themoviedb.org/tv/{id}/season/{season}?language={language}"

func TestBuildTargetReference(t *testing.T) {
	tests := []struct {
		name     string
		template string
		target   importjob.Target
		want     string
		wantErr  error
	}{
		{
			name:     "default template",
			template: defaultTemplate,
			target:   importjob.Target{ExternalID: "1399", Season: 2, Language: "zh-CN"},
			want:     "https://www.themoviedb.org/tv/1399/season/2?language=zh-CN",
		},
		{
			name:     "specials season",
			template: defaultTemplate,
			target:   importjob.Target{ExternalID: " 42 ", Season: 0, Language: "en-US"},
			want:     "https://www.themoviedb.org/tv/42/season/0?language=en-US",
		},
		{
			name:     "escaped values",
			template: "https://example.test/{id}?l={language}",
			target:   importjob.Target{ExternalID: "a/b", Language: "zh CN"},
			want:     "https://example.test/a%2Fb?l=zh+CN",
		},
		{
			name:     "missing id",
			template: defaultTemplate,
			target:   importjob.Target{Season: 1},
			wantErr:  services.ErrValidation,
		},
		{
			name:     "negative season",
			template: defaultTemplate,
			target:   importjob.Target{ExternalID: "1", Season: -1},
			wantErr:  services.ErrValidation,
		},
		{
			name:     "template without id",
			template: "https://example.test/tv",
			target:   importjob.Target{ExternalID: "1"},
			wantErr:  services.ErrConfiguration,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := importjob.BuildTargetReference(tc.template, tc.target)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
