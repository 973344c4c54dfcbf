package importjob

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tmdbhelper/internal/services"
)

// Target identifies the catalog entry to import into.
type Target struct {
	ExternalID string `json:"external_id"`
	Season     int    `json:"season"`
	Language   string `json:"language,omitempty"`
}

// Validate checks the target before any work starts.
func (t Target) Validate() error {
	if strings.TrimSpace(t.ExternalID) == "" {
		return services.Wrap(services.ErrValidation, "target", "validate", "external id required", nil)
	}
	if t.Season < 0 {
		return services.Wrap(services.ErrValidation, "target", "validate", fmt.Sprintf("season must not be negative, got %d", t.Season), nil)
	}
	return nil
}

// BuildTargetReference expands {id}, {season} and {language} in template.
// Values are escaped for use inside a URL.
func BuildTargetReference(template string, target Target) (string, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	if !strings.Contains(template, "{id}") {
		return "", services.Wrap(services.ErrConfiguration, "target", "build", "target template must contain {id}", nil)
	}
	replacer := strings.NewReplacer(
		"{id}", url.PathEscape(strings.TrimSpace(target.ExternalID)),
		"{season}", strconv.Itoa(target.Season),
		"{language}", url.QueryEscape(strings.TrimSpace(target.Language)),
	)
	return replacer.Replace(template), nil
}
