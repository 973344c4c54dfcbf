package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external program the importer relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// ImportToolRequirement describes the executable that starts the import
// tool. Only the first element of command is resolved; interpreter arguments
// such as "-m tmdb-import" are left to the tool itself.
func ImportToolRequirement(command []string) Requirement {
	req := Requirement{
		Name:        "Import tool",
		Description: "Runs the catalog import for a prepared CSV",
	}
	if len(command) > 0 {
		req.Command = command[0]
	}
	return req
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}
