package commands

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"goemon/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference from args.
//
// Accepted forms:
//  1. a bare ID: owned task, or shared task when shared is set
//  2. a task URL, ".../t/<id>": owned task; conflicts with shared
//  3. a share URL, ".../s/<id>": shared task
func ParseTaskRef(args []string, shared bool) (service.TaskRef, error) {
	if len(args) == 0 {
		return service.TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return service.TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return service.TaskRef{}, ErrTaskRefRequired
	}

	if strings.Contains(arg, "://") {
		return parseTaskURL(arg, shared)
	}

	if !isValidID(arg) {
		return service.TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return service.TaskRef{ID: arg, Shared: shared}, nil
}

func parseTaskURL(raw string, shared bool) (service.TaskRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return service.TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || !isValidID(parts[1]) {
		return service.TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
	}

	switch parts[0] {
	case "t":
		if shared {
			return service.TaskRef{}, fmt.Errorf("--shared cannot be used with a task URL: %s", raw)
		}
		return service.TaskRef{ID: parts[1]}, nil
	case "s":
		return service.TaskRef{ID: parts[1], Shared: true}, nil
	}
	return service.TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
}

// isValidID returns true if s is non-empty and has no path separators,
// query characters or whitespace.
func isValidID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '/' || r == '?' || r == '#' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
