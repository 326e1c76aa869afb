package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// StatusMode selects how problem statuses reach the client.
type StatusMode string

const (
	// StatusModeUniform reports every problem as 400 Bad Request; Type still names the kind.
	StatusModeUniform StatusMode = "uniform"
	// StatusModeDistinct reports each problem with its own status code.
	StatusModeDistinct StatusMode = "distinct"
)

// ParseStatusMode accepts "uniform" or "distinct"; blank means uniform.
func ParseStatusMode(raw string) (StatusMode, error) {
	switch mode := StatusMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return StatusModeUniform, nil
	case StatusModeUniform, StatusModeDistinct:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown error status mode %q", raw)
	}
}

func (m StatusMode) apply(problem ProblemDetail) ProblemDetail {
	if m == StatusModeDistinct {
		return problem
	}
	problem.Status = http.StatusBadRequest
	return problem
}
