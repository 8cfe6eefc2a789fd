// Package intake implements the profile completion engine: per-section answer
// validation, projection of validated answers onto the profile, and
// completion tracking. Everything here is pure and request-scoped; callers
// own persistence.
package intake

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/teigesaccord/sandy/internal/catalog"
)

// ValidationResult carries the outcome of validating one section submission.
// Expected bad input is reported here, never as an error value.
type ValidationResult struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

// CompletionSignal is the progress summary surfaced to callers deciding
// whether to route a user into the intake flow or straight to chat.
type CompletionSignal struct {
	CompletionPercentage int     `json:"completionPercentage"`
	IsCompleted          bool    `json:"isCompleted"`
	NextSection          *string `json:"nextSection"`
}

// State describes where a profile is in the intake flow.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Engine binds the question catalog to the validation, projection, and
// tracking operations. It holds no per-request state.
type Engine struct {
	catalog *catalog.Catalog
	log     *slog.Logger
}

// NewEngine creates an intake engine over the given catalog.
func NewEngine(c *catalog.Catalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		catalog: c,
		log:     logger.With("component", "intake"),
	}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// answerPresent reports whether v counts as an answer: nil, empty strings,
// and empty lists do not.
func answerPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

// dependencySatisfied evaluates a question's gate against the submitted
// answers. Gated questions are skipped entirely while unsatisfied.
func dependencySatisfied(dep *catalog.Dependency, answers map[string]any) bool {
	if dep == nil {
		return true
	}
	v, ok := answers[dep.Question]
	if !ok || !answerPresent(v) {
		return false
	}
	switch dep.Condition {
	case catalog.CondNotEmpty:
		return true
	case catalog.CondEquals:
		return scalarString(v) == dep.Value
	case catalog.CondIncludes:
		for _, item := range gateValues(v) {
			if item == dep.Value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// scalarString renders a scalar answer for gate comparison. Booleans compare
// as "true"/"false".
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// gateValues flattens an answer for includes-style gates: arrays element-wise
// and comma-delimited strings token-wise.
func gateValues(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, scalarString(item))
		}
		return out
	case string:
		return splitCSV(t)
	default:
		return []string{scalarString(v)}
	}
}

// splitCSV splits a comma-delimited string into trimmed, non-empty tokens.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
