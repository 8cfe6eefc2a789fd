package intake

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teigesaccord/sandy/internal/catalog"
)

// ValidateSection checks a raw answer map against the section's questions and
// returns the accumulated, human-readable errors. It never returns a Go
// error: an unknown section id is reported through the same result shape so
// callers have a single handling path.
func (e *Engine) ValidateSection(sectionID string, answers map[string]any) ValidationResult {
	section, ok := e.catalog.Section(sectionID)
	if !ok {
		e.log.Warn("validation requested for unknown section", "section_id", sectionID)
		return ValidationResult{Errors: []string{fmt.Sprintf("unknown section: %q", sectionID)}}
	}

	var errs []string
	for i := range section.Questions {
		q := &section.Questions[i]
		if !dependencySatisfied(q.DependsOn, answers) {
			continue
		}

		v, present := answers[q.ID]
		if !present || !answerPresent(v) {
			if q.Required {
				errs = append(errs, fmt.Sprintf("%s is required", q.Label))
			}
			continue
		}

		errs = append(errs, validateAnswer(q, v)...)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// validateAnswer applies the question's type and rule checks to one present
// answer. All applicable violations within the question are reported; the
// question never short-circuits its siblings.
func validateAnswer(q *catalog.Question, v any) []string {
	switch q.Type {
	case catalog.TypeNumber, catalog.TypeScale:
		return validateNumeric(q, v)
	case catalog.TypeSelect:
		return validateSelect(q, v)
	case catalog.TypeMultiSelect:
		return validateMultiSelect(q, v)
	case catalog.TypeBoolean:
		return validateBoolean(q, v)
	default:
		return validateString(q, v)
	}
}

func validateString(q *catalog.Question, v any) []string {
	s, ok := v.(string)
	if !ok {
		return []string{fmt.Sprintf("%s must be text", q.Label)}
	}
	s = strings.TrimSpace(s)

	r := q.Validation
	if r == nil {
		return nil
	}

	var errs []string
	if r.MinLength > 0 && len([]rune(s)) < r.MinLength {
		errs = append(errs, fmt.Sprintf("%s must be at least %d characters", q.Label, r.MinLength))
	}
	if r.MaxLength > 0 && len([]rune(s)) > r.MaxLength {
		errs = append(errs, fmt.Sprintf("%s must be at most %d characters", q.Label, r.MaxLength))
	}
	if !r.MatchesPattern(s) {
		errs = append(errs, fmt.Sprintf("%s has an invalid format", q.Label))
	}
	return errs
}

func validateNumeric(q *catalog.Question, v any) []string {
	n, err := coerceNumber(v)
	if err != nil {
		return []string{fmt.Sprintf("%s must be a number", q.Label)}
	}

	r := q.Validation
	if r == nil {
		return nil
	}

	var errs []string
	if r.Min != nil && n < *r.Min {
		errs = append(errs, fmt.Sprintf("%s must be at least %g", q.Label, *r.Min))
	}
	if r.Max != nil && n > *r.Max {
		errs = append(errs, fmt.Sprintf("%s must be at most %g", q.Label, *r.Max))
	}
	return errs
}

func validateSelect(q *catalog.Question, v any) []string {
	s := scalarString(v)
	if !q.HasOption(s) {
		return []string{fmt.Sprintf("%s has an invalid selection: %q", q.Label, s)}
	}
	return nil
}

// validateMultiSelect checks every element against the declared options and
// reports all unknown values together in one message.
func validateMultiSelect(q *catalog.Question, v any) []string {
	values := gateValues(v)

	var unknown []string
	for _, item := range values {
		if !q.HasOption(item) {
			unknown = append(unknown, item)
		}
	}
	if len(unknown) > 0 {
		return []string{fmt.Sprintf("%s has invalid selections: %s", q.Label, strings.Join(unknown, ", "))}
	}
	return nil
}

func validateBoolean(q *catalog.Question, v any) []string {
	if _, err := coerceBool(v); err != nil {
		return []string{fmt.Sprintf("%s must be true or false", q.Label)}
	}
	return nil
}

func coerceNumber(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("cannot interpret %T as number", v)
	}
}

func coerceBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(t))
	default:
		return false, fmt.Errorf("cannot interpret %T as bool", v)
	}
}
