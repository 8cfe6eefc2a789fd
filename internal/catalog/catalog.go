// Package catalog defines the intake questionnaire: ordered sections of typed
// questions with validation rules, option sets, and inter-question
// dependencies. The catalog is built once at startup and is read-only
// afterwards.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
)

// QuestionType enumerates the supported answer widgets.
type QuestionType string

const (
	TypeText        QuestionType = "text"
	TypeTextarea    QuestionType = "textarea"
	TypeNumber      QuestionType = "number"
	TypeSelect      QuestionType = "select"
	TypeMultiSelect QuestionType = "multiselect"
	TypeBoolean     QuestionType = "boolean"
	TypeScale       QuestionType = "scale"
)

// Coercion names an input transformation applied before a validated answer is
// projected onto the profile.
type Coercion string

// CoerceCSVToArray splits a comma-delimited string answer into a trimmed
// array, dropping empty elements. It exists because some free-text widgets
// submit logically multi-valued fields as a single string.
const CoerceCSVToArray Coercion = "csv-to-array"

// Condition enumerates the supported dependency gates.
type Condition string

const (
	CondEquals   Condition = "equals"
	CondIncludes Condition = "includes"
	CondNotEmpty Condition = "not_empty"
)

// Option is one selectable value of a select or multiselect question.
type Option struct {
	Value string
	Label string
}

// Dependency gates a question on a previously answered question in the same
// section. A gated question is skipped entirely while its condition is
// unsatisfied.
type Dependency struct {
	Question  string
	Condition Condition
	Value     string
}

// Rules holds the optional validation constraints of a question. Zero-valued
// fields are not enforced; Min/Max use pointers so that a bound of zero is
// expressible.
type Rules struct {
	Min       *float64
	Max       *float64
	MinLength int
	MaxLength int
	Pattern   string

	pattern *regexp.Regexp
}

// MatchesPattern reports whether s fully matches the compiled pattern.
// Questions without a pattern always match.
func (r *Rules) MatchesPattern(s string) bool {
	if r == nil || r.pattern == nil {
		return true
	}
	return r.pattern.MatchString(s)
}

// Question is one entry of a section.
type Question struct {
	ID          string
	Type        QuestionType
	Label       string
	Placeholder string
	Required    bool
	Field       Field
	Options     []Option
	DependsOn   *Dependency
	Validation  *Rules
	Coercion    Coercion
}

// HasOption reports whether value is a declared option of the question.
func (q *Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Section is one page of the intake flow.
type Section struct {
	ID          string
	Title       string
	Description string
	Order       int
	Required    bool
	Questions   []Question
}

// Catalog is the immutable registry of intake sections.
type Catalog struct {
	sections []Section
	byID     map[string]*Section
}

// New builds the default catalog and verifies its invariants: globally unique
// section ids, unique order values, options present on select-typed
// questions, non-empty field keys, and compilable patterns.
func New() (*Catalog, error) {
	return Build(defaultSections())
}

// Build constructs a catalog over a custom section set, enforcing the same
// invariants as New.
func Build(sections []Section) (*Catalog, error) {
	c := &Catalog{
		sections: sections,
		byID:     make(map[string]*Section, len(sections)),
	}

	orders := make(map[int]string, len(sections))
	for i := range c.sections {
		s := &c.sections[i]
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate section id %q", s.ID)
		}
		if owner, dup := orders[s.Order]; dup {
			return nil, fmt.Errorf("catalog: sections %q and %q share order %d", owner, s.ID, s.Order)
		}
		orders[s.Order] = s.ID
		c.byID[s.ID] = s

		for j := range s.Questions {
			q := &s.Questions[j]
			if q.ID == "" || q.Label == "" {
				return nil, fmt.Errorf("catalog: section %q has a question without id or label", s.ID)
			}
			if q.Field == "" {
				return nil, fmt.Errorf("catalog: question %q has no profile field", q.ID)
			}
			if (q.Type == TypeSelect || q.Type == TypeMultiSelect) && len(q.Options) == 0 {
				return nil, fmt.Errorf("catalog: question %q is %s but declares no options", q.ID, q.Type)
			}
			if q.Validation != nil && q.Validation.Pattern != "" {
				re, err := regexp.Compile("^(?:" + q.Validation.Pattern + ")$")
				if err != nil {
					return nil, fmt.Errorf("catalog: question %q has invalid pattern: %w", q.ID, err)
				}
				q.Validation.pattern = re
			}
		}
	}

	// Presentation and completion-scan order. Ties are impossible after the
	// uniqueness check above; sort.SliceStable keeps insertion order anyway.
	sort.SliceStable(c.sections, func(i, k int) bool {
		return c.sections[i].Order < c.sections[k].Order
	})
	for i := range c.sections {
		c.byID[c.sections[i].ID] = &c.sections[i]
	}

	return c, nil
}

// Section returns the section with the given id.
func (c *Catalog) Section(id string) (*Section, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// SectionIDs returns all section ids sorted by ascending order.
func (c *Catalog) SectionIDs() []string {
	ids := make([]string, len(c.sections))
	for i := range c.sections {
		ids[i] = c.sections[i].ID
	}
	return ids
}

// Sections returns all sections sorted by ascending order.
func (c *Catalog) Sections() []Section {
	return c.sections
}

// Len returns the number of sections.
func (c *Catalog) Len() int {
	return len(c.sections)
}
