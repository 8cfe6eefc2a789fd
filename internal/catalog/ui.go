package catalog

import "fmt"

// UIQuestion is the frontend-safe projection of a Question. Profile field
// keys and dependency wiring are internal and deliberately not exposed.
type UIQuestion struct {
	ID          string        `json:"id"`
	Type        QuestionType  `json:"type"`
	Label       string        `json:"label"`
	Placeholder string        `json:"placeholder,omitempty"`
	Required    bool          `json:"required"`
	Options     []string      `json:"options,omitempty"`
	Validation  *UIValidation `json:"validation,omitempty"`
}

// UIValidation carries the renderable subset of a question's rules plus a
// ready-made hint message.
type UIValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Message string   `json:"message,omitempty"`
}

// UISection is the frontend-safe projection of a Section.
type UISection struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Order       int          `json:"order"`
	Required    bool         `json:"required"`
	Questions   []UIQuestion `json:"questions"`
}

// UISections returns every section in presentation order, projected to the
// shape the frontend renders.
func (c *Catalog) UISections() []UISection {
	out := make([]UISection, 0, len(c.sections))
	for i := range c.sections {
		s := &c.sections[i]
		us := UISection{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Order:       s.Order,
			Required:    s.Required,
			Questions:   make([]UIQuestion, 0, len(s.Questions)),
		}
		for j := range s.Questions {
			us.Questions = append(us.Questions, uiQuestion(&s.Questions[j]))
		}
		out = append(out, us)
	}
	return out
}

func uiQuestion(q *Question) UIQuestion {
	uq := UIQuestion{
		ID:          q.ID,
		Type:        q.Type,
		Label:       q.Label,
		Placeholder: q.Placeholder,
		Required:    q.Required,
	}
	for _, o := range q.Options {
		uq.Options = append(uq.Options, o.Value)
	}
	if v := q.Validation; v != nil {
		uq.Validation = &UIValidation{
			Min:     v.Min,
			Max:     v.Max,
			Pattern: v.Pattern,
			Message: validationHint(q.Label, v),
		}
	}
	return uq
}

func validationHint(label string, v *Rules) string {
	switch {
	case v.MinLength > 0 && v.MaxLength > 0:
		return fmt.Sprintf("%s must be between %d and %d characters", label, v.MinLength, v.MaxLength)
	case v.MinLength > 0:
		return fmt.Sprintf("%s must be at least %d characters", label, v.MinLength)
	case v.MaxLength > 0:
		return fmt.Sprintf("%s must be at most %d characters", label, v.MaxLength)
	case v.Min != nil && v.Max != nil:
		return fmt.Sprintf("%s must be between %g and %g", label, *v.Min, *v.Max)
	case v.Pattern != "":
		return fmt.Sprintf("%s has an invalid format", label)
	default:
		return ""
	}
}
