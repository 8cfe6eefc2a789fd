package intake

import (
	"fmt"
	"math"
	"strings"

	"github.com/teigesaccord/sandy/internal/catalog"
	"github.com/teigesaccord/sandy/internal/profile"
)

// ProjectionError reports an answer that could not be mapped onto the
// profile: either a field key with no registered setter or a value the setter
// could not interpret. It is recoverable and scoped to the single request.
type ProjectionError struct {
	Field catalog.Field
	Err   error
}

func (e *ProjectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot project field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("no projection registered for field %q", e.Field)
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// setter writes one validated answer onto its profile location.
type setter func(p *profile.Profile, v any) error

// setters is the closed field-key to profile-location table. Every catalog
// Field must have an entry here; the catalog cannot address arbitrary
// profile locations at runtime.
var setters = map[catalog.Field]setter{
	catalog.FieldName:     func(p *profile.Profile, v any) error { return setString(&p.Personal.Name, v) },
	catalog.FieldAgeRange: func(p *profile.Profile, v any) error { return setString(&p.Personal.AgeRange, v) },
	catalog.FieldLocation: func(p *profile.Profile, v any) error { return setString(&p.Personal.Location, v) },

	catalog.FieldMobilityLevel:       func(p *profile.Profile, v any) error { return setString(&p.Physical.MobilityLevel, v) },
	catalog.FieldPhysicalLimitations: func(p *profile.Profile, v any) error { return setStrings(&p.Physical.Limitations, v) },
	catalog.FieldTremorDetails:       func(p *profile.Profile, v any) error { return setString(&p.Physical.TremorDetails, v) },
	catalog.FieldChronicConditions:   func(p *profile.Profile, v any) error { return setStrings(&p.Physical.ChronicConditions, v) },
	catalog.FieldPainLevel:           func(p *profile.Profile, v any) error { return setIntPtr(&p.Physical.PainLevel, v) },
	catalog.FieldExerciseTolerance:   func(p *profile.Profile, v any) error { return setString(&p.Physical.ExerciseTolerance, v) },
	catalog.FieldAssistiveDevices:    func(p *profile.Profile, v any) error { return setStrings(&p.Physical.AssistiveDevices, v) },

	catalog.FieldEnergyLevel:     func(p *profile.Profile, v any) error { return setString(&p.Energy.Level, v) },
	catalog.FieldEnergyPatterns:  func(p *profile.Profile, v any) error { return setStrings(&p.Energy.Patterns, v) },
	catalog.FieldPeakTime:        func(p *profile.Profile, v any) error { return setString(&p.Energy.PeakTime, v) },
	catalog.FieldFatigueTriggers: func(p *profile.Profile, v any) error { return setStrings(&p.Energy.FatigueTriggers, v) },

	catalog.FieldCommunicationStyle: func(p *profile.Profile, v any) error { return setString(&p.Preferences.CommunicationStyle, v) },
	catalog.FieldResponseLength:     func(p *profile.Profile, v any) error { return setString(&p.Preferences.ResponseLength, v) },
	catalog.FieldPreferredTopics:    func(p *profile.Profile, v any) error { return setStrings(&p.Preferences.Topics, v) },

	catalog.FieldPrimaryGoal:    func(p *profile.Profile, v any) error { return setString(&p.Goals.Primary, v) },
	catalog.FieldShortTermGoals: func(p *profile.Profile, v any) error { return setStrings(&p.Goals.ShortTerm, v) },
	catalog.FieldGoalTimeline:   func(p *profile.Profile, v any) error { return setString(&p.Goals.Timeline, v) },

	catalog.FieldIndustry:        func(p *profile.Profile, v any) error { return setString(&p.Work.Industry, v) },
	catalog.FieldRole:            func(p *profile.Profile, v any) error { return setString(&p.Work.Role, v) },
	catalog.FieldYearsExperience: func(p *profile.Profile, v any) error { return setInt(&p.Work.YearsExperience, v) },
	catalog.FieldMainChallenges:  func(p *profile.Profile, v any) error { return setStrings(&p.Work.Challenges, v) },

	catalog.FieldFamilySupport:       func(p *profile.Profile, v any) error { return setString(&p.Support.Family, v) },
	catalog.FieldProfessionalSupport: func(p *profile.Profile, v any) error { return setBool(&p.Support.Professional, v) },
	catalog.FieldProfessionalType:    func(p *profile.Profile, v any) error { return setString(&p.Support.ProfessionalType, v) },
	catalog.FieldSupportGroups:       func(p *profile.Profile, v any) error { return setStrings(&p.Support.Groups, v) },
}

// Apply folds validated answers into the profile. Absent and empty answers
// are skipped, leaving existing profile fields untouched; present answers
// overwrite their target with last-write-wins semantics, so applying the same
// answers twice is a no-op. Questions whose dependency gate is closed are
// skipped, mirroring the validator: an answer the validator never checked
// must not land on the profile. The answers map is never mutated. Inputs are
// assumed to have passed ValidateSection; validation is not re-run.
func (e *Engine) Apply(p *profile.Profile, questions []catalog.Question, answers map[string]any) error {
	for i := range questions {
		q := &questions[i]
		if !dependencySatisfied(q.DependsOn, answers) {
			continue
		}
		v, present := answers[q.ID]
		if !present || !answerPresent(v) {
			continue
		}

		if q.Coercion == catalog.CoerceCSVToArray {
			if s, ok := v.(string); ok {
				v = splitCSV(s)
			}
		}

		set, ok := setters[q.Field]
		if !ok {
			e.log.Error("question addresses unmapped profile field", "question_id", q.ID, "field", string(q.Field))
			return &ProjectionError{Field: q.Field}
		}
		if err := set(p, v); err != nil {
			return &ProjectionError{Field: q.Field, Err: err}
		}
	}
	return nil
}

// setString trims surrounding whitespace so the stored value matches what
// the validator checked.
func setString(dst *string, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	*dst = strings.TrimSpace(s)
	return nil
}

// setStrings copies the value so the stored slice never aliases the caller's
// answers map.
func setStrings(dst *[]string, v any) error {
	switch t := v.(type) {
	case []string:
		*dst = append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, s)
		}
		*dst = out
	case string:
		*dst = splitCSV(t)
	default:
		return fmt.Errorf("expected string list, got %T", v)
	}
	return nil
}

func setInt(dst *int, v any) error {
	n, err := coerceNumber(v)
	if err != nil {
		return err
	}
	*dst = int(math.Round(n))
	return nil
}

// setIntPtr is setInt for fields where an answered zero must be
// distinguishable from unanswered.
func setIntPtr(dst **int, v any) error {
	n, err := coerceNumber(v)
	if err != nil {
		return err
	}
	rounded := int(math.Round(n))
	*dst = &rounded
	return nil
}

func setBool(dst *bool, v any) error {
	b, err := coerceBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}
