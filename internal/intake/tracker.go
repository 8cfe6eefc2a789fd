package intake

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/teigesaccord/sandy/internal/profile"
)

// ErrUnknownSection reports a section id absent from the catalog. This is a
// caller bug, not user input, so it surfaces as an error value.
var ErrUnknownSection = errors.New("unknown section")

// RecordSectionCompletion marks a section as completed and recomputes the
// profile's intake status: the completed set keeps set semantics, the
// completion percentage is re-derived from the catalog (never incremented),
// and IsCompleted flips once every section is in the set. Re-recording an
// already completed section only moves LastUpdatedSection and the updated
// timestamp.
func (e *Engine) RecordSectionCompletion(p *profile.Profile, sectionID string) error {
	if _, ok := e.catalog.Section(sectionID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, sectionID)
	}

	p.Intake.MarkCompleted(sectionID)
	e.recomputeStatus(p)
	p.UpdatedAt = time.Now().UTC()

	e.log.Debug("section completion recorded",
		"user_id", p.UserID,
		"section_id", sectionID,
		"completion_percentage", p.Intake.CompletionPercentage,
		"is_completed", p.Intake.IsCompleted)
	return nil
}

// recomputeStatus re-derives percentage and completion from the completed
// set. Sections no longer present in the catalog are ignored, so a profile
// written under an older questionnaire version cannot exceed 100%.
func (e *Engine) recomputeStatus(p *profile.Profile) {
	total := e.catalog.Len()
	if total == 0 {
		p.Intake.CompletionPercentage = 0
		p.Intake.IsCompleted = false
		return
	}

	done := 0
	for _, id := range e.catalog.SectionIDs() {
		if p.Intake.HasCompleted(id) {
			done++
		}
	}

	p.Intake.CompletionPercentage = int(math.Round(100 * float64(done) / float64(total)))
	p.Intake.IsCompleted = done == total
}

// NextSection returns the first section, in catalog order, not yet completed.
// The second return is false once every section is completed.
func (e *Engine) NextSection(p *profile.Profile) (string, bool) {
	for _, id := range e.catalog.SectionIDs() {
		if !p.Intake.HasCompleted(id) {
			return id, true
		}
	}
	return "", false
}

// Signal summarizes intake progress for callers routing the user.
func (e *Engine) Signal(p *profile.Profile) CompletionSignal {
	sig := CompletionSignal{
		CompletionPercentage: p.Intake.CompletionPercentage,
		IsCompleted:          p.Intake.IsCompleted,
	}
	if next, ok := e.NextSection(p); ok {
		sig.NextSection = &next
	}
	return sig
}

// State reports where the profile is in the intake flow. Completed is
// terminal but re-enterable: editing a section keeps the completed state.
func (e *Engine) State(p *profile.Profile) State {
	switch {
	case p.Intake.IsCompleted:
		return StateCompleted
	case len(p.Intake.CompletedSections) == 0:
		return StateNotStarted
	default:
		return StateInProgress
	}
}

// fieldProbe reports whether one declared profile leaf holds a value.
type fieldProbe func(p *profile.Profile) bool

func stringProbe(get func(p *profile.Profile) string) fieldProbe {
	return func(p *profile.Profile) bool { return get(p) != "" }
}

func listProbe(get func(p *profile.Profile) []string) fieldProbe {
	return func(p *profile.Profile) bool { return len(get(p)) > 0 }
}

// fieldProbes enumerates the profile leaves counted by the field-population
// metric, mirroring the declared intake groups.
var fieldProbes = []fieldProbe{
	stringProbe(func(p *profile.Profile) string { return p.Personal.Name }),
	stringProbe(func(p *profile.Profile) string { return p.Personal.AgeRange }),
	stringProbe(func(p *profile.Profile) string { return p.Personal.Location }),

	stringProbe(func(p *profile.Profile) string { return p.Physical.MobilityLevel }),
	listProbe(func(p *profile.Profile) []string { return p.Physical.Limitations }),
	stringProbe(func(p *profile.Profile) string { return p.Physical.TremorDetails }),
	listProbe(func(p *profile.Profile) []string { return p.Physical.ChronicConditions }),
	func(p *profile.Profile) bool { return p.Physical.PainLevel != nil },
	stringProbe(func(p *profile.Profile) string { return p.Physical.ExerciseTolerance }),
	listProbe(func(p *profile.Profile) []string { return p.Physical.AssistiveDevices }),

	stringProbe(func(p *profile.Profile) string { return p.Energy.Level }),
	listProbe(func(p *profile.Profile) []string { return p.Energy.Patterns }),
	stringProbe(func(p *profile.Profile) string { return p.Energy.PeakTime }),
	listProbe(func(p *profile.Profile) []string { return p.Energy.FatigueTriggers }),

	stringProbe(func(p *profile.Profile) string { return p.Preferences.CommunicationStyle }),
	stringProbe(func(p *profile.Profile) string { return p.Preferences.ResponseLength }),
	listProbe(func(p *profile.Profile) []string { return p.Preferences.Topics }),

	stringProbe(func(p *profile.Profile) string { return p.Goals.Primary }),
	listProbe(func(p *profile.Profile) []string { return p.Goals.ShortTerm }),
	stringProbe(func(p *profile.Profile) string { return p.Goals.Timeline }),

	stringProbe(func(p *profile.Profile) string { return p.Work.Industry }),
	stringProbe(func(p *profile.Profile) string { return p.Work.Role }),
	func(p *profile.Profile) bool { return p.Work.YearsExperience > 0 },
	listProbe(func(p *profile.Profile) []string { return p.Work.Challenges }),

	stringProbe(func(p *profile.Profile) string { return p.Support.Family }),
	func(p *profile.Profile) bool { return p.Support.Professional },
	stringProbe(func(p *profile.Profile) string { return p.Support.ProfessionalType }),
	listProbe(func(p *profile.Profile) []string { return p.Support.Groups }),
}

// FieldCompletionPercentage reports how much of the declared profile surface
// holds values. This is a display metric for dashboards; the section-based
// percentage on IntakeStatus is the canonical gating metric and the two are
// not required to agree.
func (e *Engine) FieldCompletionPercentage(p *profile.Profile) int {
	filled := 0
	for _, probe := range fieldProbes {
		if probe(p) {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(fieldProbes))))
}
