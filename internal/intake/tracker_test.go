package intake_test

import (
	"errors"
	"testing"
	"time"

	"github.com/teigesaccord/sandy/internal/intake"
	"github.com/teigesaccord/sandy/internal/profile"
)

func TestRecordSectionCompletion_Progression(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := profile.New("u1")

	ids := e.Catalog().SectionIDs()
	total := len(ids)

	if e.State(p) != intake.StateNotStarted {
		t.Fatalf("fresh profile state = %q", e.State(p))
	}

	last := 0
	for i, id := range ids {
		if err := e.RecordSectionCompletion(p, id); err != nil {
			t.Fatalf("RecordSectionCompletion(%q) failed: %v", id, err)
		}

		pct := p.Intake.CompletionPercentage
		if pct < last {
			t.Errorf("completion percentage decreased: %d -> %d", last, pct)
		}
		if pct < 0 || pct > 100 {
			t.Errorf("completion percentage out of bounds: %d", pct)
		}
		last = pct

		wantCompleted := i == total-1
		if p.Intake.IsCompleted != wantCompleted {
			t.Errorf("after %d sections IsCompleted = %v, want %v", i+1, p.Intake.IsCompleted, wantCompleted)
		}
		if p.Intake.LastUpdatedSection != id {
			t.Errorf("LastUpdatedSection = %q, want %q", p.Intake.LastUpdatedSection, id)
		}
	}

	if p.Intake.CompletionPercentage != 100 {
		t.Errorf("final percentage = %d, want 100", p.Intake.CompletionPercentage)
	}
	if e.State(p) != intake.StateCompleted {
		t.Errorf("final state = %q", e.State(p))
	}
	if _, ok := e.NextSection(p); ok {
		t.Error("NextSection should report done after all sections completed")
	}
}

func TestRecordSectionCompletion_ResubmitKeepsSetSemantics(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := profile.New("u1")

	for _, id := range e.Catalog().SectionIDs() {
		if err := e.RecordSectionCompletion(p, id); err != nil {
			t.Fatalf("RecordSectionCompletion(%q) failed: %v", id, err)
		}
	}
	sizeBefore := len(p.Intake.CompletedSections)
	updatedBefore := p.UpdatedAt

	time.Sleep(time.Millisecond)
	if err := e.RecordSectionCompletion(p, "personal"); err != nil {
		t.Fatalf("re-recording failed: %v", err)
	}

	if len(p.Intake.CompletedSections) != sizeBefore {
		t.Errorf("completed set grew on resubmit: %d -> %d", sizeBefore, len(p.Intake.CompletedSections))
	}
	if !p.Intake.IsCompleted {
		t.Error("editing a section must keep IsCompleted true")
	}
	if p.Intake.LastUpdatedSection != "personal" {
		t.Errorf("LastUpdatedSection = %q", p.Intake.LastUpdatedSection)
	}
	if !p.UpdatedAt.After(updatedBefore) {
		t.Error("UpdatedAt did not advance on resubmit")
	}
}

func TestRecordSectionCompletion_UnknownSection(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := profile.New("u1")

	err := e.RecordSectionCompletion(p, "nope")
	if !errors.Is(err, intake.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if len(p.Intake.CompletedSections) != 0 {
		t.Error("unknown section must not be recorded")
	}
}

func TestNextSection_ScansInCatalogOrder(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := profile.New("u1")

	ids := e.Catalog().SectionIDs()

	next, ok := e.NextSection(p)
	if !ok || next != ids[0] {
		t.Fatalf("fresh profile NextSection = %q, want %q", next, ids[0])
	}

	// Completing a later section out of order must not skip earlier ones.
	if err := e.RecordSectionCompletion(p, ids[2]); err != nil {
		t.Fatalf("RecordSectionCompletion failed: %v", err)
	}
	next, ok = e.NextSection(p)
	if !ok || next != ids[0] {
		t.Errorf("NextSection = %q, want first incomplete %q", next, ids[0])
	}

	if err := e.RecordSectionCompletion(p, ids[0]); err != nil {
		t.Fatalf("RecordSectionCompletion failed: %v", err)
	}
	next, ok = e.NextSection(p)
	if !ok || next != ids[1] {
		t.Errorf("NextSection = %q, want %q", next, ids[1])
	}
}

func TestSignal_Shape(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := profile.New("u1")

	sig := e.Signal(p)
	if sig.CompletionPercentage != 0 || sig.IsCompleted {
		t.Errorf("fresh signal = %+v", sig)
	}
	if sig.NextSection == nil || *sig.NextSection != e.Catalog().SectionIDs()[0] {
		t.Errorf("fresh signal NextSection = %v", sig.NextSection)
	}

	for _, id := range e.Catalog().SectionIDs() {
		if err := e.RecordSectionCompletion(p, id); err != nil {
			t.Fatalf("RecordSectionCompletion failed: %v", err)
		}
	}
	sig = e.Signal(p)
	if !sig.IsCompleted || sig.CompletionPercentage != 100 || sig.NextSection != nil {
		t.Errorf("completed signal = %+v", sig)
	}
}

func TestFieldCompletionPercentage(t *testing.T) {
	t.Parallel()
	e := newEngine(t)

	empty := profile.New("u1")
	if got := e.FieldCompletionPercentage(empty); got != 0 {
		t.Errorf("empty profile field percentage = %d, want 0", got)
	}

	partial := profile.New("u2")
	partial.Personal.Name = "Alex"
	partial.Energy.Level = "low"
	partial.Goals.ShortTerm = []string{"rest more"}
	got := e.FieldCompletionPercentage(partial)
	if got <= 0 || got >= 100 {
		t.Errorf("partial profile field percentage = %d, want within (0, 100)", got)
	}
}

func TestFieldCompletionPercentage_AnsweredZeroPainCounts(t *testing.T) {
	t.Parallel()
	e := newEngine(t)

	p := profile.New("u1")
	base := e.FieldCompletionPercentage(p)

	// Pain scale starts at 0, so an answered 0 must read as filled.
	pain := 0
	p.Physical.PainLevel = &pain
	if got := e.FieldCompletionPercentage(p); got <= base {
		t.Errorf("field percentage = %d after answering pain 0, want above %d", got, base)
	}
}

func TestSectionScenario_FourSubmissionsTrackPercentage(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := profile.New("u1")

	ids := e.Catalog().SectionIDs()
	total := len(ids)

	for i := 0; i < total-1; i++ {
		if err := e.RecordSectionCompletion(p, ids[i]); err != nil {
			t.Fatalf("RecordSectionCompletion failed: %v", err)
		}
	}

	wantPartial := int(float64(total-1)/float64(total)*100 + 0.5)
	if p.Intake.CompletionPercentage != wantPartial {
		t.Errorf("percentage before last section = %d, want %d", p.Intake.CompletionPercentage, wantPartial)
	}
	if p.Intake.IsCompleted {
		t.Error("IsCompleted must be false with one section left")
	}

	if err := e.RecordSectionCompletion(p, ids[total-1]); err != nil {
		t.Fatalf("RecordSectionCompletion failed: %v", err)
	}
	if p.Intake.CompletionPercentage != 100 || !p.Intake.IsCompleted {
		t.Errorf("final status = %+v", p.Intake)
	}
}
