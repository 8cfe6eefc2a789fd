package catalog_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/teigesaccord/sandy/internal/catalog"
)

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New()
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return c
}

func TestNew_SectionsOrderedAndUnique(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)

	sections := c.Sections()
	if len(sections) == 0 {
		t.Fatal("catalog has no sections")
	}
	if len(sections) != c.Len() {
		t.Errorf("Len() = %d, Sections() has %d", c.Len(), len(sections))
	}

	seen := map[string]bool{}
	for i, s := range sections {
		if seen[s.ID] {
			t.Errorf("duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
		if i > 0 && sections[i-1].Order >= s.Order {
			t.Errorf("sections out of order at %q: %d then %d", s.ID, sections[i-1].Order, s.Order)
		}
	}

	ids := c.SectionIDs()
	if len(ids) != len(sections) {
		t.Fatalf("SectionIDs has %d entries, want %d", len(ids), len(sections))
	}
	for i, s := range sections {
		if ids[i] != s.ID {
			t.Errorf("SectionIDs[%d] = %q, want %q", i, ids[i], s.ID)
		}
	}
}

func TestSection_Lookup(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)

	s, ok := c.Section("personal")
	if !ok || s.ID != "personal" {
		t.Fatalf("Section(personal) = %v, %v", s, ok)
	}
	if len(s.Questions) == 0 {
		t.Error("personal section has no questions")
	}

	if _, ok := c.Section("nope"); ok {
		t.Error("unknown section reported as present")
	}
}

func TestQuestions_SelectsCarryOptions(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)

	for _, s := range c.Sections() {
		for _, q := range s.Questions {
			switch q.Type {
			case catalog.TypeSelect, catalog.TypeMultiSelect:
				if len(q.Options) == 0 {
					t.Errorf("question %q is %s without options", q.ID, q.Type)
				}
			}
			if q.Field == "" {
				t.Errorf("question %q declares no profile field", q.ID)
			}
		}
	}
}

func TestHasOption(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)

	s, _ := c.Section("energy")
	var level *catalog.Question
	for i := range s.Questions {
		if s.Questions[i].ID == "energy_level" {
			level = &s.Questions[i]
		}
	}
	if level == nil {
		t.Fatal("energy_level question missing")
	}
	if !level.HasOption("moderate") {
		t.Error("moderate not accepted")
	}
	if level.HasOption("turbo") {
		t.Error("unknown option accepted")
	}
}

func TestUISections_HidesInternalWiring(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)

	ui := c.UISections()
	if len(ui) != c.Len() {
		t.Fatalf("UISections has %d entries, want %d", len(ui), c.Len())
	}

	raw, err := json.Marshal(ui)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, internal := range []string{"field", "dependsOn", "profileField"} {
		if strings.Contains(string(raw), `"`+internal+`"`) {
			t.Errorf("serialized UI sections expose %q", internal)
		}
	}
}

func TestUISections_ValidationHints(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)

	var name *catalog.UIQuestion
	for _, s := range c.UISections() {
		for i := range s.Questions {
			if s.Questions[i].ID == "name" {
				name = &s.Questions[i]
			}
		}
	}
	if name == nil {
		t.Fatal("name question missing from UI projection")
	}
	if name.Validation == nil || name.Validation.Message == "" {
		t.Fatalf("name question has no validation hint: %+v", name.Validation)
	}
	if !strings.Contains(name.Validation.Message, "characters") {
		t.Errorf("hint = %q, want length wording", name.Validation.Message)
	}
}

func TestBuild_RejectsInvalidSections(t *testing.T) {
	t.Parallel()

	question := func(id string) catalog.Question {
		return catalog.Question{ID: id, Type: catalog.TypeText, Label: id, Field: catalog.FieldName}
	}
	cases := []struct {
		name     string
		sections []catalog.Section
	}{
		{
			name: "duplicate section id",
			sections: []catalog.Section{
				{ID: "a", Title: "A", Order: 1, Questions: []catalog.Question{question("q1")}},
				{ID: "a", Title: "A again", Order: 2, Questions: []catalog.Question{question("q2")}},
			},
		},
		{
			name: "duplicate order",
			sections: []catalog.Section{
				{ID: "a", Title: "A", Order: 1, Questions: []catalog.Question{question("q1")}},
				{ID: "b", Title: "B", Order: 1, Questions: []catalog.Question{question("q2")}},
			},
		},
		{
			name: "select without options",
			sections: []catalog.Section{{
				ID: "a", Title: "A", Order: 1,
				Questions: []catalog.Question{{ID: "q", Type: catalog.TypeSelect, Label: "Q", Field: catalog.FieldName}},
			}},
		},
		{
			name: "question without field",
			sections: []catalog.Section{{
				ID: "a", Title: "A", Order: 1,
				Questions: []catalog.Question{{ID: "q", Type: catalog.TypeText, Label: "Q"}},
			}},
		},
		{
			name: "invalid pattern",
			sections: []catalog.Section{{
				ID: "a", Title: "A", Order: 1,
				Questions: []catalog.Question{{
					ID: "q", Type: catalog.TypeText, Label: "Q", Field: catalog.FieldName,
					Validation: &catalog.Rules{Pattern: `[unclosed`},
				}},
			}},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := catalog.Build(tc.sections); err == nil {
				t.Error("Build accepted invalid sections")
			}
		})
	}
}

func TestRules_MatchesPatternIsAnchored(t *testing.T) {
	t.Parallel()

	sections := []catalog.Section{{
		ID:    "s",
		Title: "S",
		Order: 1,
		Questions: []catalog.Question{{
			ID:         "code",
			Type:       catalog.TypeText,
			Label:      "Code",
			Field:      catalog.FieldName,
			Validation: &catalog.Rules{Pattern: `[a-z]{3}`},
		}},
	}}
	c, err := catalog.Build(sections)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}

	s, _ := c.Section("s")
	rules := s.Questions[0].Validation
	if !rules.MatchesPattern("abc") {
		t.Error("exact match rejected")
	}
	// A partial match is not a pass.
	if rules.MatchesPattern("abcd") || rules.MatchesPattern("xabc") {
		t.Error("pattern matched a substring, must be anchored")
	}
}
