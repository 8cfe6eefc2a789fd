// Package profile defines the long-lived per-user aggregate: intake-sourced
// personal data, conversation history, interaction history, and intake
// status. Profiles are persisted as a whole document; this package owns the
// in-memory invariants (message cap, section set semantics, timestamps).
package profile

import (
	"time"

	"github.com/google/uuid"
)

// MaxConversationMessages bounds the conversation history held on the
// profile. Appends beyond the cap evict the oldest entries first.
const MaxConversationMessages = 100

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationMessage is one turn of the conversation, append-only from the
// core's perspective.
type ConversationMessage struct {
	ID        string            `json:"id"`
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewMessage builds a conversation message with a fresh id and UTC timestamp.
func NewMessage(role Role, content string) ConversationMessage {
	return ConversationMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// PersonalInfo holds the basics collected in the first intake section.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	AgeRange string `json:"ageRange,omitempty"`
	Location string `json:"location,omitempty"`
}

// PhysicalNeeds holds physical and accessibility details. PainLevel is a
// pointer so an answered level of zero is distinguishable from unanswered.
type PhysicalNeeds struct {
	MobilityLevel     string   `json:"mobilityLevel,omitempty"`
	Limitations       []string `json:"limitations,omitempty"`
	TremorDetails     string   `json:"tremorDetails,omitempty"`
	ChronicConditions []string `json:"chronicConditions,omitempty"`
	PainLevel         *int     `json:"painLevel,omitempty"`
	ExerciseTolerance string   `json:"exerciseTolerance,omitempty"`
	AssistiveDevices  []string `json:"assistiveDevices,omitempty"`
}

// EnergyProfile describes how the user's energy behaves over a day.
type EnergyProfile struct {
	Level           string   `json:"level,omitempty"`
	Patterns        []string `json:"patterns,omitempty"`
	PeakTime        string   `json:"peakTime,omitempty"`
	FatigueTriggers []string `json:"fatigueTriggers,omitempty"`
}

// Preferences holds communication preferences.
type Preferences struct {
	CommunicationStyle string   `json:"communicationStyle,omitempty"`
	ResponseLength     string   `json:"responseLength,omitempty"`
	Topics             []string `json:"topics,omitempty"`
}

// Goals holds what the user wants to achieve.
type Goals struct {
	Primary   string   `json:"primary,omitempty"`
	ShortTerm []string `json:"shortTerm,omitempty"`
	Timeline  string   `json:"timeline,omitempty"`
}

// WorkContext holds optional occupational background.
type WorkContext struct {
	Industry        string   `json:"industry,omitempty"`
	Role            string   `json:"role,omitempty"`
	YearsExperience int      `json:"yearsExperience,omitempty"`
	Challenges      []string `json:"challenges,omitempty"`
}

// SupportNetwork describes who is available to help.
type SupportNetwork struct {
	Family           string   `json:"family,omitempty"`
	Professional     bool     `json:"professional"`
	ProfessionalType string   `json:"professionalType,omitempty"`
	Groups           []string `json:"groups,omitempty"`
}

// InteractionHistory accumulates signals from chat and recommendation flows.
type InteractionHistory struct {
	TotalInteractions         int       `json:"totalInteractions"`
	LastInteraction           time.Time `json:"lastInteraction,omitempty"`
	PreferredTopics           []string  `json:"preferredTopics,omitempty"`
	SuccessfulRecommendations []string  `json:"successfulRecommendations,omitempty"`
	DeclinedRecommendations   []string  `json:"declinedRecommendations,omitempty"`
}

// IntakeStatus tracks progress through the intake questionnaire. The
// completion percentage is always recomputed from current state by the
// intake tracker and never drifts from the section set.
type IntakeStatus struct {
	IsCompleted          bool     `json:"isCompleted"`
	CompletedSections    []string `json:"completedSections,omitempty"`
	LastUpdatedSection   string   `json:"lastUpdatedSection,omitempty"`
	CompletionPercentage int      `json:"completionPercentage"`
}

// HasCompleted reports whether the section is in the completed set.
func (s *IntakeStatus) HasCompleted(sectionID string) bool {
	for _, id := range s.CompletedSections {
		if id == sectionID {
			return true
		}
	}
	return false
}

// MarkCompleted adds the section to the completed set, preserving set
// semantics (no duplicates).
func (s *IntakeStatus) MarkCompleted(sectionID string) {
	if !s.HasCompleted(sectionID) {
		s.CompletedSections = append(s.CompletedSections, sectionID)
	}
	s.LastUpdatedSection = sectionID
}

// Profile is the per-user aggregate.
type Profile struct {
	UserID string `json:"userId"`

	Personal    PersonalInfo   `json:"personal"`
	Physical    PhysicalNeeds  `json:"physical"`
	Energy      EnergyProfile  `json:"energy"`
	Preferences Preferences    `json:"preferences"`
	Goals       Goals          `json:"goals"`
	Work        WorkContext    `json:"work"`
	Support     SupportNetwork `json:"support"`

	ConversationHistory []ConversationMessage `json:"conversationHistory,omitempty"`
	Interactions        InteractionHistory    `json:"interactionHistory"`
	Intake              IntakeStatus          `json:"intakeStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a default-initialized profile for a user id: empty nested
// groups, no history, intake not started.
func New(userID string) *Profile {
	now := time.Now().UTC()
	return &Profile{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendMessage appends a conversation message and enforces the history cap,
// dropping the oldest entries when exceeded.
func (p *Profile) AppendMessage(msg ConversationMessage) {
	p.ConversationHistory = append(p.ConversationHistory, msg)
	if n := len(p.ConversationHistory); n > MaxConversationMessages {
		p.ConversationHistory = p.ConversationHistory[n-MaxConversationMessages:]
	}
	p.UpdatedAt = time.Now().UTC()
}

// RecordInteraction bumps the interaction counters. Topics new to the
// preferred-topics list are appended.
func (p *Profile) RecordInteraction(topics ...string) {
	p.Interactions.TotalInteractions++
	p.Interactions.LastInteraction = time.Now().UTC()
	for _, t := range topics {
		if t == "" || containsString(p.Interactions.PreferredTopics, t) {
			continue
		}
		p.Interactions.PreferredTopics = append(p.Interactions.PreferredTopics, t)
	}
	p.UpdatedAt = p.Interactions.LastInteraction
}

// RecordRecommendationOutcome records whether the user accepted a
// recommendation, feeding the successful-patterns signal used by the
// recommendation context.
func (p *Profile) RecordRecommendationOutcome(recommendationID string, accepted bool) {
	if recommendationID == "" {
		return
	}
	if accepted {
		p.Interactions.SuccessfulRecommendations = append(p.Interactions.SuccessfulRecommendations, recommendationID)
	} else {
		p.Interactions.DeclinedRecommendations = append(p.Interactions.DeclinedRecommendations, recommendationID)
	}
	p.UpdatedAt = time.Now().UTC()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
