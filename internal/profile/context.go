package profile

// NeedsMoreInfoThreshold is the completion percentage below which the AI is
// instructed to ask clarifying questions instead of giving concrete
// recommendations. Fixed business rule.
const NeedsMoreInfoThreshold = 70

// successfulPatternWindow is how many of the most recent accepted
// recommendation ids are surfaced to the AI.
const successfulPatternWindow = 5

// PhysicalCapabilities is the physical slice of the personalization context.
type PhysicalCapabilities struct {
	Mobility   string   `json:"mobility"`
	Exercise   string   `json:"exercise"`
	Pain       int      `json:"pain"`
	Conditions []string `json:"conditions"`
}

// EnergyContext is the energy slice of the personalization context.
type EnergyContext struct {
	Patterns        []string `json:"patterns"`
	PeakTime        string   `json:"peakTime"`
	FatigueTriggers []string `json:"fatigueTriggers"`
}

// CommunicationPrefs is the communication slice of the personalization context.
type CommunicationPrefs struct {
	Style          string   `json:"style"`
	ResponseLength string   `json:"responseLength"`
	Topics         []string `json:"topics"`
}

// CurrentGoals is the goals slice of the personalization context.
type CurrentGoals struct {
	Priority  string   `json:"priority"`
	ShortTerm []string `json:"shortTerm"`
	Timeline  string   `json:"timeline"`
}

// SupportLevel is the support-network slice of the personalization context.
type SupportLevel struct {
	Family                string `json:"family"`
	ProfessionalAvailable bool   `json:"professionalAvailable"`
}

// SituationContext is the occupational slice of the personalization context.
type SituationContext struct {
	Industry   string   `json:"industry"`
	Role       string   `json:"role"`
	Experience int      `json:"experience"`
	Challenges []string `json:"challenges"`
}

// PersonalizationContext is the compact, stable-shaped summary of a profile
// handed to the AI collaborator with every request. It is derived on demand
// and never stored. Every field is present, with empty defaults, so the
// consumer never sees missing keys.
type PersonalizationContext struct {
	PhysicalCapabilities PhysicalCapabilities `json:"physicalCapabilities"`
	EnergyProfile        EnergyContext        `json:"energyProfile"`
	CommunicationPrefs   CommunicationPrefs   `json:"communicationPrefs"`
	CurrentGoals         CurrentGoals         `json:"currentGoals"`
	SupportLevel         SupportLevel         `json:"supportLevel"`
	Context              SituationContext     `json:"context"`
}

// RecommendationContext extends the personalization context with the signals
// the recommendation flow needs: how complete the profile is, whether the AI
// should gather information instead of recommending, and which past
// recommendations landed.
type RecommendationContext struct {
	PersonalizationContext

	ProfileCompleteness int      `json:"profileCompleteness"`
	NeedsMoreInfo       bool     `json:"needsMoreInfo"`
	RecentInteractions  int      `json:"recentInteractions"`
	SuccessfulPatterns  []string `json:"successfulPatterns"`
}

// BuildContext reduces a profile to its personalization context. Slices are
// always non-nil so the serialized form has no null holes.
func BuildContext(p *Profile) PersonalizationContext {
	return PersonalizationContext{
		PhysicalCapabilities: PhysicalCapabilities{
			Mobility:   p.Physical.MobilityLevel,
			Exercise:   p.Physical.ExerciseTolerance,
			Pain:       intOrZero(p.Physical.PainLevel),
			Conditions: emptyIfNil(p.Physical.ChronicConditions),
		},
		EnergyProfile: EnergyContext{
			Patterns:        emptyIfNil(p.Energy.Patterns),
			PeakTime:        p.Energy.PeakTime,
			FatigueTriggers: emptyIfNil(p.Energy.FatigueTriggers),
		},
		CommunicationPrefs: CommunicationPrefs{
			Style:          p.Preferences.CommunicationStyle,
			ResponseLength: p.Preferences.ResponseLength,
			Topics:         emptyIfNil(p.Preferences.Topics),
		},
		CurrentGoals: CurrentGoals{
			Priority:  p.Goals.Primary,
			ShortTerm: emptyIfNil(p.Goals.ShortTerm),
			Timeline:  p.Goals.Timeline,
		},
		SupportLevel: SupportLevel{
			Family:                p.Support.Family,
			ProfessionalAvailable: p.Support.Professional,
		},
		Context: SituationContext{
			Industry:   p.Work.Industry,
			Role:       p.Work.Role,
			Experience: p.Work.YearsExperience,
			Challenges: emptyIfNil(p.Work.Challenges),
		},
	}
}

// BuildRecommendationContext extends BuildContext with completeness and
// recommendation-history signals. Completeness is the section-based intake
// percentage, which is the canonical gating metric.
func BuildRecommendationContext(p *Profile) RecommendationContext {
	return RecommendationContext{
		PersonalizationContext: BuildContext(p),
		ProfileCompleteness:    p.Intake.CompletionPercentage,
		NeedsMoreInfo:          p.Intake.CompletionPercentage < NeedsMoreInfoThreshold,
		RecentInteractions:     p.Interactions.TotalInteractions,
		SuccessfulPatterns:     lastN(p.Interactions.SuccessfulRecommendations, successfulPatternWindow),
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func lastN(s []string, n int) []string {
	if len(s) <= n {
		return emptyIfNil(s)
	}
	return s[len(s)-n:]
}
