package catalog

// Field is the closed set of profile locations an answer can project onto.
// The intake projector maintains a setter per field; a Field value without a
// setter is a configuration error surfaced at projection time, never a silent
// overwrite.
type Field string

const (
	FieldName     Field = "personal.name"
	FieldAgeRange Field = "personal.age_range"
	FieldLocation Field = "personal.location"

	FieldMobilityLevel       Field = "physical.mobility_level"
	FieldPhysicalLimitations Field = "physical.limitations"
	FieldChronicConditions   Field = "physical.chronic_conditions"
	FieldPainLevel           Field = "physical.pain_level"
	FieldExerciseTolerance   Field = "physical.exercise_tolerance"
	FieldAssistiveDevices    Field = "physical.assistive_devices"
	FieldTremorDetails       Field = "physical.tremor_details"

	FieldEnergyLevel     Field = "energy.level"
	FieldEnergyPatterns  Field = "energy.patterns"
	FieldPeakTime        Field = "energy.peak_time"
	FieldFatigueTriggers Field = "energy.fatigue_triggers"

	FieldCommunicationStyle Field = "preferences.communication_style"
	FieldResponseLength     Field = "preferences.response_length"
	FieldPreferredTopics    Field = "preferences.topics"

	FieldPrimaryGoal    Field = "goals.primary"
	FieldShortTermGoals Field = "goals.short_term"
	FieldGoalTimeline   Field = "goals.timeline"

	FieldIndustry        Field = "work.industry"
	FieldRole            Field = "work.role"
	FieldYearsExperience Field = "work.years_experience"
	FieldMainChallenges  Field = "work.challenges"

	FieldFamilySupport       Field = "support.family"
	FieldProfessionalSupport Field = "support.professional"
	FieldProfessionalType    Field = "support.professional_type"
	FieldSupportGroups       Field = "support.groups"
)
