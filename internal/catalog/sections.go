package catalog

func floatPtr(v float64) *float64 { return &v }

// defaultSections returns the built-in intake questionnaire. Section ids and
// question ids are stable identifiers persisted in profiles; renaming them is
// a breaking change for existing users.
func defaultSections() []Section {
	return []Section{
		{
			ID:          "personal",
			Title:       "About You",
			Description: "A few basics so responses can address you properly.",
			Order:       1,
			Required:    true,
			Questions: []Question{
				{
					ID:       "name",
					Type:     TypeText,
					Label:    "Name",
					Required: true,
					Field:    FieldName,
					Validation: &Rules{
						MinLength: 2,
						MaxLength: 100,
					},
				},
				{
					ID:    "age_range",
					Type:  TypeSelect,
					Label: "Age range",
					Field: FieldAgeRange,
					Options: []Option{
						{Value: "under_18", Label: "Under 18"},
						{Value: "18_29", Label: "18-29"},
						{Value: "30_44", Label: "30-44"},
						{Value: "45_59", Label: "45-59"},
						{Value: "60_plus", Label: "60+"},
					},
				},
				{
					ID:          "location",
					Type:        TypeText,
					Label:       "Location",
					Placeholder: "City, country",
					Field:       FieldLocation,
					Validation: &Rules{
						MaxLength: 120,
					},
				},
			},
		},
		{
			ID:          "physical_needs",
			Title:       "Physical & Accessibility Needs",
			Description: "Helps tailor suggestions to what your body can comfortably do.",
			Order:       2,
			Required:    true,
			Questions: []Question{
				{
					ID:       "mobility_level",
					Type:     TypeSelect,
					Label:    "Mobility level",
					Required: true,
					Field:    FieldMobilityLevel,
					Options: []Option{
						{Value: "full", Label: "Fully mobile"},
						{Value: "some_limitations", Label: "Some limitations"},
						{Value: "significant_limitations", Label: "Significant limitations"},
						{Value: "wheelchair", Label: "Wheelchair user"},
					},
				},
				{
					ID:          "physical_needs",
					Type:        TypeText,
					Label:       "Physical limitations",
					Placeholder: "e.g. fine_motor_control, hand_tremors",
					Field:       FieldPhysicalLimitations,
					Coercion:    CoerceCSVToArray,
				},
				{
					ID:        "tremor_details",
					Type:      TypeTextarea,
					Label:     "Tremor details",
					Field:     FieldTremorDetails,
					DependsOn: &Dependency{Question: "physical_needs", Condition: CondIncludes, Value: "hand_tremors"},
					Validation: &Rules{
						MaxLength: 500,
					},
				},
				{
					ID:          "chronic_conditions",
					Type:        TypeText,
					Label:       "Chronic conditions",
					Placeholder: "Comma-separated, leave blank if none",
					Field:       FieldChronicConditions,
					Coercion:    CoerceCSVToArray,
				},
				{
					ID:       "pain_level",
					Type:     TypeScale,
					Label:    "Typical pain level",
					Required: true,
					Field:    FieldPainLevel,
					Validation: &Rules{
						Min: floatPtr(0),
						Max: floatPtr(10),
					},
				},
				{
					ID:    "exercise_tolerance",
					Type:  TypeSelect,
					Label: "Exercise tolerance",
					Field: FieldExerciseTolerance,
					Options: []Option{
						{Value: "none", Label: "None right now"},
						{Value: "light", Label: "Light activity"},
						{Value: "moderate", Label: "Moderate activity"},
						{Value: "high", Label: "High intensity"},
					},
				},
				{
					ID:    "assistive_devices",
					Type:  TypeMultiSelect,
					Label: "Assistive devices",
					Field: FieldAssistiveDevices,
					Options: []Option{
						{Value: "screen_reader", Label: "Screen reader"},
						{Value: "voice_control", Label: "Voice control"},
						{Value: "mobility_aid", Label: "Mobility aid"},
						{Value: "hearing_aid", Label: "Hearing aid"},
						{Value: "none", Label: "None"},
					},
				},
			},
		},
		{
			ID:          "energy",
			Title:       "Energy Pattern",
			Description: "When you have energy shapes when and what we suggest.",
			Order:       3,
			Required:    true,
			Questions: []Question{
				{
					ID:       "energy_level",
					Type:     TypeSelect,
					Label:    "Overall energy level",
					Required: true,
					Field:    FieldEnergyLevel,
					Options: []Option{
						{Value: "very_low", Label: "Very low"},
						{Value: "low", Label: "Low"},
						{Value: "moderate", Label: "Moderate"},
						{Value: "high", Label: "High"},
					},
				},
				{
					ID:    "energy_patterns",
					Type:  TypeMultiSelect,
					Label: "Energy patterns",
					Field: FieldEnergyPatterns,
					Options: []Option{
						{Value: "morning_peak", Label: "Best in the morning"},
						{Value: "evening_peak", Label: "Best in the evening"},
						{Value: "unpredictable", Label: "Unpredictable"},
						{Value: "post_exertion_crash", Label: "Crash after exertion"},
					},
				},
				{
					ID:    "peak_time",
					Type:  TypeSelect,
					Label: "Peak time of day",
					Field: FieldPeakTime,
					Options: []Option{
						{Value: "morning", Label: "Morning"},
						{Value: "midday", Label: "Midday"},
						{Value: "afternoon", Label: "Afternoon"},
						{Value: "evening", Label: "Evening"},
					},
				},
				{
					ID:          "fatigue_triggers",
					Type:        TypeText,
					Label:       "Fatigue triggers",
					Placeholder: "e.g. screens, noise, long meetings",
					Field:       FieldFatigueTriggers,
					Coercion:    CoerceCSVToArray,
				},
			},
		},
		{
			ID:          "preferences",
			Title:       "Communication Preferences",
			Description: "How you'd like replies to read.",
			Order:       4,
			Required:    true,
			Questions: []Question{
				{
					ID:       "communication_style",
					Type:     TypeSelect,
					Label:    "Communication style",
					Required: true,
					Field:    FieldCommunicationStyle,
					Options: []Option{
						{Value: "direct", Label: "Direct and to the point"},
						{Value: "encouraging", Label: "Warm and encouraging"},
						{Value: "detailed", Label: "Detailed and thorough"},
					},
				},
				{
					ID:    "response_length",
					Type:  TypeSelect,
					Label: "Preferred response length",
					Field: FieldResponseLength,
					Options: []Option{
						{Value: "brief", Label: "Brief"},
						{Value: "medium", Label: "Medium"},
						{Value: "detailed", Label: "Detailed"},
					},
				},
				{
					ID:    "preferred_topics",
					Type:  TypeMultiSelect,
					Label: "Topics you care about",
					Field: FieldPreferredTopics,
					Options: []Option{
						{Value: "pacing", Label: "Pacing and rest"},
						{Value: "workplace", Label: "Workplace accommodations"},
						{Value: "exercise", Label: "Gentle exercise"},
						{Value: "nutrition", Label: "Nutrition"},
						{Value: "mental_health", Label: "Mental health"},
						{Value: "tools", Label: "Assistive tools"},
					},
				},
			},
		},
		{
			ID:          "goals",
			Title:       "Goals",
			Description: "What you want to get out of this.",
			Order:       5,
			Required:    true,
			Questions: []Question{
				{
					ID:       "primary_goal",
					Type:     TypeTextarea,
					Label:    "Primary goal",
					Required: true,
					Field:    FieldPrimaryGoal,
					Validation: &Rules{
						MinLength: 3,
						MaxLength: 1000,
					},
				},
				{
					ID:          "short_term_goals",
					Type:        TypeText,
					Label:       "Short-term goals",
					Placeholder: "Comma-separated",
					Field:       FieldShortTermGoals,
					Coercion:    CoerceCSVToArray,
				},
				{
					ID:    "timeline",
					Type:  TypeSelect,
					Label: "Timeline",
					Field: FieldGoalTimeline,
					Options: []Option{
						{Value: "weeks", Label: "Next few weeks"},
						{Value: "months", Label: "Next few months"},
						{Value: "year", Label: "This year"},
						{Value: "open_ended", Label: "Open-ended"},
					},
				},
			},
		},
		{
			ID:          "work_context",
			Title:       "Work & Daily Context",
			Description: "Optional background that makes recommendations concrete.",
			Order:       6,
			Required:    false,
			Questions: []Question{
				{
					ID:    "industry",
					Type:  TypeText,
					Label: "Industry",
					Field: FieldIndustry,
					Validation: &Rules{
						MaxLength: 120,
					},
				},
				{
					ID:    "role",
					Type:  TypeText,
					Label: "Role",
					Field: FieldRole,
					Validation: &Rules{
						MaxLength: 120,
					},
				},
				{
					ID:    "years_experience",
					Type:  TypeNumber,
					Label: "Years of experience",
					Field: FieldYearsExperience,
					Validation: &Rules{
						Min: floatPtr(0),
						Max: floatPtr(70),
					},
				},
				{
					ID:          "main_challenges",
					Type:        TypeText,
					Label:       "Main challenges",
					Placeholder: "Comma-separated",
					Field:       FieldMainChallenges,
					Coercion:    CoerceCSVToArray,
				},
			},
		},
		{
			ID:          "support",
			Title:       "Support Network",
			Description: "Who is around to help.",
			Order:       7,
			Required:    true,
			Questions: []Question{
				{
					ID:       "family_support",
					Type:     TypeSelect,
					Label:    "Family support",
					Required: true,
					Field:    FieldFamilySupport,
					Options: []Option{
						{Value: "strong", Label: "Strong"},
						{Value: "some", Label: "Some"},
						{Value: "limited", Label: "Limited"},
						{Value: "none", Label: "None"},
					},
				},
				{
					ID:       "professional_support",
					Type:     TypeBoolean,
					Label:    "Do you have professional support?",
					Required: true,
					Field:    FieldProfessionalSupport,
				},
				{
					ID:        "professional_type",
					Type:      TypeSelect,
					Label:     "Type of professional support",
					Field:     FieldProfessionalType,
					DependsOn: &Dependency{Question: "professional_support", Condition: CondEquals, Value: "true"},
					Options: []Option{
						{Value: "therapist", Label: "Therapist"},
						{Value: "physician", Label: "Physician"},
						{Value: "occupational_therapist", Label: "Occupational therapist"},
						{Value: "coach", Label: "Coach"},
						{Value: "other", Label: "Other"},
					},
				},
				{
					ID:    "support_groups",
					Type:  TypeMultiSelect,
					Label: "Support groups",
					Field: FieldSupportGroups,
					Options: []Option{
						{Value: "online_community", Label: "Online community"},
						{Value: "local_group", Label: "Local group"},
						{Value: "condition_specific", Label: "Condition-specific group"},
						{Value: "none", Label: "None"},
					},
				},
			},
		},
	}
}
