package service

import "backend/internal/models"

// crisisPatterns returns the keyword pattern catalog. Built once per service;
// read-only afterwards.
func crisisPatterns() []models.CrisisPattern {
	return []models.CrisisPattern{
		{
			Keywords: []string{
				"suicide", "kill myself", "end my life", "want to die",
				"better off dead", "not worth living", "take my own life",
				"end it all", "don't want to be here", "world without me",
			},
			Factor:                  models.FactorSuicidalIdeation,
			SeverityWeight:          1.0,
			RequiresImmediateAction: true,
			ContextModifiers:        []string{"plan", "method", "when", "how", "tonight", "today"},
		},
		{
			Keywords: []string{
				"hurt myself", "cut myself", "self harm", "self-harm",
				"cutting", "burning", "hitting myself", "punish myself",
				"deserve pain", "make it stop",
			},
			Factor:                  models.FactorSelfHarm,
			SeverityWeight:          0.9,
			RequiresImmediateAction: true,
		},
		{
			Keywords: []string{
				"hopeless", "no point", "pointless", "give up", "can't go on",
				"no future", "nothing matters", "why bother", "no way out",
				"trapped", "stuck forever",
			},
			Factor:           models.FactorHopelessness,
			SeverityWeight:   0.8,
			ContextModifiers: []string{"always", "never", "forever", "everyone", "nothing"},
		},
		{
			Keywords: []string{
				"want to disappear", "invisible", "burden to everyone",
				"everyone hates me", "worthless", "useless", "failure",
				"can't do anything right", "ruined everything",
			},
			Factor:         models.FactorDepression,
			SeverityWeight: 0.7,
		},
		{
			Keywords: []string{
				"drinking too much", "can't stop drinking", "need drugs",
				"overdose", "too many pills", "using again", "relapsed",
				"out of control", "addiction",
			},
			Factor:         models.FactorSubstanceAbuse,
			SeverityWeight: 0.6,
		},
		{
			Keywords: []string{
				"nobody cares", "all alone", "no friends", "isolated",
				"pushing everyone away", "can't talk to anyone",
				"no one understands", "abandoned",
			},
			Factor:         models.FactorIsolation,
			SeverityWeight: 0.5,
		},
		{
			Keywords: []string{
				"flashbacks", "nightmares", "can't forget", "reliving",
				"traumatized", "ptsd", "triggered", "memories won't stop",
			},
			Factor:         models.FactorTrauma,
			SeverityWeight: 0.6,
		},
	}
}

// safetyResources returns the static resource catalog. Declaration order is
// the selection order for assessments, for reproducibility.
func safetyResources() []models.SafetyResource {
	return []models.SafetyResource{
		{
			Name:         "988 Suicide & Crisis Lifeline",
			Type:         "hotline",
			Contact:      "988",
			Availability: "24/7",
			Description:  "Free, confidential crisis counseling",
			CountryCode:  "US",
			Language:     "en",
			IsEmergency:  true,
		},
		{
			Name:         "Crisis Text Line",
			Type:         "text",
			Contact:      "Text HOME to 741741",
			Availability: "24/7",
			Description:  "Crisis counseling via text",
			CountryCode:  "US",
			Language:     "en",
			IsEmergency:  true,
		},
		{
			Name:         "Samaritans",
			Type:         "hotline",
			Contact:      "116 123",
			Availability: "24/7",
			Description:  "Free support for emotional distress",
			CountryCode:  "UK",
			Language:     "en",
			IsEmergency:  true,
		},
		{
			Name:         "Psychology Today Therapist Finder",
			Type:         "website",
			Contact:      "https://www.psychologytoday.com/us/therapists",
			Availability: "24/7 online",
			Description:  "Find mental health professionals near you",
			CountryCode:  "US",
			Language:     "en",
		},
		{
			Name:         "BetterHelp Online Therapy",
			Type:         "website",
			Contact:      "https://www.betterhelp.com",
			Availability: "24/7 online",
			Description:  "Professional online counseling",
			CountryCode:  "US",
			Language:     "en",
		},
		{
			Name:         "National Suicide Prevention Lifeline",
			Type:         "website",
			Contact:      "https://suicidepreventionlifeline.org",
			Availability: "24/7 online",
			Description:  "Resources and support information",
			CountryCode:  "US",
			Language:     "en",
		},
		{
			Name:         "Mind (UK)",
			Type:         "website",
			Contact:      "https://www.mind.org.uk",
			Availability: "24/7 online",
			Description:  "Mental health information and support",
			CountryCode:  "UK",
			Language:     "en",
		},
		{
			Name:         "MY3 Support Network App",
			Type:         "app",
			Contact:      "Download from app store",
			Availability: "Always available",
			Description:  "Create personal safety plan",
			CountryCode:  "US",
			Language:     "en",
		},
		{
			Name:         "Safety Plan App",
			Type:         "app",
			Contact:      "Download from app store",
			Availability: "Always available",
			Description:  "Evidence-based safety planning",
			CountryCode:  "US",
			Language:     "en",
		},
	}
}
