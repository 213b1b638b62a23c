package service

import "backend/internal/models"

const maxInterventions = 5

// generateInterventions maps a crisis level and detected factors to an
// ordered list of intervention strings. The level-specific base list takes
// priority over factor-specific additions; the result is capped at five.
func generateInterventions(level models.CrisisLevel, factors []models.RiskFactor) []string {
	var interventions []string

	switch level {
	case models.CrisisLevelCritical:
		interventions = append(interventions,
			"Immediate professional intervention required",
			"Contact emergency services (911) if in immediate danger",
			"Call 988 Suicide & Crisis Lifeline immediately",
			"Do not leave person alone",
			"Remove any means of self-harm",
		)
	case models.CrisisLevelHigh:
		interventions = append(interventions,
			"Contact crisis support immediately: 988",
			"Reach out to a trusted person",
			"Consider emergency room if feeling unsafe",
			"Remove access to means of harm",
			"Create safety plan",
		)
	case models.CrisisLevelMedium:
		interventions = append(interventions,
			"Connect with mental health professional",
			"Use crisis text line: Text HOME to 741741",
			"Practice grounding techniques",
			"Reach out to support network",
			"Schedule therapy appointment",
		)
	case models.CrisisLevelLow:
		interventions = append(interventions,
			"Monitor mood closely",
			"Practice self-care activities",
			"Consider counseling",
			"Use stress reduction techniques",
			"Stay connected with others",
		)
	}

	for _, factor := range factors {
		switch factor {
		case models.FactorIsolation:
			interventions = append(interventions, "Focus on social connection and support")
		case models.FactorSubstanceAbuse:
			interventions = append(interventions, "Consider addiction treatment resources")
		case models.FactorTrauma:
			interventions = append(interventions, "Seek trauma-informed therapy")
		}
	}

	if len(interventions) > maxInterventions {
		interventions = interventions[:maxInterventions]
	}
	return interventions
}

// relevantResources selects safety resources for the assessment in catalog
// declaration order: up to three emergency resources for levels above low,
// then up to two general resources.
func (s *crisisService) relevantResources(level models.CrisisLevel) []models.SafetyResource {
	var selected []models.SafetyResource

	if level != models.CrisisLevelNone && level != models.CrisisLevelLow {
		count := 0
		for _, r := range s.resources {
			if r.IsEmergency {
				selected = append(selected, r)
				count++
				if count == 3 {
					break
				}
			}
		}
	}

	count := 0
	for _, r := range s.resources {
		if !r.IsEmergency {
			selected = append(selected, r)
			count++
			if count == 2 {
				break
			}
		}
	}

	return selected
}
