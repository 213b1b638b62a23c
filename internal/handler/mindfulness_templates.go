package handler

import "backend/internal/models"

// sessionTemplates returns the predefined practice catalog, keyed by
// session type.
func sessionTemplates() map[string][]models.SessionTemplate {
	return map[string][]models.SessionTemplate{
		"breathing": {
			{
				Title:           "4-7-8 Breathing",
				Description:     "A calming breathing technique where you inhale for 4 counts, hold for 7, and exhale for 8.",
				DurationMinutes: 5,
				Instructions:    "Inhale through your nose for 4 counts, hold your breath for 7 counts, then exhale through your mouth for 8 counts.",
			},
			{
				Title:           "Box Breathing",
				Description:     "A simple technique used by Navy SEALs to reduce stress and improve focus.",
				DurationMinutes: 10,
				Instructions:    "Breathe in for 4 counts, hold for 4, exhale for 4, hold for 4. Repeat this cycle.",
			},
			{
				Title:           "Deep Belly Breathing",
				Description:     "Focus on breathing deeply into your diaphragm to activate relaxation response.",
				DurationMinutes: 8,
				Instructions:    "Place one hand on chest, one on belly. Breathe so only the belly hand moves.",
			},
		},
		"meditation": {
			{
				Title:           "Mindfulness Meditation",
				Description:     "Focus on the present moment and observe thoughts without judgment.",
				DurationMinutes: 15,
				Instructions:    "Sit comfortably, focus on your breath, and gently return attention when mind wanders.",
			},
			{
				Title:           "Loving-Kindness Meditation",
				Description:     "Cultivate feelings of love and compassion for yourself and others.",
				DurationMinutes: 20,
				Instructions:    "Start with loving yourself, then extend those feelings to loved ones, neutral people, and all beings.",
			},
			{
				Title:           "Quick Centering",
				Description:     "A brief meditation to center yourself during busy days.",
				DurationMinutes: 5,
				Instructions:    "Take 3 deep breaths, scan your body, and set an intention for the day.",
			},
		},
		"body_scan": {
			{
				Title:           "Progressive Body Scan",
				Description:     "Systematically relax each part of your body from head to toe.",
				DurationMinutes: 20,
				Instructions:    "Start at the top of your head and slowly move attention down through each body part.",
			},
			{
				Title:           "Quick Body Check",
				Description:     "A brief scan to identify and release tension.",
				DurationMinutes: 8,
				Instructions:    "Notice where you hold tension and consciously relax those areas.",
			},
		},
		"progressive_relaxation": {
			{
				Title:           "Muscle Tension Release",
				Description:     "Tense and release each muscle group to achieve deep relaxation.",
				DurationMinutes: 15,
				Instructions:    "Tense each muscle group for 5 seconds, then release and notice the relaxation.",
			},
			{
				Title:           "Guided Imagery",
				Description:     "Use visualization to create a peaceful mental space.",
				DurationMinutes: 12,
				Instructions:    "Imagine a peaceful place in detail, engaging all your senses.",
			},
		},
	}
}
