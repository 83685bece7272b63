package nlp

import "strings"

// longMessageThreshold selects the more empathetic reply for long messages
const longMessageThreshold = 100

var botResponses = map[string][]string{
	MoodHappy: {
		"C'est merveilleux de vous voir si positif ! Qu'est-ce qui vous rend si heureux aujourd'hui ?",
		"Votre joie est contagieuse ! Continuez à cultiver ces moments de bonheur.",
		"J'adore votre énergie positive ! Que diriez-vous de partager cette joie avec quelqu'un ?",
	},
	MoodSad: {
		"Je comprends que vous traversez un moment difficile. Voulez-vous me parler de ce qui vous préoccupe ?",
		"Il est normal de se sentir triste parfois. Prenez le temps qu'il vous faut pour vous sentir mieux.",
		"Vos sentiments sont valides. Que puis-je faire pour vous aider à vous sentir un peu mieux ?",
	},
	MoodAnxious: {
		"Je sens que vous êtes un peu stressé. Avez-vous essayé quelques exercices de respiration ?",
		"L'anxiété peut être difficile à gérer. Parlons de ce qui vous préoccupe.",
		"Prenons un moment pour nous concentrer sur le présent. Respirez profondément avec moi.",
	},
	MoodAngry: {
		"Je comprends votre frustration. Parfois, exprimer ces sentiments peut aider.",
		"La colère est une émotion normale. Qu'est-ce qui vous a mis en colère ?",
		"Prenons un moment pour canaliser cette énergie de manière constructive.",
	},
	MoodNeutral: {
		"Comment vous sentez-vous aujourd'hui ? Je suis là pour vous écouter.",
		"Merci de partager avec moi. Voulez-vous me parler de votre journée ?",
		"Je suis là pour vous accompagner. Qu'aimeriez-vous explorer ensemble ?",
	},
}

var thanksReply = "De rien ! Je suis là pour vous aider. Y a-t-il autre chose dont vous aimeriez parler ?"

// FallbackReply is used when the user's message could not be processed at all
const FallbackReply = "Je suis désolé, j'ai des difficultés à analyser votre message en ce moment. Comment vous sentez-vous ?"

var moodSuggestions = map[string][]string{
	MoodSad: {
		"Prendre quelques minutes pour méditer",
		"Écouter de la musique apaisante",
		"Faire une promenade dans la nature",
		"Appeler un proche",
		"Tenir un journal de gratitude",
	},
	MoodAnxious: {
		"Pratiquer des exercices de respiration",
		"Faire du yoga ou des étirements",
		"Essayer une méditation guidée",
		"Organiser votre espace de travail",
		"Prendre un bain relaxant",
	},
	MoodAngry: {
		"Faire de l'exercice physique",
		"Écrire vos pensées dans un journal",
		"Pratiquer la respiration profonde",
		"Écouter de la musique énergique",
		"Faire une activité créative",
	},
	MoodHappy: {
		"Partager votre joie avec quelqu'un",
		"Pratiquer une activité que vous aimez",
		"Faire du sport ou danser",
		"Planifier quelque chose d'amusant",
		"Aider quelqu'un d'autre",
	},
	MoodNeutral: {
		"Essayer une nouvelle activité",
		"Lire un livre intéressant",
		"Faire une promenade",
		"Apprendre quelque chose de nouveau",
		"Pratiquer la pleine conscience",
	},
}

// BotResponse picks a companion reply for the detected mood. The choice is
// deterministic: long messages get the most empathetic variant, thanks get a
// dedicated reply, otherwise the message length rotates through the variants.
func BotResponse(mood, message string) string {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "merci") || strings.Contains(lower, "thanks") || strings.Contains(lower, "thank you") {
		return thanksReply
	}

	variants, ok := botResponses[mood]
	if !ok {
		variants = botResponses[MoodNeutral]
	}

	if len(message) > longMessageThreshold {
		return variants[0]
	}
	return variants[len(message)%len(variants)]
}

// MoodSuggestions returns activity suggestions matching the detected mood.
// Moods without a dedicated list share the neutral suggestions.
func MoodSuggestions(mood string) []string {
	suggestions, ok := moodSuggestions[mood]
	if !ok {
		suggestions = moodSuggestions[MoodNeutral]
	}
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}
