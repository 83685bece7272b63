package recommend

// MoodImpact describes the expected effect of an activity on mood
type MoodImpact string

const (
	ImpactCalming    MoodImpact = "calming"
	ImpactPositive   MoodImpact = "positive"
	ImpactEnergizing MoodImpact = "energizing"
)

// Difficulty describes how demanding an activity is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Category tags the kind of activity
type Category string

const (
	CategoryMental   Category = "mental"
	CategoryPhysical Category = "physical"
	CategorySocial   Category = "social"
	CategoryCreative Category = "creative"
)

// ActivitySuggestion is an immutable catalog entry: a candidate activity
// with its metadata. It has no identity beyond its field values.
type ActivitySuggestion struct {
	Activity      string     `json:"activity"`
	Description   string     `json:"description"`
	EstimatedTime int        `json:"estimated_time"` // minutes
	MoodImpact    MoodImpact `json:"mood_impact"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      Category   `json:"category"`
}

// Bucket holds the catalog entries for one mood level, split by time horizon.
type Bucket struct {
	Immediate []ActivitySuggestion
	Longer    []ActivitySuggestion
}

const neutralMoodLevel = 3

// catalog maps each mood level (1 = very low, 5 = very high) to its
// activity bucket. The table is static configuration: it is loaded once
// and never mutated at runtime.
var catalog = map[int]Bucket{
	1: {
		Immediate: []ActivitySuggestion{
			{
				Activity:      "Respirer profondément pendant 5 minutes",
				Description:   "Exercice de respiration pour calmer l'anxiété",
				EstimatedTime: 5,
				MoodImpact:    ImpactCalming,
				Difficulty:    DifficultyEasy,
				Category:      CategoryMental,
			},
			{
				Activity:      "Écouter une musique douce",
				Description:   "Musique apaisante pour réconforter",
				EstimatedTime: 15,
				MoodImpact:    ImpactCalming,
				Difficulty:    DifficultyEasy,
				Category:      CategoryMental,
			},
			{
				Activity:      "Prendre une douche chaude",
				Description:   "L'eau chaude peut aider à se détendre",
				EstimatedTime: 15,
				MoodImpact:    ImpactCalming,
				Difficulty:    DifficultyEasy,
				Category:      CategoryPhysical,
			},
		},
		Longer: []ActivitySuggestion{
			{
				Activity:      "Appeler un proche de confiance",
				Description:   "Parler avec quelqu'un peut aider",
				EstimatedTime: 30,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyMedium,
				Category:      CategorySocial,
			},
			{
				Activity:      "Regarder un film réconfortant",
				Description:   "Distraction positive avec un contenu familier",
				EstimatedTime: 90,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyEasy,
				Category:      CategoryMental,
			},
		},
	},
	2: {
		Immediate: []ActivitySuggestion{
			{
				Activity:      "Faire une courte promenade",
				Description:   "Marcher aide à changer d'environnement",
				EstimatedTime: 15,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyEasy,
				Category:      CategoryPhysical,
			},
			{
				Activity:      "Tenir un journal de gratitude",
				Description:   "Noter 3 choses positives de la journée",
				EstimatedTime: 10,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyEasy,
				Category:      CategoryMental,
			},
			{
				Activity:      "Boire une tisane chaude",
				Description:   "Moment de réconfort et de chaleur",
				EstimatedTime: 10,
				MoodImpact:    ImpactCalming,
				Difficulty:    DifficultyEasy,
				Category:      CategoryPhysical,
			},
		},
		Longer: []ActivitySuggestion{
			{
				Activity:      "Pratiquer du yoga doux",
				Description:   "Étirements et détente pour le corps et l'esprit",
				EstimatedTime: 30,
				MoodImpact:    ImpactCalming,
				Difficulty:    DifficultyMedium,
				Category:      CategoryPhysical,
			},
			{
				Activity:      "Cuisiner un plat réconfortant",
				Description:   "Activité créative et nourrissante",
				EstimatedTime: 45,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyMedium,
				Category:      CategoryCreative,
			},
		},
	},
	3: {
		Immediate: []ActivitySuggestion{
			{
				Activity:      "Faire 10 minutes de méditation",
				Description:   "Moment de centrage et de clarté",
				EstimatedTime: 10,
				MoodImpact:    ImpactCalming,
				Difficulty:    DifficultyMedium,
				Category:      CategoryMental,
			},
			{
				Activity:      "Organiser son espace de travail",
				Description:   "Activité productive qui donne du contrôle",
				EstimatedTime: 20,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyEasy,
				Category:      CategoryMental,
			},
			{
				Activity:      "Lire quelques pages d'un livre",
				Description:   "Stimulation mentale douce",
				EstimatedTime: 20,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyEasy,
				Category:      CategoryMental,
			},
		},
		Longer: []ActivitySuggestion{
			{
				Activity:      "Apprendre quelque chose de nouveau en ligne",
				Description:   "Cours ou tutoriel sur un sujet d'intérêt",
				EstimatedTime: 60,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyMedium,
				Category:      CategoryMental,
			},
			{
				Activity:      "Planifier une activité future",
				Description:   "Donner quelque chose à anticiper positivement",
				EstimatedTime: 30,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyMedium,
				Category:      CategoryMental,
			},
		},
	},
	4: {
		Immediate: []ActivitySuggestion{
			{
				Activity:      "Partager sa joie avec un ami",
				Description:   "Message ou appel pour partager les bonnes nouvelles",
				EstimatedTime: 15,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyEasy,
				Category:      CategorySocial,
			},
			{
				Activity:      "Danser sur sa musique préférée",
				Description:   "Exprimer sa joie par le mouvement",
				EstimatedTime: 10,
				MoodImpact:    ImpactEnergizing,
				Difficulty:    DifficultyEasy,
				Category:      CategoryPhysical,
			},
			{
				Activity:      "Faire un compliment à quelqu'un",
				Description:   "Répandre la positivité autour de soi",
				EstimatedTime: 5,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyEasy,
				Category:      CategorySocial,
			},
		},
		Longer: []ActivitySuggestion{
			{
				Activity:      "Commencer un projet créatif",
				Description:   "Canaliser l'énergie positive dans la création",
				EstimatedTime: 60,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyMedium,
				Category:      CategoryCreative,
			},
			{
				Activity:      "Planifier une sortie avec des amis",
				Description:   "Organiser un moment social agréable",
				EstimatedTime: 30,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyMedium,
				Category:      CategorySocial,
			},
		},
	},
	5: {
		Immediate: []ActivitySuggestion{
			{
				Activity:      "Faire de l'exercice énergique",
				Description:   "Canaliser l'énergie positive dans le sport",
				EstimatedTime: 30,
				MoodImpact:    ImpactEnergizing,
				Difficulty:    DifficultyMedium,
				Category:      CategoryPhysical,
			},
			{
				Activity:      "Aider quelqu'un dans le besoin",
				Description:   "Utiliser sa positivité pour aider les autres",
				EstimatedTime: 30,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyMedium,
				Category:      CategorySocial,
			},
			{
				Activity:      "Prendre des photos de moments heureux",
				Description:   "Capturer et préserver ces bons moments",
				EstimatedTime: 15,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyEasy,
				Category:      CategoryCreative,
			},
		},
		Longer: []ActivitySuggestion{
			{
				Activity:      "Organiser une activité surprise pour un proche",
				Description:   "Partager sa joie en créant du bonheur pour les autres",
				EstimatedTime: 120,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyHard,
				Category:      CategorySocial,
			},
			{
				Activity:      "Démarrer un nouveau hobby",
				Description:   "Utiliser l'énergie positive pour explorer de nouveaux intérêts",
				EstimatedTime: 90,
				MoodImpact:    ImpactPositive,
				Difficulty:    DifficultyMedium,
				Category:      CategoryCreative,
			},
		},
	},
}

// BucketFor returns the catalog bucket for the given mood level. Levels
// outside 1-5 fall back to the neutral bucket.
func BucketFor(moodLevel int) Bucket {
	bucket, ok := catalog[moodLevel]
	if !ok {
		return catalog[neutralMoodLevel]
	}
	return bucket
}

// MoodLevels lists the mood levels covered by the catalog in ascending order.
func MoodLevels() []int {
	return []int{1, 2, 3, 4, 5}
}
