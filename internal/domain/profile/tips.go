package profile

// Advisory tips, in the order they are checked.
const (
	TipPracticeCoding = "Strengthen coding practice: solve at least 2 programming problems every day"
	TipStudyTechnique = "Try the Pomodoro technique to improve study efficiency"
	TipLogicTraining  = "Train logical thinking weekly: work through 3 algorithm problems"
	TipKeepItUp       = "Your abilities are well balanced, keep it up!"
)

// Tip thresholds. A score strictly below the threshold triggers the tip.
const (
	CodeAbilityThreshold     = 40
	StudyAbilityThreshold    = 60
	ThinkingAbilityThreshold = 50
)

// Abilities groups the three proficiency scores.
type Abilities struct {
	Code     float64
	Study    float64
	Thinking float64
}

// GenerateTips derives advisory strings from ability scores.
// Output order is fixed: coding, study, logic. When nothing triggers the
// result is the single TipKeepItUp string.
func GenerateTips(a Abilities) []string {
	tips := make([]string, 0, 3)
	if a.Code < CodeAbilityThreshold {
		tips = append(tips, TipPracticeCoding)
	}
	if a.Study < StudyAbilityThreshold {
		tips = append(tips, TipStudyTechnique)
	}
	if a.Thinking < ThinkingAbilityThreshold {
		tips = append(tips, TipLogicTraining)
	}
	if len(tips) == 0 {
		return []string{TipKeepItUp}
	}
	return tips
}
