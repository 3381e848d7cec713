package profile

// FallbackText replaces every missing text field in a view model.
const FallbackText = "Not provided"

// Gender labels. The backend encodes female as "0"; everything else,
// including an absent value, renders as male.
const (
	GenderFemale = "Female"
	GenderMale   = "Male"

	sexFemaleCode = "0"
)

// Placeholder counters shown until the backend serves real statistics.
const (
	PlaceholderCoursesCount   = 2
	PlaceholderExercisesCount = 35
	PlaceholderExamCount      = 2
	PlaceholderAverageScore   = 78
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW MODEL
// ══════════════════════════════════════════════════════════════════════════════

// BasicInfo holds identity fields.
type BasicInfo struct {
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
	Gender    string `json:"gender"`
	Age       string `json:"age"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Education holds program fields.
type Education struct {
	School string `json:"school"`
	Major  string `json:"major"`
	Grade  string `json:"grade"`
	Class  string `json:"class"`
}

// Stats holds the activity counters.
type Stats struct {
	CoursesCount   int `json:"coursesCount"`
	ExercisesCount int `json:"exercisesCount"`
	ExamCount      int `json:"examCount"`
	AverageScore   int `json:"averageScore"`
}

// ProfileViewModel is the defaulted, UI-ready projection of a StudentRecord.
type ProfileViewModel struct {
	BasicInfo BasicInfo `json:"basicInfo"`
	Education Education `json:"education"`
	Stats     Stats     `json:"stats"`
}

// PersonalAnalysis holds the ability scores under their display names.
type PersonalAnalysis struct {
	LearningAbility float64 `json:"learningAbility"`
	LogicalThinking float64 `json:"logicalThinking"`
	CodingSpeed     float64 `json:"codingSpeed"`
}

// LearningSnapshot pairs ability scores with advisory tips.
type LearningSnapshot struct {
	PersonalAnalysis PersonalAnalysis `json:"personalAnalysis"`
	LearningTips     []string         `json:"learningTips"`
}

// ChartSeries is the ordered triple [code, study, thinking] consumed by the
// ability radar chart.
type ChartSeries [3]float64

// Projection is the full triple of derived objects replaced on every load.
type Projection struct {
	Profile  ProfileViewModel `json:"userProfile"`
	Learning LearningSnapshot `json:"learningData"`
	Chart    ChartSeries      `json:"analysisSeries"`
}

// ══════════════════════════════════════════════════════════════════════════════
// BUILDERS
// ══════════════════════════════════════════════════════════════════════════════

// Project builds all three derived objects from a record.
func Project(record *StudentRecord) Projection {
	details := record.PrimaryDetails()
	return Projection{
		Profile:  BuildViewModel(record, details),
		Learning: BuildLearningSnapshot(details),
		Chart:    BuildChartSeries(details),
	}
}

// BuildViewModel builds the profile view model with textual fallbacks.
func BuildViewModel(record *StudentRecord, details StudentDetails) ProfileViewModel {
	if record == nil {
		record = &StudentRecord{}
	}

	return ProfileViewModel{
		BasicInfo: BasicInfo{
			Name:      orFallback(record.Name),
			StudentID: orFallback(details.StudentID),
			Gender:    GenderLabel(record.Sex),
			Age:       orFallback(details.Age),
			Email:     orFallback(details.Email),
			Phone:     orFallback(record.PhoneNumber),
		},
		Education: Education{
			School: orFallback(details.School),
			Major:  orFallback(details.Major),
			Grade:  orFallback(details.Grade),
			Class:  orFallback(details.ClassInfo),
		},
		Stats: PlaceholderStats(),
	}
}

// BuildLearningSnapshot builds ability scores and tips.
func BuildLearningSnapshot(details StudentDetails) LearningSnapshot {
	return LearningSnapshot{
		PersonalAnalysis: PersonalAnalysis{
			LearningAbility: details.StudyAbility,
			LogicalThinking: details.ThinkingAbility,
			CodingSpeed:     details.CodeAbility,
		},
		LearningTips: GenerateTips(details.Abilities()),
	}
}

// BuildChartSeries orders the ability scores for the chart.
func BuildChartSeries(details StudentDetails) ChartSeries {
	return ChartSeries{details.CodeAbility, details.StudyAbility, details.ThinkingAbility}
}

// PlaceholderStats returns the fixed counters.
func PlaceholderStats() Stats {
	return Stats{
		CoursesCount:   PlaceholderCoursesCount,
		ExercisesCount: PlaceholderExercisesCount,
		ExamCount:      PlaceholderExamCount,
		AverageScore:   PlaceholderAverageScore,
	}
}

// GenderLabel maps the backend sex code to a display label.
func GenderLabel(sex string) string {
	if sex == sexFemaleCode {
		return GenderFemale
	}
	return GenderMale
}

func orFallback(s string) string {
	if s == "" {
		return FallbackText
	}
	return s
}
