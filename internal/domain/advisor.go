package domain

// ProjectApproach is one of the development strategies the advisor compares.
type ProjectApproach string

const (
	ApproachScratch    ProjectApproach = "Building from Scratch"
	ApproachTemplate   ProjectApproach = "Templates / Boilerplates"
	ApproachNoCode     ProjectApproach = "No-Code / Low-Code Tools"
	ApproachAIAssisted ProjectApproach = "AI-Assisted Development"
)

// Approaches lists every approach the advisor must score, in display order.
func Approaches() []ProjectApproach {
	return []ProjectApproach{ApproachScratch, ApproachTemplate, ApproachNoCode, ApproachAIAssisted}
}

// UserProjectInput captures the student's constraints for a comparison run.
type UserProjectInput struct {
	TimeAvailable string `json:"timeAvailable" validate:"required"`
	SkillLevel    string `json:"skillLevel" validate:"required"`
	ProjectType   string `json:"projectType" validate:"required"`
	MainGoal      string `json:"mainGoal" validate:"required"`
}

// ComparisonMetric is the advisor's verdict for a single approach.
// LearningValue, Difficulty, and Customization are scored 1-10.
type ComparisonMetric struct {
	ApproachName    ProjectApproach `json:"approachName"`
	Pros            []string        `json:"pros"`
	Cons            []string        `json:"cons"`
	TimeEstimate    string          `json:"timeEstimate"`
	LearningValue   int             `json:"learningValue"`
	Difficulty      int             `json:"difficulty"`
	Customization   int             `json:"customization"`
	Risk            string          `json:"risk"`
	BestUseScenario string          `json:"bestUseScenario"`
	ToolExamples    []string        `json:"toolExamples"`
}
