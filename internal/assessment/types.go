// Package assessment calls the remote generation functions that write skill assessments
// and concept maps, and turns whatever they return into typed payloads.
package assessment

import "encoding/json"

// Action selects what the skill-assessment function produces
type Action string

const (
	ActionGenerateQuestions  Action = "generate_questions"
	ActionEvaluateAnswer     Action = "evaluate_answer"
	ActionEvaluateAssessment Action = "evaluate_assessment"
)

// Remote function names
const (
	FunctionSkillAssessment = "skill-assessment"
	FunctionConceptMap      = "generate-concept-map"
)

// Proficiency levels accepted by the generator
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

// MediaFile references an uploaded file the generator may draw from
type MediaFile struct {
	Name string `json:"name" validate:"required,max=256"`
	URL  string `json:"url" validate:"required,url"`
	Type string `json:"type,omitempty" validate:"max=64"`
}

// Request is the payload of the skill-assessment function
type Request struct {
	Action      Action      `json:"action" validate:"required,oneof=generate_questions evaluate_answer evaluate_assessment"`
	Skill       string      `json:"skill" validate:"required,max=128"`
	Proficiency string      `json:"proficiency,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	Sources     []string    `json:"sources,omitempty" validate:"max=10"`
	MediaFiles  []MediaFile `json:"mediaFiles,omitempty" validate:"max=10,dive"`
	Model       string      `json:"model,omitempty" validate:"max=64"`

	// Question and Answer are used by evaluate_answer
	Question *Question `json:"question,omitempty"`
	Answer   string    `json:"answer,omitempty" validate:"max=8000"`

	// Answers are used by evaluate_assessment
	Answers []AnsweredQuestion `json:"answers,omitempty" validate:"max=50"`
}

// ConceptMapRequest is the payload of the concept-map function
type ConceptMapRequest struct {
	Topic   string   `json:"topic" validate:"required,max=128"`
	Sources []string `json:"sources,omitempty" validate:"max=10"`
	Model   string   `json:"model,omitempty" validate:"max=64"`
}

// Question is one generated assessment question
type Question struct {
	ID            int      `json:"id"`
	Type          string   `json:"type"` // multiple_choice or open_ended
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// AnsweredQuestion pairs a question with the learner's answer
type AnsweredQuestion struct {
	Question Question `json:"question"`
	Answer   string   `json:"answer"`
}

// QuestionSet is the generate_questions response
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// AnswerFeedback is the evaluate_answer response
type AnswerFeedback struct {
	Correct     bool     `json:"correct"`
	Score       float64  `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// AssessmentFeedback is the evaluate_assessment response
type AssessmentFeedback struct {
	OverallScore     float64  `json:"overallScore"`
	ProficiencyLevel string   `json:"proficiencyLevel"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	Summary          string   `json:"summary"`
}

// ConceptNode is one concept in a map
type ConceptNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Level       int    `json:"level"`
}

// ConceptEdge links two concepts
type ConceptEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// ConceptMap is the generate-concept-map response
type ConceptMap struct {
	Nodes []ConceptNode `json:"nodes"`
	Edges []ConceptEdge `json:"edges"`
}

// Result is what callers get back. When Fallback is set Data holds a cached or
// static payload and Notice explains that to the learner.
type Result struct {
	Action   string          `json:"action"`
	Data     json.RawMessage `json:"data"`
	Fallback bool            `json:"fallback"`
	Notice   string          `json:"notice,omitempty"`
}
