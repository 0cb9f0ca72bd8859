package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when a response holds no JSON object
var ErrNoJSON = errors.New("no JSON object in response")

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON finds the JSON object in generated text: a fenced ```json block first,
// else the outermost {...} span.
func ExtractJSON(text string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil && json.Valid([]byte(m[1])) {
		return m[1], nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}

	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", fmt.Errorf("%w: malformed object", ErrNoJSON)
	}
	return candidate, nil
}

func decode(text string, dest interface{}) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode generated JSON: %w", err)
	}
	return nil
}

// ParseQuestionSet decodes a question set and drops questions without text.
// A set with no usable question is an error.
func ParseQuestionSet(text string) (QuestionSet, error) {
	var set QuestionSet
	if err := decode(text, &set); err != nil {
		return QuestionSet{}, err
	}

	kept := set.Questions[:0]
	for _, q := range set.Questions {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		if q.Type == "" {
			q.Type = "open_ended"
			if len(q.Options) > 0 {
				q.Type = "multiple_choice"
			}
		}
		kept = append(kept, q)
	}
	if len(kept) == 0 {
		return QuestionSet{}, errors.New("question set has no questions")
	}
	for i := range kept {
		if kept[i].ID == 0 {
			kept[i].ID = i + 1
		}
	}
	set.Questions = kept
	return set, nil
}

// ParseAnswerFeedback decodes single-answer feedback
func ParseAnswerFeedback(text string) (AnswerFeedback, error) {
	var fb AnswerFeedback
	if err := decode(text, &fb); err != nil {
		return AnswerFeedback{}, err
	}
	if strings.TrimSpace(fb.Feedback) == "" {
		return AnswerFeedback{}, errors.New("answer feedback is empty")
	}
	fb.Score = clamp(fb.Score, 0, 100)
	return fb, nil
}

// ParseAssessmentFeedback decodes whole-assessment feedback
func ParseAssessmentFeedback(text string) (AssessmentFeedback, error) {
	var fb AssessmentFeedback
	if err := decode(text, &fb); err != nil {
		return AssessmentFeedback{}, err
	}
	if strings.TrimSpace(fb.Summary) == "" && len(fb.Strengths) == 0 && len(fb.Improvements) == 0 {
		return AssessmentFeedback{}, errors.New("assessment feedback is empty")
	}
	fb.OverallScore = clamp(fb.OverallScore, 0, 100)
	return fb, nil
}

// ParseConceptMap decodes a concept map and drops edges that point at unknown nodes
func ParseConceptMap(text string) (ConceptMap, error) {
	var cm ConceptMap
	if err := decode(text, &cm); err != nil {
		return ConceptMap{}, err
	}
	if len(cm.Nodes) == 0 {
		return ConceptMap{}, errors.New("concept map has no nodes")
	}

	ids := make(map[string]struct{}, len(cm.Nodes))
	for _, n := range cm.Nodes {
		ids[n.ID] = struct{}{}
	}
	edges := make([]ConceptEdge, 0, len(cm.Edges))
	for _, e := range cm.Edges {
		_, src := ids[e.Source]
		_, dst := ids[e.Target]
		if src && dst {
			edges = append(edges, e)
		}
	}
	cm.Edges = edges
	return cm, nil
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// FallbackQuestionSet is served when generation fails and nothing is cached for the skill
func FallbackQuestionSet(skill string) QuestionSet {
	if skill == "" {
		skill = "this skill"
	}
	return QuestionSet{Questions: []Question{
		{
			ID:       1,
			Type:     "open_ended",
			Question: fmt.Sprintf("Describe a recent task where you applied %s. What was the outcome?", skill),
		},
		{
			ID:       2,
			Type:     "multiple_choice",
			Question: fmt.Sprintf("How would you rate your current confidence with %s?", skill),
			Options:  []string{"Just starting", "Comfortable with the basics", "Confident on most tasks", "Able to teach others"},
		},
		{
			ID:       3,
			Type:     "open_ended",
			Question: fmt.Sprintf("Which aspect of %s would you most like to improve next, and why?", skill),
		},
	}}
}

// FallbackAnswerFeedback is served when answer evaluation fails
func FallbackAnswerFeedback() AnswerFeedback {
	return AnswerFeedback{
		Feedback: "We couldn't evaluate this answer right now. Your response has been saved; please try again later.",
	}
}

// FallbackAssessmentFeedback is served when assessment evaluation fails
func FallbackAssessmentFeedback() AssessmentFeedback {
	return AssessmentFeedback{
		ProficiencyLevel: "unrated",
		Strengths:        []string{},
		Improvements:     []string{},
		Summary:          "Your assessment was submitted, but detailed feedback is unavailable at the moment.",
	}
}

// FallbackConceptMap is served when concept-map generation fails
func FallbackConceptMap(topic string) ConceptMap {
	if topic == "" {
		topic = "Topic"
	}
	return ConceptMap{
		Nodes: []ConceptNode{
			{ID: "root", Label: topic, Level: 0},
			{ID: "fundamentals", Label: "Fundamentals", Level: 1},
			{ID: "practice", Label: "Practice", Level: 1},
			{ID: "advanced", Label: "Advanced Topics", Level: 1},
		},
		Edges: []ConceptEdge{
			{Source: "root", Target: "fundamentals", Label: "starts with"},
			{Source: "root", Target: "practice", Label: "applied through"},
			{Source: "root", Target: "advanced", Label: "leads to"},
		},
	}
}
