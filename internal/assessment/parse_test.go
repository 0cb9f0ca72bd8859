package assessment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "fenced json block",
			text: "Here you go:\n```json\n{\"questions\": []}\n```\nGood luck!",
			want: `{"questions": []}`,
		},
		{
			name: "fenced block without language",
			text: "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare object with prose",
			text: `Sure! {"correct": true, "feedback": "Nice"} Hope that helps.`,
			want: `{"correct": true, "feedback": "Nice"}`,
		},
		{
			name: "nested braces",
			text: `{"a": {"b": {"c": 1}}}`,
			want: `{"a": {"b": {"c": 1}}}`,
		},
		{
			name:    "invalid fenced block spoils the bare span",
			text:    "```json\n{oops}\n``` then {\"ok\": true}",
			wantErr: true,
		},
		{name: "no object", text: "I cannot help with that.", wantErr: true},
		{name: "empty", text: "", wantErr: true},
		{name: "unbalanced", text: `{"a": 1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuestionSet(t *testing.T) {
	text := "```json\n" + `{"questions": [
		{"question": "What is a JOIN?"},
		{"question": "   "},
		{"id": 7, "question": "Pick one", "options": ["a", "b"], "correctAnswer": "a"}
	]}` + "\n```"

	set, err := ParseQuestionSet(text)
	require.NoError(t, err)
	require.Len(t, set.Questions, 2)

	assert.Equal(t, 1, set.Questions[0].ID)
	assert.Equal(t, "open_ended", set.Questions[0].Type)
	assert.Equal(t, 7, set.Questions[1].ID)
	assert.Equal(t, "multiple_choice", set.Questions[1].Type)

	_, err = ParseQuestionSet(`{"questions": []}`)
	assert.Error(t, err)

	_, err = ParseQuestionSet(`{"questions": "nope"}`)
	assert.Error(t, err)
}

func TestParseFeedback(t *testing.T) {
	fb, err := ParseAnswerFeedback(`{"correct": true, "score": 140, "feedback": "Spot on"}`)
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, 100.0, fb.Score)

	_, err = ParseAnswerFeedback(`{"correct": true}`)
	assert.Error(t, err)

	af, err := ParseAssessmentFeedback(`{"overallScore": -3, "strengths": ["SQL"], "summary": ""}`)
	require.NoError(t, err)
	assert.Zero(t, af.OverallScore)
	assert.Equal(t, []string{"SQL"}, af.Strengths)

	_, err = ParseAssessmentFeedback(`{"overallScore": 50}`)
	assert.Error(t, err)
}

func TestParseConceptMap(t *testing.T) {
	cm, err := ParseConceptMap(`{
		"nodes": [{"id": "a", "label": "A"}, {"id": "b", "label": "B"}],
		"edges": [{"source": "a", "target": "b"}, {"source": "a", "target": "ghost"}]
	}`)
	require.NoError(t, err)
	assert.Len(t, cm.Nodes, 2)
	assert.Equal(t, []ConceptEdge{{Source: "a", Target: "b"}}, cm.Edges)

	_, err = ParseConceptMap(`{"nodes": []}`)
	assert.Error(t, err)
}

func TestFallbacks(t *testing.T) {
	set := FallbackQuestionSet("SQL")
	require.NotEmpty(t, set.Questions)
	assert.Contains(t, set.Questions[0].Question, "SQL")
	assert.Contains(t, FallbackQuestionSet("").Questions[0].Question, "this skill")

	cm := FallbackConceptMap("Cloud")
	assert.Equal(t, "Cloud", cm.Nodes[0].Label)
	for _, e := range cm.Edges {
		assert.Equal(t, "root", e.Source)
	}

	assert.NotEmpty(t, FallbackAnswerFeedback().Feedback)
	assert.NotEmpty(t, FallbackAssessmentFeedback().Summary)
}

func TestCleanSources(t *testing.T) {
	html := `<html><head><style>p{}</style></head><body>
		<nav>Home | About</nav>
		<h1>Joins</h1>
		<p>An inner join returns   matching rows.</p>
		<script>track()</script>
	</body></html>`

	got := CleanSources([]string{html, "  plain   text  ", "", "   "})
	require.Len(t, got, 2)
	assert.Equal(t, "Joins An inner join returns matching rows.", got[0])
	assert.Equal(t, "plain text", got[1])

	long := strings.Repeat("é", maxSourceLength)
	cut := CleanSources([]string{long})[0]
	assert.LessOrEqual(t, len(cut), maxSourceLength)
	assert.True(t, strings.HasSuffix(cut, "é"))
}
