package assessment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/store"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/validation"
)

const questionsReply = "```json\n{\"questions\": [{\"question\": \"What does GROUP BY do?\"}]}\n```"

func newTestClient(url string, timeout time.Duration, cache *store.Memory) *Client {
	cfg := config.GenerationConfig{FunctionsURL: url, Model: "test-model", Timeout: timeout}
	if cache == nil {
		return NewClient(cfg, nil, nil, logger.Nop())
	}
	return NewClient(cfg, cache, nil, logger.Nop())
}

func decodeQuestions(t *testing.T, res Result) QuestionSet {
	t.Helper()
	var set QuestionSet
	require.NoError(t, json.Unmarshal(res.Data, &set))
	return set
}

func TestGenerateQuestions(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+FunctionSkillAssessment, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"result": questionsReply})
	}))
	defer srv.Close()

	cache := store.NewMemory()
	client := newTestClient(srv.URL, time.Second, cache)

	res, err := client.Generate(context.Background(), Request{
		Action:  ActionGenerateQuestions,
		Skill:   "SQL",
		Sources: []string{"<p>Aggregates   rows</p>", " "},
	})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Empty(t, res.Notice)
	assert.Equal(t, "What does GROUP BY do?", decodeQuestions(t, res).Questions[0].Question)

	assert.Equal(t, ProficiencyBeginner, got.Proficiency)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, []string{"Aggregates rows"}, got.Sources)

	cached, err := cache.GetQuestionSet(context.Background(), "SQL", ProficiencyBeginner)
	require.NoError(t, err)
	assert.JSONEq(t, string(res.Data), string(cached))
}

func TestGenerateQuestions_CachedFallback(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(questionsReply))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second, store.NewMemory())
	req := Request{Action: ActionGenerateQuestions, Skill: "SQL"}

	first, err := client.Generate(context.Background(), req)
	require.NoError(t, err)
	require.False(t, first.Fallback)

	fail.Store(true)
	second, err := client.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Fallback)
	assert.Equal(t, NoticeCachedQuestions, second.Notice)
	assert.JSONEq(t, string(first.Data), string(second.Data))
}

func TestGenerateQuestions_StaticFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "no json in reply",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"result": "Sorry, I can't do that."}`))
			},
		},
		{
			name: "empty question list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"questions": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			res, err := newTestClient(srv.URL, time.Second, store.NewMemory()).Generate(context.Background(), Request{
				Action: ActionGenerateQuestions,
				Skill:  "Kubernetes",
			})
			require.NoError(t, err)
			assert.True(t, res.Fallback)
			assert.Equal(t, NoticeStaticQuestions, res.Notice)
			assert.Equal(t, FallbackQuestionSet("Kubernetes"), decodeQuestions(t, res))
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the server only sees the client hang up once the body is consumed
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	client := newTestClient(srv.URL, 50*time.Millisecond, nil)

	start := time.Now()
	res, err := client.Generate(context.Background(), Request{Action: ActionGenerateQuestions, Skill: "Go"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, res.Fallback)
	assert.Equal(t, NoticeStaticQuestions, res.Notice)
}

func TestGenerate_RequestInProgress(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		_, _ = w.Write([]byte(questionsReply))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second, nil)
	req := Request{Action: ActionGenerateQuestions, Skill: "SQL"}

	done := make(chan Result, 1)
	go func() {
		res, _ := client.Generate(context.Background(), req)
		done <- res
	}()
	<-entered

	dup := req
	dup.Skill = "  sql "
	_, err := client.Generate(context.Background(), dup)
	assert.ErrorIs(t, err, ErrRequestInProgress)

	close(release)
	first := <-done
	assert.False(t, first.Fallback)

	// released keys can run again
	_, err = client.Generate(context.Background(), dup)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerate_Validation(t *testing.T) {
	client := newTestClient("http://unused", time.Second, nil)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "missing action", req: Request{Skill: "SQL"}},
		{name: "unknown action", req: Request{Action: "summarize", Skill: "SQL"}},
		{name: "missing skill", req: Request{Action: ActionGenerateQuestions}},
		{name: "bad proficiency", req: Request{Action: ActionGenerateQuestions, Skill: "SQL", Proficiency: "guru"}},
		{name: "bad media url", req: Request{
			Action:     ActionGenerateQuestions,
			Skill:      "SQL",
			MediaFiles: []MediaFile{{Name: "notes.pdf", URL: "not a url"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, validation.ErrInvalid)
		})
	}

	_, err := client.ConceptMap(context.Background(), ConceptMapRequest{})
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestEvaluate(t *testing.T) {
	reply := `{"correct": false, "score": 35, "feedback": "Close, but GROUP BY needs an aggregate."}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Action == ActionEvaluateAnswer {
			_, _ = w.Write([]byte(reply))
			return
		}
		_, _ = w.Write([]byte(`{"result": "not json"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second, nil)

	res, err := client.Generate(context.Background(), Request{
		Action:   ActionEvaluateAnswer,
		Skill:    "SQL",
		Question: &Question{ID: 1, Question: "What does GROUP BY do?"},
		Answer:   "Sorts rows",
	})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	var fb AnswerFeedback
	require.NoError(t, json.Unmarshal(res.Data, &fb))
	assert.Equal(t, 35.0, fb.Score)

	res, err = client.Generate(context.Background(), Request{Action: ActionEvaluateAssessment, Skill: "SQL"})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, NoticeEvaluation, res.Notice)
	assert.Equal(t, string(ActionEvaluateAssessment), res.Action)
}

func TestConceptMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+FunctionConceptMap, r.URL.Path)
		_, _ = w.Write([]byte(`{"content": "{\"nodes\": [{\"id\": \"k8s\", \"label\": \"Kubernetes\"}], \"edges\": []}"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL, time.Second, nil).ConceptMap(context.Background(), ConceptMapRequest{Topic: "Kubernetes"})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, FunctionConceptMap, res.Action)

	var cm ConceptMap
	require.NoError(t, json.Unmarshal(res.Data, &cm))
	assert.Equal(t, "Kubernetes", cm.Nodes[0].Label)
}

func TestConceptMap_UnconfiguredEndpoint(t *testing.T) {
	res, err := newTestClient("", time.Second, nil).ConceptMap(context.Background(), ConceptMapRequest{Topic: "Cloud"})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, NoticeConceptMap, res.Notice)

	var cm ConceptMap
	require.NoError(t, json.Unmarshal(res.Data, &cm))
	assert.Equal(t, FallbackConceptMap("Cloud"), cm)
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "result string", body: `{"result": "hello"}`, want: "hello"},
		{name: "text string", body: `{"text": "hi"}`, want: "hi"},
		{name: "output object", body: `{"output": {"a": 1}}`, want: `{"a": 1}`},
		{name: "plain object", body: `{"questions": []}`, want: `{"questions": []}`},
		{name: "plain text", body: "just text", want: "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, responseText([]byte(tt.body)))
		})
	}
}
