package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/httputil"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/redis"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/validation"
)

// ErrRequestInProgress is returned while an identical request is still running
var ErrRequestInProgress = errors.New("request in progress")

// maxResponseBody caps how much of a generation response is read
const maxResponseBody = 1 << 20

// Notices shown alongside fallback payloads
const (
	NoticeCachedQuestions = "We couldn't generate new questions right now, so you're seeing your most recent set."
	NoticeStaticQuestions = "We couldn't generate questions right now, so you're seeing a starter set."
	NoticeEvaluation      = "Detailed feedback is temporarily unavailable."
	NoticeConceptMap      = "We couldn't build a concept map right now, so you're seeing a simplified outline."
)

// Client calls the remote generation functions. Any failure after validation turns into
// a fallback Result rather than an error.
type Client struct {
	http      *httputil.Client
	baseURL   string
	model     string
	timeout   time.Duration
	cache     contracts.AssessmentCache
	validator *validation.Validator
	logger    *logger.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewClient creates a new generation client. cache and limiter may be nil.
func NewClient(cfg config.GenerationConfig, cache contracts.AssessmentCache, limiter *redis.RateLimiter, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := httputil.NewWithTimeout(log, timeout).DisableRetry()
	if cfg.APIKey != "" {
		httpClient.WithHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	if limiter != nil {
		httpClient.WithRateLimiter(limiter, redis.GenerationRateLimit(cfg.RateLimit))
	}

	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(cfg.FunctionsURL, "/"),
		model:     cfg.Model,
		timeout:   timeout,
		cache:     cache,
		validator: validation.New(),
		logger:    log.WithComponent("assessment"),
		inflight:  make(map[string]struct{}),
	}
}

// acquire marks key as running; the returned func releases it
func (c *Client) acquire(key string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inflight[key]; busy {
		return nil, ErrRequestInProgress
	}
	c.inflight[key] = struct{}{}

	return func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}, nil
}

func inflightKey(parts ...string) string {
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return strings.Join(parts, ":")
}

// Generate runs one skill-assessment action
func (c *Client) Generate(ctx context.Context, req Request) (Result, error) {
	if err := c.validator.Validate(req); err != nil {
		return Result{}, err
	}

	release, err := c.acquire(inflightKey(string(req.Action), req.Skill))
	if err != nil {
		return Result{}, err
	}
	defer release()

	req.Sources = CleanSources(req.Sources)
	if req.Model == "" {
		req.Model = c.model
	}
	if req.Proficiency == "" {
		req.Proficiency = ProficiencyBeginner
	}

	log := c.logger.WithFields(map[string]interface{}{
		"action": string(req.Action),
		"skill":  req.Skill,
	})

	text, callErr := c.call(ctx, FunctionSkillAssessment, req)

	switch req.Action {
	case ActionGenerateQuestions:
		if callErr == nil {
			set, err := ParseQuestionSet(text)
			if err == nil {
				data := mustMarshal(set)
				if c.cache != nil {
					if err := c.cache.PutQuestionSet(ctx, req.Skill, req.Proficiency, data); err != nil {
						log.WithError(err).Warn("Failed to cache question set")
					}
				}
				return Result{Action: string(req.Action), Data: data}, nil
			}
			callErr = err
		}
		log.WithError(callErr).Warn("Question generation failed, serving fallback")
		return c.fallbackQuestions(ctx, req), nil

	case ActionEvaluateAnswer:
		if callErr == nil {
			fb, err := ParseAnswerFeedback(text)
			if err == nil {
				return Result{Action: string(req.Action), Data: mustMarshal(fb)}, nil
			}
			callErr = err
		}
		log.WithError(callErr).Warn("Answer evaluation failed, serving fallback")
		return fallbackResult(req.Action, FallbackAnswerFeedback(), NoticeEvaluation), nil

	default:
		if callErr == nil {
			fb, err := ParseAssessmentFeedback(text)
			if err == nil {
				return Result{Action: string(req.Action), Data: mustMarshal(fb)}, nil
			}
			callErr = err
		}
		log.WithError(callErr).Warn("Assessment evaluation failed, serving fallback")
		return fallbackResult(req.Action, FallbackAssessmentFeedback(), NoticeEvaluation), nil
	}
}

// ConceptMap generates a concept map for req.Topic
func (c *Client) ConceptMap(ctx context.Context, req ConceptMapRequest) (Result, error) {
	if err := c.validator.Validate(req); err != nil {
		return Result{}, err
	}

	release, err := c.acquire(inflightKey(FunctionConceptMap, req.Topic))
	if err != nil {
		return Result{}, err
	}
	defer release()

	req.Sources = CleanSources(req.Sources)
	if req.Model == "" {
		req.Model = c.model
	}

	text, err := c.call(ctx, FunctionConceptMap, req)
	if err == nil {
		var cm ConceptMap
		if cm, err = ParseConceptMap(text); err == nil {
			return Result{Action: FunctionConceptMap, Data: mustMarshal(cm)}, nil
		}
	}

	c.logger.WithError(err).WithField("topic", req.Topic).Warn("Concept map generation failed, serving fallback")
	return Result{
		Action:   FunctionConceptMap,
		Data:     mustMarshal(FallbackConceptMap(req.Topic)),
		Fallback: true,
		Notice:   NoticeConceptMap,
	}, nil
}

func (c *Client) fallbackQuestions(ctx context.Context, req Request) Result {
	if c.cache != nil {
		cached, err := c.cache.GetQuestionSet(ctx, req.Skill, req.Proficiency)
		switch {
		case err == nil:
			return Result{Action: string(req.Action), Data: cached, Fallback: true, Notice: NoticeCachedQuestions}
		case !errors.Is(err, contracts.ErrNotFound):
			c.logger.WithError(err).Warn("Failed to read cached question set")
		}
	}
	return fallbackResult(req.Action, FallbackQuestionSet(req.Skill), NoticeStaticQuestions)
}

func fallbackResult(action Action, payload interface{}, notice string) Result {
	return Result{Action: string(action), Data: mustMarshal(payload), Fallback: true, Notice: notice}
}

// call posts payload to the named function under the client timeout and returns the
// generated text
func (c *Client) call(ctx context.Context, function string, payload interface{}) (string, error) {
	if c.baseURL == "" {
		return "", errors.New("generation endpoint not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/"+function, nil, payload)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", function, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", function, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s returned %d %s", function, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return responseText(body), nil
}

// responseText unwraps {"result": "..."} style envelopes; other bodies are returned as is
func responseText(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, key := range []string{"result", "content", "text", "output"} {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				return s
			}
			return string(raw)
		}
	}
	return string(body)
}

// mustMarshal is only used on this package's payload types, which always encode
func mustMarshal(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
