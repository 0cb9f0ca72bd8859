package baas

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/httputil"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.BaaSConfig{URL: srv.URL + "/", AnonKey: "anon-key", Timeout: 5 * time.Second, RequestsPerSecond: 100}
	c := NewClient(cfg, logger.Nop())
	return c.WithHTTPClient(httputil.NewWithTimeout(logger.Nop(), 5*time.Second).
		DisableRetry().
		WithHeader("apikey", cfg.AnonKey).
		WithHeader("Authorization", "Bearer "+cfg.AnonKey))
}

func TestUserRankRepositoryList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/user_ranks", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "position.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"u1","name":"Ada","position":1,"points":900,"department":"Engineering","job_family":"Technology","assessment_score":91.5},
			{"id":"u2","name":"Lin","position":2,"points":800,"position_change":-1}
		]`)
	})

	users, err := NewUserRankRepository(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "Technology", users[0].JobFamily)
	require.NotNil(t, users[0].Details)
	assert.Equal(t, 91.5, users[0].Details.AssessmentScore)
	assert.Nil(t, users[1].Details)
	assert.Equal(t, -1, users[1].PositionChange)
}

func TestUserRankRepositoryGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "eq.u1" {
			_, _ = io.WriteString(w, `[{"id":"u1","name":"Ada","position":1,"points":900}]`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})
	repo := NewUserRankRepository(c)

	u, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	_, err = repo.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestTeamRankRepositoryPut(t *testing.T) {
	var got []map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/team_ranks", r.URL.Path)
		assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := NewTeamRankRepository(c).Put(context.Background(),
		contracts.TeamRank{ID: "t1", Name: "Alpha", Position: 1, Points: 100, MemberCount: 4, WinStreak: 2},
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0]["name"])
	assert.EqualValues(t, 4, got[0]["member_count"])
	assert.EqualValues(t, 2, got[0]["win_streak"])

	assert.NoError(t, NewTeamRankRepository(c).Put(context.Background()))
}

func TestUserRowRoundTripDetails(t *testing.T) {
	u := contracts.UserRank{ID: "u", Details: &contracts.RankDetails{AssessmentScore: 1, EngagementScore: 2, CompletionRate: 3}}
	assert.Equal(t, u, newUserRow(u).rank())

	bare := contracts.UserRank{ID: "b"}
	assert.Nil(t, newUserRow(bare).rank().Details)
}

func TestFetchErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		kind      Kind
		status    int
		temporary bool
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			kind: KindStatus, status: 500, temporary: true,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
			},
			kind: KindStatus, status: 401,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"not":"an array"`)
			},
			kind: KindDecode, status: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			_, err := NewUserRankRepository(c).List(context.Background())
			require.Error(t, err)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.kind, fe.Kind)
			assert.Equal(t, tt.status, fe.StatusCode)
			assert.Equal(t, TableUserRanks, fe.Table)
			assert.Equal(t, tt.temporary, fe.Temporary())
			assert.False(t, errors.Is(err, contracts.ErrNotFound))
		})
	}
}

func TestFetchErrorTransport(t *testing.T) {
	c := NewClient(config.BaaSConfig{URL: "http://127.0.0.1:1", Timeout: time.Second}, logger.Nop())
	c.WithHTTPClient(httputil.NewWithTimeout(logger.Nop(), time.Second).DisableRetry())

	_, err := NewTeamRankRepository(c).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Contains(t, err.Error(), "baas select team_ranks: transport")
}

func TestFetchErrorCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewUserRankRepository(c).List(ctx)
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchErrorMessage(t *testing.T) {
	err := &FetchError{Table: "user_ranks", Op: "select", Kind: KindStatus, StatusCode: 503, Err: errors.New("down")}
	assert.Equal(t, "baas select user_ranks: status (status 503): down", err.Error())
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
