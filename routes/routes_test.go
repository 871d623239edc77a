package routes

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/services"
)

var secret = []byte("routes-test-secret")

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repositories.NewMemoryStore()
	m := metrics.New()

	pairings, err := services.NewPairingService(store.Players(), store.Matches(), services.PairingSettings{
		Strategy:   brackets.StrategySwiss,
		RetryLimit: brackets.DefaultRetryLimit,
		Escalation: true,
	}, nil, nil, m, logger)
	require.NoError(t, err)

	h := Handlers{
		Players: handlers.NewPlayerHandler(services.NewPlayerService(store.Transactor(), store.Players(), store.Matches(), nil, m, logger)),
		Matches: handlers.NewMatchHandler(services.NewMatchService(store.Transactor(), store.Matches(), nil, m, logger)),
		Tournament: handlers.NewTournamentHandler(
			services.NewStandingsService(store.Players(), store.Matches(), logger),
			pairings,
		),
	}
	srv := httptest.NewServer(SetupRoutes(h, Options{
		JWTSecret:      secret,
		AllowedOrigins: []string{"*"},
		Metrics:        m,
		Logger:         logger,
	}))
	t.Cleanup(srv.Close)

	token, err := middleware.IssueToken(secret, "director", middleware.RoleOrganizer, time.Hour)
	require.NoError(t, err)
	return &apiClient{t: t, server: srv, token: token}
}

func (c *apiClient) do(method, path, body string, auth bool) (int, map[string]json.RawMessage) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestRoutes_TournamentFlow(t *testing.T) {
	api := newAPI(t)

	for _, name := range []string{"Ann", "Bob", "Cid", "Dee"} {
		status, _ := api.do(http.MethodPost, "/players", `{"name":"`+name+`"}`, true)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := api.do(http.MethodGet, "/players/count", "", false)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `4`, string(body["count"]))

	status, body = api.do(http.MethodGet, "/pairings?seed=5", "", true)
	require.Equal(t, http.StatusOK, status)
	var round struct {
		Number   int `json:"number"`
		Seed     int `json:"seed"`
		Pairings []struct {
			A int `json:"player_a_id"`
			B int `json:"player_b_id"`
		} `json:"pairings"`
	}
	require.NoError(t, json.Unmarshal(body["round"], &round))
	assert.Equal(t, 1, round.Number)
	assert.Equal(t, 5, round.Seed)
	require.Len(t, round.Pairings, 2)

	for _, p := range round.Pairings {
		payload, _ := json.Marshal(map[string]int{"winner_id": p.A, "loser_id": p.B})
		status, _ := api.do(http.MethodPost, "/matches", string(payload), true)
		require.Equal(t, http.StatusCreated, status)
	}

	first := round.Pairings[0]
	payload, _ := json.Marshal(map[string]int{"winner_id": first.B, "loser_id": first.A})
	status, body = api.do(http.MethodPost, "/matches", string(payload), true)
	assert.Equal(t, http.StatusConflict, status, "reversed rematch is a duplicate")
	assert.Contains(t, string(body["error"]), "already played")

	status, body = api.do(http.MethodGet, "/standings", "", false)
	require.Equal(t, http.StatusOK, status)
	var standings []struct {
		ID      int `json:"id"`
		Wins    int `json:"wins"`
		Matches int `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(body["standings"], &standings))
	require.Len(t, standings, 4)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 0, standings[3].Wins)

	status, _ = api.do(http.MethodDelete, "/players", "", true)
	assert.Equal(t, http.StatusConflict, status)

	status, body = api.do(http.MethodDelete, "/players?cascade=true", "", true)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `4`, string(body["deleted"]))

	status, body = api.do(http.MethodGet, "/matches", "", false)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body["matches"]))
}

func TestRoutes_Errors(t *testing.T) {
	api := newAPI(t)
	api.do(http.MethodPost, "/players", `{"name":"Ann"}`, true)
	api.do(http.MethodPost, "/players", `{"name":"Bob"}`, true)
	api.do(http.MethodPost, "/players", `{"name":"Cid"}`, true)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		auth   bool
		want   int
	}{
		{"register without token", http.MethodPost, "/players", `{"name":"Eve"}`, false, http.StatusUnauthorized},
		{"blank name", http.MethodPost, "/players", `{"name":"   "}`, true, http.StatusUnprocessableEntity},
		{"unknown field", http.MethodPost, "/players", `{"nickname":"x"}`, true, http.StatusBadRequest},
		{"self match", http.MethodPost, "/matches", `{"winner_id":1,"loser_id":1}`, true, http.StatusBadRequest},
		{"unknown player", http.MethodPost, "/matches", `{"winner_id":1,"loser_id":99}`, true, http.StatusUnprocessableEntity},
		{"bad seed", http.MethodGet, "/pairings?seed=abc", "", true, http.StatusBadRequest},
		{"bad cascade flag", http.MethodDelete, "/players?cascade=maybe", "", true, http.StatusBadRequest},
		{"pairings without token", http.MethodGet, "/pairings", "", false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := api.do(tt.method, tt.path, tt.body, tt.auth)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestRoutes_PairingConflictDetails(t *testing.T) {
	api := newAPI(t)
	for _, name := range []string{"Ann", "Bob", "Cid"} {
		api.do(http.MethodPost, "/players", `{"name":"`+name+`"}`, true)
	}

	status, body := api.do(http.MethodGet, "/pairings?seed=1", "", true)
	require.Equal(t, http.StatusConflict, status)
	var details struct {
		PlayerID int `json:"player_id"`
	}
	require.NoError(t, json.Unmarshal(body["details"], &details))
	assert.NotZero(t, details.PlayerID)
}

func TestRoutes_PairingExhaustedAfterEscalation(t *testing.T) {
	api := newAPI(t)
	for _, name := range []string{"Ann", "Bob", "Cid", "Dee"} {
		api.do(http.MethodPost, "/players", `{"name":"`+name+`"}`, true)
	}
	// Everyone has met everyone: 3, 2, 1 and 0 wins.
	for _, m := range [][2]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}} {
		payload, _ := json.Marshal(map[string]int{"winner_id": m[0], "loser_id": m[1]})
		status, _ := api.do(http.MethodPost, "/matches", string(payload), true)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := api.do(http.MethodGet, "/pairings?seed=3", "", true)
	require.Equal(t, http.StatusConflict, status)
	var details struct {
		Wins          int   `json:"wins"`
		Unpaired      []int `json:"unpaired"`
		EscalatedFrom []int `json:"escalated_from"`
	}
	require.NoError(t, json.Unmarshal(body["details"], &details))
	assert.Equal(t, 0, details.Wins)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, details.Unpaired)
	assert.Equal(t, []int{2, 1}, details.EscalatedFrom)
}

func TestRoutes_Operational(t *testing.T) {
	api := newAPI(t)

	resp, err := http.Get(api.server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(api.server.URL + "/metrics")
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "swiss_tournament_http_requests_total")

	resp, err = http.Get(api.server.URL + "/swagger/doc.json")
	require.NoError(t, err)
	data, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "/pairings")
}
