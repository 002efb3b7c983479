package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/taskboard/internal/config"
	"github.com/crucial707/taskboard/internal/repo/repotest"
)

func testConfig(mode string) config.Config {
	return config.Config{
		JWTSecret:          "test-secret-for-integration",
		BcryptCost:         4,
		AuthzMode:          mode,
		CORSAllowedOrigins: []string{"*"},
		MaxBodyBytes:       1 << 20,
	}
}

type apiClient struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T, store *repotest.MemStore, cfg config.Config) *apiClient {
	t.Helper()
	r, err := newRouter(store, cfg, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &apiClient{t: t, srv: srv}
}

// do sends body as JSON (when non-nil) and decodes the response into out (when non-nil).
func (c *apiClient) do(method, path, token string, body, out interface{}) int {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, rd)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type creds map[string]string

type loginOut struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	JWTToken string `json:"jwtToken"`
}

func (c *apiClient) login(username, password string) loginOut {
	c.t.Helper()
	var out loginOut
	require.Equal(c.t, http.StatusOK, c.do("POST", "/login", "", creds{"username": username, "password": password}, &out))
	return out
}

func TestAPI_TaskLifecycle(t *testing.T) {
	c := newTestServer(t, repotest.NewMemStore(), testConfig(config.AuthzOpen))

	var msg map[string]string
	assert.Equal(t, http.StatusOK, c.do("POST", "/register", "", creds{"username": "alice", "password": "pw1"}, &msg))
	assert.Equal(t, "User registered successfully", msg["message"])

	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/register", "", creds{"username": "alice", "password": "pw2"}, &msg))
	assert.Equal(t, "Username already exists", msg["error"])

	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/login", "", creds{"username": "alice", "password": "pw2"}, &msg))
	assert.Equal(t, "Invalid Password", msg["error"])

	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/login", "", creds{"username": "nobody", "password": "pw1"}, &msg))
	assert.Equal(t, "Invalid User", msg["error"])

	alice := c.login("alice", "pw1")
	assert.Equal(t, "Login Success!", alice.Message)
	require.NotEmpty(t, alice.JWTToken)

	var created struct {
		Message string `json:"message"`
		TaskID  string `json:"task_id"`
	}
	require.Equal(t, http.StatusOK, c.do("POST", "/tasks", alice.JWTToken,
		map[string]string{"user_id": alice.UserID, "task": "buy milk"}, &created))
	assert.Equal(t, "Task created successfully", created.Message)

	var tasks []map[string]interface{}
	require.Equal(t, http.StatusOK, c.do("GET", "/tasks/"+alice.UserID, "", nil, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, map[string]interface{}{
		"_id": created.TaskID, "user_id": alice.UserID, "task": "buy milk", "isChecked": false,
	}, tasks[0])

	assert.Equal(t, http.StatusOK, c.do("PATCH", "/tasks/"+created.TaskID, alice.JWTToken, map[string]bool{"isChecked": true}, &msg))
	assert.Equal(t, "Task isChecked status updated successfully", msg["message"])

	require.Equal(t, http.StatusOK, c.do("GET", "/tasks/"+alice.UserID, "", nil, &tasks))
	assert.Equal(t, true, tasks[0]["isChecked"])

	assert.Equal(t, http.StatusOK, c.do("DELETE", "/tasks/"+created.TaskID, alice.JWTToken, nil, &msg))
	assert.Equal(t, "Task deleted successfully", msg["message"])

	assert.Equal(t, http.StatusNotFound, c.do("DELETE", "/tasks/"+created.TaskID, alice.JWTToken, nil, &msg))
	assert.Equal(t, "Task not found", msg["error"])

	require.Equal(t, http.StatusOK, c.do("GET", "/tasks/"+alice.UserID, "", nil, &tasks))
	assert.Empty(t, tasks)
}

func TestAPI_GuardedRoutesRequireToken(t *testing.T) {
	c := newTestServer(t, repotest.NewMemStore(), testConfig(config.AuthzOpen))

	routes := []struct{ method, path string }{
		{"POST", "/tasks"},
		{"PATCH", "/tasks/abc"},
		{"DELETE", "/tasks/abc"},
	}
	for _, rt := range routes {
		for _, token := range []string{"", "garbage"} {
			var out map[string]string
			assert.Equal(t, http.StatusUnauthorized, c.do(rt.method, rt.path, token, nil, &out), rt.method+" "+rt.path)
			assert.Equal(t, "Invalid JWT Token", out["error"])
		}
	}
}

func TestAPI_UsersNeverExposeHashes(t *testing.T) {
	c := newTestServer(t, repotest.NewMemStore(), testConfig(config.AuthzOpen))
	c.do("POST", "/register", "", creds{"username": "alice", "password": "pw1"}, nil)
	c.do("POST", "/register", "", creds{"username": "bob", "password": "pw2"}, nil)

	for _, path := range []string{"/users/", "/users"} {
		resp, err := http.Get(c.srv.URL + path)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotContains(t, string(body), "password")
		assert.NotContains(t, string(body), "$2a$")

		var users []map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &users))
		require.Len(t, users, 2)
		assert.ElementsMatch(t, []string{"_id", "username"}, keys(users[0]))
	}
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestAPI_OwnerMode(t *testing.T) {
	c := newTestServer(t, repotest.NewMemStore(), testConfig(config.AuthzOwner))
	c.do("POST", "/register", "", creds{"username": "alice", "password": "pw1"}, nil)
	c.do("POST", "/register", "", creds{"username": "bob", "password": "pw2"}, nil)
	alice := c.login("alice", "pw1")
	bob := c.login("bob", "pw2")

	assert.Equal(t, http.StatusUnauthorized, c.do("GET", "/users/", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do("GET", "/tasks/"+bob.UserID, "", nil, nil))
	assert.Equal(t, http.StatusOK, c.do("GET", "/users/", alice.JWTToken, nil, nil))

	var created struct {
		TaskID string `json:"task_id"`
	}
	require.Equal(t, http.StatusOK, c.do("POST", "/tasks", bob.JWTToken,
		map[string]string{"user_id": bob.UserID, "task": "walk dog"}, &created))

	var out map[string]string
	assert.Equal(t, http.StatusForbidden, c.do("POST", "/tasks", alice.JWTToken,
		map[string]string{"user_id": bob.UserID, "task": "x"}, &out))
	assert.Equal(t, "Forbidden", out["error"])
	assert.Equal(t, http.StatusForbidden, c.do("GET", "/tasks/"+bob.UserID, alice.JWTToken, nil, nil))
	assert.Equal(t, http.StatusForbidden, c.do("PATCH", "/tasks/"+created.TaskID, alice.JWTToken, map[string]bool{"isChecked": true}, nil))
	assert.Equal(t, http.StatusForbidden, c.do("DELETE", "/tasks/"+created.TaskID, alice.JWTToken, nil, nil))

	assert.Equal(t, http.StatusOK, c.do("GET", "/tasks/"+bob.UserID, bob.JWTToken, nil, nil))
	assert.Equal(t, http.StatusOK, c.do("DELETE", "/tasks/"+created.TaskID, bob.JWTToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do("PATCH", "/tasks/"+created.TaskID, bob.JWTToken, map[string]bool{"isChecked": true}, nil))
}

func TestAPI_Probes(t *testing.T) {
	store := repotest.NewMemStore()
	c := newTestServer(t, store, testConfig(config.AuthzOpen))

	resp, err := http.Get(c.srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	var status map[string]string
	assert.Equal(t, http.StatusOK, c.do("GET", "/ready", "", nil, &status))
	assert.Equal(t, "ready", status["status"])

	store.SetErr(errors.New("down"))
	assert.Equal(t, http.StatusServiceUnavailable, c.do("GET", "/ready", "", nil, nil))

	resp, err = http.Get(c.srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestAPI_StorageErrorsAreGeneric(t *testing.T) {
	store := repotest.NewMemStore()
	c := newTestServer(t, store, testConfig(config.AuthzOpen))
	store.SetErr(errors.New("pq: relation \"users\" does not exist"))

	var out map[string]string
	assert.Equal(t, http.StatusInternalServerError, c.do("POST", "/register", "", creds{"username": "a", "password": "b"}, &out))
	assert.Equal(t, "Registration failed", out["error"])
	assert.Equal(t, http.StatusInternalServerError, c.do("GET", "/users/", "", nil, &out))
	assert.Equal(t, "Failed to fetch users", out["error"])
}

func TestAPI_CORSPreflight(t *testing.T) {
	c := newTestServer(t, repotest.NewMemStore(), testConfig(config.AuthzOpen))

	req, err := http.NewRequest(http.MethodOptions, c.srv.URL+"/tasks/abc", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	resp, err := c.srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), "PATCH"))
}

func TestAPI_OversizedBody(t *testing.T) {
	cfg := testConfig(config.AuthzOpen)
	cfg.MaxBodyBytes = 32
	c := newTestServer(t, repotest.NewMemStore(), cfg)

	var out map[string]string
	status := c.do("POST", "/register", "", creds{"username": strings.Repeat("a", 64), "password": "pw"}, &out)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNewRouter_InvalidBcryptCost(t *testing.T) {
	cfg := testConfig(config.AuthzOpen)
	cfg.BcryptCost = 99
	_, err := newRouter(repotest.NewMemStore(), cfg, nil)
	assert.Error(t, err)
}
