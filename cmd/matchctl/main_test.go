package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "organmatch/internal/jwt_token"
)

type seenRequest struct {
	method, path, query, auth string
	body                      map[string]string
}

func fakeServer(t *testing.T, status int, response string) (*httptest.Server, *seenRequest) {
	t.Helper()
	seen := &seenRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.method = r.Method
		seen.path = r.URL.Path
		seen.query = r.URL.RawQuery
		seen.auth = r.Header.Get("Authorization")
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			require.NoError(t, json.Unmarshal(b, &seen.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"matchctl"}, args...))
	return out.String(), err
}

func TestCommitSendsNotes(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusOK, `{"id":"rec-1","match_id":"m-1"}`)

	out, err := run(t, "--server", srv.URL, "--token", "tok", "commit", "--notes", "theatre 4", "m-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, seen.method)
	assert.Equal(t, "/matches/m-1/commit", seen.path)
	assert.Equal(t, "Bearer tok", seen.auth)
	assert.Equal(t, "theatre 4", seen.body["notes"])
	assert.Contains(t, out, `"match_id": "m-1"`)
}

func TestRecordsBuildsQuery(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusOK, `{"transplants":[],"count":0}`)

	_, err := run(t, "--server", srv.URL, "--token", "tok", "records", "--organ", "Kidney", "--year", "2026", "-q", "ada")
	require.NoError(t, err)
	assert.Equal(t, "/transplants", seen.path)
	assert.Equal(t, "organ=Kidney&q=ada&year=2026", seen.query)
}

func TestServerErrorsSurface(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusConflict, `{"error":"already_committed","error_description":"match is already committed"}`)

	_, err := run(t, "--server", srv.URL, "--token", "tok", "commit", "m-1")
	require.Error(t, err)
	assert.Equal(t, "already_committed: match is already committed", err.Error())
}

func TestRequiresToken(t *testing.T) {
	t.Setenv("ORGANMATCH_TOKEN", "")
	_, err := run(t, "--server", "http://127.0.0.1:1", "match")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "token"))
}

func TestCommitRequiresMatchID(t *testing.T) {
	_, err := run(t, "--token", "tok", "commit")
	require.Error(t, err)
}

func TestTokenRoundTrips(t *testing.T) {
	out, err := run(t, "token", "--tenant", "st-marys", "--subject", "coordinator", "--signing-key", "k3y")
	require.NoError(t, err)

	claims, err := jwttoken.NewJWTService("k3y", "organmatch").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "st-marys", string(claims.TenantID))
	assert.Equal(t, "coordinator", claims.Subject)
}
