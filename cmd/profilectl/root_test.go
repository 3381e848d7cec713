package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studentJSON = `{
    "code": 200,
    "msg": "ok",
    "data": {
        "name": "Li Hua",
        "sex": "0",
        "url": "/profile/avatar/li.png",
        "eduStudentDetailsList": [
            {"studentId": "S1", "studyAbility": 80, "thinkingAbility": 50, "codeAbility": 70}
        ]
    }
}`

// useBackend points the command at srv with in-memory storage and bus.
func useBackend(t *testing.T, srv *httptest.Server) {
	t.Helper()

	t.Setenv("EDU_BASE_URL", srv.URL+"/dev-api/")
	t.Setenv("EDU_TOKEN", "tok-1")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("EVENT_BUS", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("METRICS_DUMP", "")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--env-file="))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.Subset(t, names, []string{"load", "get", "set", "session", "migrate"})
}

func TestLoadCmd_PrintsProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(studentJSON))
	}))
	defer srv.Close()
	useBackend(t, srv)

	stdout, _, err := execute(t, "load", "--log-level=error")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))

	assert.Equal(t, true, out["loaded"])
	assert.Equal(t, "S1", out["studentId"])
	assert.NotContains(t, out, "error")

	basic := out["userProfile"].(map[string]any)["basicInfo"].(map[string]any)
	assert.Equal(t, "Li Hua", basic["name"])
	assert.Equal(t, "Female", basic["gender"])
	assert.Equal(t, []any{70.0, 80.0, 50.0}, out["analysisSeries"])
}

func TestLoadCmd_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	useBackend(t, srv)

	stdout, _, err := execute(t, "load", "--log-level=error")
	require.Error(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, false, out["loaded"])
	assert.NotEmpty(t, out["error"])
}

func TestLoadCmd_Parallel(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(studentJSON))
	}))
	defer srv.Close()
	useBackend(t, srv)

	_, _, err := execute(t, "load", "--parallel=3", "--log-level=error")
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load())
}

func TestLoadCmd_RejectsZeroParallel(t *testing.T) {
	_, _, err := execute(t, "load", "--parallel=0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--parallel")
}

func TestLoadCmd_MetricsDump(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(studentJSON))
	}))
	defer srv.Close()
	useBackend(t, srv)

	_, stderr, err := execute(t, "load", "--metrics", "--log-level=error")
	require.NoError(t, err)

	assert.Contains(t, stderr, `profile_loads_total{result="success"} 1`)
	assert.Contains(t, stderr, `localstore_writes_total{key="name"} 1`)
	assert.Contains(t, stderr, `eventbus_events_published_total{event_type="profile-data-ready"} 1`)
	assert.Contains(t, stderr, "eventbus_handler_duration_seconds")
}

func TestSessionCmd_SeedsToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	useBackend(t, srv)

	stdout, _, err := execute(t, "session", "get", "token", "--log-level=error")
	require.NoError(t, err)
	assert.Equal(t, "tok-1\n", stdout)
}

func TestGetCmd_MissingKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	useBackend(t, srv)

	_, _, err := execute(t, "get", "avatarUrl", "--log-level=error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestMigrateCmd_RequiresDatabase(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	useBackend(t, srv)

	_, _, err := execute(t, "migrate", "status")
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestMigrateCmd_RejectsUnknownAction(t *testing.T) {
	_, _, err := execute(t, "migrate", "sideways")
	assert.Error(t, err)
}
