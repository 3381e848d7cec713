package edu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuemind/student-profile/internal/domain/profile"
	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
	"github.com/nuemind/student-profile/internal/infrastructure/persistence/memory"
)

const fullRecordJSON = `{
    "code": 200,
    "msg": "ok",
    "data": {
        "name": "Li Hua",
        "sex": "0",
        "phoneNumber": "13800000000",
        "url": "/profile/avatar/li.png",
        "eduStudentDetailsList": [
            {
                "studentId": "S2024001",
                "age": 20,
                "email": "li@example.com",
                "school": "Tech University",
                "major": "Computer Science",
                "grade": "2024",
                "classinfo": "CS-1",
                "studyAbility": "72.5",
                "thinkingAbility": 45,
                "codeAbility": null
            }
        ]
    }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(DefaultClientConfig(srv.URL + "/dev-api/"))
}

func TestClient_CurrentStudent(t *testing.T) {
	var gotPath, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fullRecordJSON))
	})

	record, err := client.CurrentStudent(context.Background(), "tok-1")
	require.NoError(t, err)

	assert.Equal(t, "/dev-api/edu/student/getCurrentStudentInfo", gotPath)
	assert.Equal(t, "Bearer tok-1", gotAuth)

	assert.Equal(t, "Li Hua", record.Name)
	assert.Equal(t, "0", record.Sex)
	assert.Equal(t, "13800000000", record.PhoneNumber)
	assert.Equal(t, "/profile/avatar/li.png", record.URL)
	require.Len(t, record.Details, 1)

	d := record.PrimaryDetails()
	assert.Equal(t, profile.StudentDetails{
		StudentID:       "S2024001",
		Age:             "20",
		Email:           "li@example.com",
		School:          "Tech University",
		Major:           "Computer Science",
		Grade:           "2024",
		ClassInfo:       "CS-1",
		StudyAbility:    72.5,
		ThinkingAbility: 45,
		CodeAbility:     0,
	}, d)
}

func TestClient_CurrentStudent_TokenFromSession(t *testing.T) {
	session := memory.NewArea()
	require.NoError(t, session.Set(context.Background(), storage.KeyToken, "from-session"))

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(fullRecordJSON))
	}))
	defer srv.Close()

	cfg := DefaultClientConfig(srv.URL)
	cfg.TokenSource = SessionTokenSource{Area: session}
	client := NewClient(cfg)

	_, err := client.CurrentStudent(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-session", gotAuth)
}

func TestClient_CurrentStudent_NoToken(t *testing.T) {
	var hadAuth bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(fullRecordJSON))
	})

	_, err := client.CurrentStudent(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, hadAuth)
}

func TestClient_CurrentStudent_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind profile.LoadErrorKind
		wantIs   error
		wantMsg  string
	}{
		{
			name:     "missing payload",
			status:   http.StatusOK,
			body:     `{"code":200,"msg":"ok","data":null}`,
			wantKind: profile.KindNotFound,
			wantIs:   shared.ErrNotFound,
		},
		{
			name:     "absent data field",
			status:   http.StatusOK,
			body:     `{"code":200,"msg":"ok"}`,
			wantKind: profile.KindNotFound,
			wantIs:   shared.ErrNotFound,
		},
		{
			name:     "http 404",
			status:   http.StatusNotFound,
			body:     ``,
			wantKind: profile.KindNotFound,
			wantIs:   shared.ErrNotFound,
		},
		{
			name:     "body code 401",
			status:   http.StatusOK,
			body:     `{"code":401,"msg":"token expired"}`,
			wantKind: profile.KindUnknown,
			wantIs:   shared.ErrUnauthorized,
			wantMsg:  "token expired",
		},
		{
			name:     "http 500 forwards message",
			status:   http.StatusInternalServerError,
			body:     `{"code":500,"msg":"database down"}`,
			wantKind: profile.KindUnknown,
			wantIs:   shared.ErrRejected,
			wantMsg:  "database down",
		},
		{
			name:     "http 503",
			status:   http.StatusServiceUnavailable,
			body:     `upstream`,
			wantKind: profile.KindNetworkFailure,
			wantIs:   shared.ErrServiceUnavailable,
		},
		{
			name:     "malformed json",
			status:   http.StatusOK,
			body:     `{"code":`,
			wantKind: profile.KindUnknown,
			wantIs:   shared.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			record, err := client.CurrentStudent(context.Background(), "tok")
			require.Error(t, err)
			assert.Nil(t, record)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.wantKind, profile.Classify(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClient_CurrentStudent_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	cfg := DefaultClientConfig(srv.URL)
	cfg.Timeout = 20 * time.Millisecond
	client := NewClient(cfg)

	_, err := client.CurrentStudent(context.Background(), "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrTimeout)
	assert.Equal(t, profile.KindNetworkFailure, profile.Classify(err))
}

func TestClient_CurrentStudent_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(DefaultClientConfig(url))

	_, err := client.CurrentStudent(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, profile.KindNetworkFailure, profile.Classify(err))
}

func TestFlexScalars(t *testing.T) {
	var d StudentDetailsDTO
	err := json.Unmarshal([]byte(`{
        "studentId": 1001,
        "age": "19",
        "grade": null,
        "studyAbility": "",
        "thinkingAbility": "n/a",
        "codeAbility": 88
    }`), &d)
	require.NoError(t, err)

	assert.Equal(t, flexString("1001"), d.StudentID)
	assert.Equal(t, flexString("19"), d.Age)
	assert.Equal(t, flexString(""), d.Grade)
	assert.Equal(t, flexNumber(0), d.StudyAbility)
	assert.Equal(t, flexNumber(0), d.ThinkingAbility)
	assert.Equal(t, flexNumber(88), d.CodeAbility)
}

func TestFlexString_ZeroIsMissing(t *testing.T) {
	var d StudentDetailsDTO
	require.NoError(t, json.Unmarshal([]byte(`{"studentId": 0, "age": 0, "grade": false, "major": "0"}`), &d))

	assert.Equal(t, flexString(""), d.StudentID)
	assert.Equal(t, flexString(""), d.Age)
	assert.Equal(t, flexString(""), d.Grade)
	assert.Equal(t, flexString("0"), d.Major)

	details := StudentFromDTO(&StudentDTO{Details: []StudentDetailsDTO{d}}).PrimaryDetails()
	vm := profile.BuildViewModel(&profile.StudentRecord{}, details)
	assert.Equal(t, profile.FallbackText, vm.BasicInfo.Age)
}

func TestStudentFromDTO_Nil(t *testing.T) {
	assert.Nil(t, StudentFromDTO(nil))

	record := StudentFromDTO(&StudentDTO{Name: "A"})
	assert.Empty(t, record.Details)
	assert.Equal(t, profile.DefaultDetails(), record.PrimaryDetails())
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://h/dev-api/edu/x", joinURL("http://h/dev-api/", "/edu/x"))
	assert.Equal(t, "http://h/edu/x", joinURL("http://h", "edu/x"))
}
