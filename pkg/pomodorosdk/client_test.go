package pomodorosdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginAndTasks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid email or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(LoginResponse{Token: "tok"})
	})
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]Task{{ID: "t1", Description: "write", Status: StatusToDo}})
	})
	mux.HandleFunc("PATCH /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "t1" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Task not found"})
			return
		}
		_, _ = w.Write([]byte("Task updated"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c := NewSDKClient(srv.URL + "/")

	_, err := c.Login(ctx, "a@x.com", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid email or password", apiErr.Message)

	s, err := c.Login(ctx, "a@x.com", "abc123")
	require.NoError(t, err)
	require.Equal(t, "tok", s.Token())

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, StatusToDo, tasks[0].Status)

	require.NoError(t, s.UpdateTaskStatus(ctx, "t1", StatusDone))
	err = s.UpdateTaskStatus(ctx, "t2", StatusDone)
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{"json error", 409, `{"error":"Email already registered"}`, "Email already registered"},
		{"plain text", 500, "Error logging out", "Error logging out"},
		{"empty body", 503, "", "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErrorResponse(&http.Response{StatusCode: tt.code}, []byte(tt.body))
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.code, apiErr.StatusCode)
			require.Equal(t, tt.want, apiErr.Message)
		})
	}

	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: 200}, nil))
}
