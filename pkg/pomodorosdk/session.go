package pomodorosdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session performs requests as a logged-in user. It is safe for concurrent
// use; the token never changes.
type Session struct {
	client *SDKClient
	token  string
}

// Token returns the bearer token.
func (s *Session) Token() string { return s.token }

func (s *Session) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	return s.client.doRequest(ctx, method, path, payload, s.token)
}

// ListTasks returns the caller's tasks in creation order.
func (s *Session) ListTasks(ctx context.Context) ([]Task, error) {
	resp, err := s.do(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}

	var tasks []Task
	if err := decodeJSON(resp, &tasks, http.StatusOK); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask adds a task.
func (s *Session) CreateTask(ctx context.Context, description string, status TaskStatus) (*Task, error) {
	resp, err := s.do(ctx, http.MethodPost, "/tasks", CreateTaskRequest{Description: description, Status: status})
	if err != nil {
		return nil, err
	}

	var task Task
	if err := decodeJSON(resp, &task, http.StatusCreated); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus moves a task to another column.
func (s *Session) UpdateTaskStatus(ctx context.Context, id string, status TaskStatus) error {
	resp, err := s.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), UpdateTaskStatusRequest{Status: status})
	if err != nil {
		return err
	}
	_, err = readText(resp)
	return err
}

// DeleteTask removes a task.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	resp, err := s.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	_, err = readText(resp)
	return err
}

// DeleteAccount removes the user and everything they own. The session is
// useless afterwards.
func (s *Session) DeleteAccount(ctx context.Context) (*MessageResponse, error) {
	resp, err := s.do(ctx, http.MethodDelete, "/users/me", nil)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

