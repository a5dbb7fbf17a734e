/*
Package pomodorosdk is a Go client for the Pomodoro task service HTTP API.

# SDKClient vs Session

The package is organised around two types:

  - SDKClient: the public endpoints (register, login, password reset, health)
  - Session: the bearer-authenticated endpoints (tasks, account deletion)

Log in to get a Session:

	client := pomodorosdk.NewSDKClient("http://localhost:8080")

	if _, err := client.Register(ctx, "a@x.com", "abc123"); err != nil {
		return err
	}
	session, err := client.Login(ctx, "a@x.com", "abc123")
	if err != nil {
		return err
	}

	task, err := session.CreateTask(ctx, "write report", pomodorosdk.StatusToDo)
	tasks, err := session.ListTasks(ctx)
	err = session.UpdateTaskStatus(ctx, task.ID, pomodorosdk.StatusDone)

Sessions do not refresh. When the token expires every call fails with a 403
APIError and the caller logs in again.

# Errors

Any non-success response is returned as *APIError carrying the status code
and the server's error message:

	var apiErr *pomodorosdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		// email already registered
	}

The request and response types in this package are the same ones the server
encodes, so client and server cannot drift apart.
*/
package pomodorosdk
