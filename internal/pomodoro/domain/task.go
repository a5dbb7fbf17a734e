package domain

import (
	"errors"
	"time"
)

// TaskStatus is the column a task sits in on the board. The string values are
// part of the wire format the web client already speaks.
type TaskStatus string

const (
	StatusToDo      TaskStatus = "to do"
	StatusWorkingOn TaskStatus = "working on"
	StatusDone      TaskStatus = "done"
)

var ErrInvalidTaskStatus = errors.New("invalid task status")

// ParseTaskStatus accepts exactly the three board columns.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(s); st {
	case StatusToDo, StatusWorkingOn, StatusDone:
		return st, nil
	default:
		return "", ErrInvalidTaskStatus
	}
}

func (s TaskStatus) String() string { return string(s) }

type Task struct {
	ID          string
	UserID      string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
