package domain

import "time"

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusCanceled   TaskStatus = "CANCELED"
)

// Task is a work item assigned to a member. Deletion impact analysis counts
// tasks in non-terminal states.
type Task struct {
	ID         string     `json:"id"`
	OrgID      string     `json:"org_id"`
	Title      string     `json:"title"`
	Status     TaskStatus `json:"status"`
	AssigneeID string     `json:"assignee_id"`
	CreatedOn  time.Time  `json:"created_on"`
}

// IsTerminal reports whether the task needs no further work and therefore
// no reassignment when its assignee is deleted.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone || s == TaskStatusCanceled
}
