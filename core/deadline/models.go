package deadline

import "time"

// Deadline is an assignment due date synchronized from the LMS.
// (UserID, CourseID, AssignmentName) is its natural key.
type Deadline struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	CourseID       int64     `json:"course_id" db:"course_id"`
	CourseName     string    `json:"course_name" db:"course_name"`
	AssignmentName string    `json:"assignment" db:"assignment"`
	DueDate        time.Time `json:"due_date" db:"due_date"`
}

// Key identifies a Deadline by its natural key.
type Key struct {
	UserID         string
	CourseID       int64
	AssignmentName string
}

func (d Deadline) Key() Key {
	return Key{UserID: d.UserID, CourseID: d.CourseID, AssignmentName: d.AssignmentName}
}
