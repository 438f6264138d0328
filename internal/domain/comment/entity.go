package comment

import "time"

type Comment struct {
	ID         string
	ScheduleID string
	AuthorID   string
	Body       string
	CreatedAt  time.Time

	// Joined from users on reads.
	AuthorName string
}
