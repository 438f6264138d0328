package notification

// StreamPayload is the JSON body of an SSE message.
type StreamPayload struct {
	Type               Type    `json:"type"`
	ScheduleID         string  `json:"schedule_id"`
	ScheduleDate       string  `json:"schedule_date"`
	Window             string  `json:"window"`
	Status             string  `json:"status"`
	TargetPackageCount *int    `json:"target_package_count,omitempty"`
	EmployeeID         *string `json:"employee_id,omitempty"`
	OccurredAt         string  `json:"occurred_at"`
}
