package notification

import (
	"fmt"
	"time"
)

// Type identifies a window event.
type Type string

const (
	TypeVETOpened    Type = "vet_opened"
	TypeVETReopened  Type = "vet_reopened"
	TypeVETClosed    Type = "vet_closed"
	TypeVETConfirmed Type = "vet_confirmed"
	TypeVTOOpened    Type = "vto_opened"
	TypeVTOReopened  Type = "vto_reopened"
	TypeVTOClosed    Type = "vto_closed"
	TypeVTOCompleted Type = "vto_completed"
	TypeVTOAccepted  Type = "vto_accepted"
)

// Emails reports whether the event type is mailed to recipients. Confirmations
// and acceptances only go to the live stream.
func (t Type) Emails() bool {
	switch t {
	case TypeVETConfirmed, TypeVTOAccepted:
		return false
	}
	return true
}

type Recipient struct {
	Name  string
	Email string
}

// Event describes a VET or VTO change for one organization.
type Event struct {
	Type               Type
	OrganizationID     string
	ScheduleID         string
	ScheduleDate       time.Time
	Window             string // VET or VTO
	Status             string
	TargetPackageCount *int
	EmployeeID         *string
	Recipients         []Recipient
	OccurredAt         time.Time
}

func (e Event) Subject() string {
	date := e.ScheduleDate.Format("Mon, 02 Jan 2006")
	switch e.Type {
	case TypeVETOpened, TypeVETReopened:
		return fmt.Sprintf("Voluntary Extra Time available on %s", date)
	case TypeVETClosed:
		return fmt.Sprintf("Voluntary Extra Time closed for %s", date)
	case TypeVTOOpened, TypeVTOReopened:
		return fmt.Sprintf("Voluntary Time Off available on %s", date)
	case TypeVTOClosed:
		return fmt.Sprintf("Voluntary Time Off closed for %s", date)
	case TypeVTOCompleted:
		return fmt.Sprintf("Voluntary Time Off completed for %s", date)
	}
	return fmt.Sprintf("%s update for %s", e.Window, date)
}
