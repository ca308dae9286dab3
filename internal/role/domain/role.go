package domain

import "time"

// OpenEndedActive is the sentinel date marking a role assignment with no end
// date. An assignment is currently active iff its active field equals it.
const OpenEndedActive = "9999-12-31"

// Role names a responsibility an individual holds toward a target.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleCoordinator Role = "COORDINATOR"
	RoleLeader      Role = "LEADER"
)

// TargetType identifies what a role assignment points at.
type TargetType string

const TargetTypeEntity TargetType = "ENTITY"

// Assignment grants role over a target to an individual. Active holds either
// the open-ended sentinel or the date the role ended.
type Assignment struct {
	ID           string
	IndividualID string
	TargetType   TargetType
	TargetID     string
	Role         Role
	Active       time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AssignmentView is an active assignment joined with the target entity's
// display fields, as returned to authenticated clients.
type AssignmentView struct {
	TargetID    string    `json:"targetId"`
	TargetName  string    `json:"targetName"`
	TargetLevel string    `json:"targetLevel"`
	Role        Role      `json:"role"`
	Active      string    `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OpenEnded returns the sentinel as a date value for persistence.
func OpenEnded() time.Time {
	t, _ := time.Parse("2006-01-02", OpenEndedActive)
	return t
}
