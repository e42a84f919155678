package services

import "mapmyissues/models"

type Operation string

const (
	OpCreate   Operation = "create"
	OpVote     Operation = "vote"
	OpUpdate   Operation = "update"
	OpAdvance  Operation = "advance"
	OpDelete   Operation = "delete"
	OpValidate Operation = "validate"
)

// IssueState is what authorization needs to know about the target issue.
type IssueState struct {
	Status   models.Status
	HasVoted bool
}

// CanPerform is the single gate checked before every mutating operation.
func CanPerform(op Operation, role models.Role, state IssueState) bool {
	switch op {
	case OpCreate:
		return role == models.RoleCitizen || role == models.RoleAdmin
	case OpVote:
		return role == models.RoleCitizen && VotingOpen(state.Status) && !state.HasVoted
	case OpUpdate:
		return role == models.RoleAdmin || role == models.RoleDepartment
	case OpAdvance, OpDelete, OpValidate:
		return role == models.RoleAdmin
	}
	return false
}
