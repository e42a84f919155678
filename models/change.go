package models

const (
	IssuesCollection    = "issues"
	VotesCollection     = "votes"
	LoginLogsCollection = "login_logs"
	UsersCollection     = "users"
)

// ChangeEvent is a notification that something in Table changed. It carries
// no payload; subscribers re-read.
type ChangeEvent struct {
	Table     string `json:"table"`
	Operation string `json:"operation"`
}
