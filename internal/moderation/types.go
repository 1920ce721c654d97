package moderation

import "time"

// InitialScore is the score every submission starts from before any check.
const InitialScore = 100

// Status is the moderation disposition of a property listing.
type Status string

const (
	StatusApproved      Status = "approved"
	StatusPendingReview Status = "pending_review"
	StatusRejected      Status = "rejected"
)

// IsValid reports whether s is one of the defined dispositions.
func (s Status) IsValid() bool {
	switch s {
	case StatusApproved, StatusPendingReview, StatusRejected:
		return true
	}
	return false
}

// Submission is the flat listing record the moderator scores.
// Nil pointers and empty strings mean the field was not supplied.
type Submission struct {
	Title       string
	Description string
	Price       *float64
	Bedrooms    *int
	Bathrooms   *int
	Images      []string
	Videos      []string
	Address     string
	City        string
	Latitude    *float64
	Longitude   *float64
}

// Result is the outcome of Moderate.
type Result struct {
	Status Status   `json:"status"`
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

// Summary is a presentation-ready view of a Result.
type Summary struct {
	Status         Status    `json:"status"`
	Score          int       `json:"score"`
	Message        string    `json:"message"`
	ActionRequired bool      `json:"action_required"`
	Issues         []string  `json:"issues"`
	ModeratedAt    time.Time `json:"moderated_at"`
}

// Check adjusts the running score and may append issues. Checks never read
// issues produced by earlier checks.
type Check func(sub Submission, score int, issues []string) (int, []string)
