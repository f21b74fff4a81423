package feedback

import "context"

// Repository defines persistence operations for feedback records.
type Repository interface {
	// Upsert stores the feedback, replacing any existing record with the
	// same FeedbackID.
	Upsert(ctx context.Context, fb *Feedback) error

	// FindByFeedbackID loads one record, returning a NOT_FOUND typed error
	// when the id is unknown.
	FindByFeedbackID(ctx context.Context, feedbackID string) (*Feedback, error)

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit, offset int) ([]Feedback, error)
}
