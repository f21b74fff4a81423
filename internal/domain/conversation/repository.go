package conversation

import "context"

// Repository defines persistence operations for conversations.
//
// AppendTurns must be atomic: either every turn in the batch is stored with
// contiguous sequence numbers or none are, and concurrent appends to the
// same conversation must not interleave sequence numbers.
type Repository interface {
	// GetOrCreate loads a conversation by public id, creating an empty one
	// when the id has never been seen.
	GetOrCreate(ctx context.Context, publicID, userEmail string) (*Conversation, error)

	// Find loads a conversation with its turns in seq order. Returns a
	// NOT_FOUND typed error when the id does not exist.
	Find(ctx context.Context, publicID string) (*Conversation, error)

	// AppendTurns stores the batch at the end of the conversation and
	// returns the turns with their assigned sequence numbers.
	AppendTurns(ctx context.Context, publicID string, turns []Turn) ([]Turn, error)

	// Delete removes the conversation and its turns. Deleting an unknown id
	// is not an error; the returned flag reports whether anything existed.
	Delete(ctx context.Context, publicID string) (bool, error)
}
