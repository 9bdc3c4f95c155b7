package store

// Thread is a named, ordered conversation owned by one user.
type Thread struct {
	ID     int32
	UID    string
	UserID string
	Title  string
	// Summary holds the rolling summary of compacted older history.
	Summary      string
	MessageCount int32
	CreatedTs    int64
	UpdatedTs    int64
}

// Message is a single turn within a thread. Append-only; insertion order is
// the conversation order.
type Message struct {
	ID         int32
	ThreadID   int32
	Role       string // "user" | "assistant"
	Content    string
	TokenCount int32
	CreatedTs  int64
}

// FindThread filters for ListThreads / GetThread.
type FindThread struct {
	UID    *string
	UserID *string
}

// UpdateThread carries the mutable thread fields. Nil means leave unchanged.
type UpdateThread struct {
	UID     string
	Title   *string
	Summary *string
}

// FindMessage filters for ListMessages.
type FindMessage struct {
	ThreadID int32
}

// CreateMessage is the payload for CreateMessage.
type CreateMessage struct {
	ThreadID   int32
	Role       string
	Content    string
	TokenCount int32
}
