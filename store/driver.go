package store

import "context"

// Driver is the SQL-backend contract. Every implementation must list
// messages oldest-first by server-assigned id, so append order is the
// conversation order even under concurrent writers.
type Driver interface {
	Migrate(ctx context.Context) error
	Close() error

	CreateThread(ctx context.Context, create *Thread) (*Thread, error)
	ListThreads(ctx context.Context, find *FindThread) ([]*Thread, error)
	GetThread(ctx context.Context, find *FindThread) (*Thread, error)
	UpdateThread(ctx context.Context, update *UpdateThread) (*Thread, error)
	DeleteThread(ctx context.Context, uid string) error

	CreateMessage(ctx context.Context, create *CreateMessage) (*Message, error)
	ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error)
	DeleteMessages(ctx context.Context, threadID int32) error
}
