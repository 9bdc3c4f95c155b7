// Package store persists threads and their messages behind a driver
// indirection, so the chat core never touches SQL directly.
package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrWrongOwner is returned when a thread UID exists but belongs to a
// different user.
var ErrWrongOwner = errors.New("thread owned by another user")

// Store wraps a Driver.
type Store struct {
	driver Driver
}

// New builds a Store on top of the given driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// Migrate creates the schema if missing.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateThread creates a new thread.
func (s *Store) CreateThread(ctx context.Context, create *Thread) (*Thread, error) {
	return s.driver.CreateThread(ctx, create)
}

// UpsertThread returns the thread with the given UID, creating it for userID
// when missing. Called once per new thread UID before the first append.
func (s *Store) UpsertThread(ctx context.Context, uid, userID string) (*Thread, error) {
	thread, err := s.driver.GetThread(ctx, &FindThread{UID: &uid})
	if err != nil {
		return nil, err
	}
	if thread != nil {
		if thread.UserID != userID {
			return nil, ErrWrongOwner
		}
		return thread, nil
	}
	return s.driver.CreateThread(ctx, &Thread{
		UID:    uid,
		UserID: userID,
		Title:  "New Chat",
	})
}

// ListThreads lists threads matching the filter, most recently updated first.
func (s *Store) ListThreads(ctx context.Context, find *FindThread) ([]*Thread, error) {
	return s.driver.ListThreads(ctx, find)
}

// GetThread returns the first thread matching the filter, or nil.
func (s *Store) GetThread(ctx context.Context, find *FindThread) (*Thread, error) {
	return s.driver.GetThread(ctx, find)
}

// UpdateThread updates a thread's mutable fields and bumps its timestamp.
func (s *Store) UpdateThread(ctx context.Context, update *UpdateThread) (*Thread, error) {
	return s.driver.UpdateThread(ctx, update)
}

// DeleteThread deletes a thread and all its messages.
func (s *Store) DeleteThread(ctx context.Context, uid string) error {
	return s.driver.DeleteThread(ctx, uid)
}

// CreateMessage appends a message to a thread.
func (s *Store) CreateMessage(ctx context.Context, create *CreateMessage) (*Message, error) {
	return s.driver.CreateMessage(ctx, create)
}

// ListMessages returns all messages for a thread, oldest first.
func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}

// DeleteMessages deletes all messages for the given thread (used during
// compaction).
func (s *Store) DeleteMessages(ctx context.Context, threadID int32) error {
	return s.driver.DeleteMessages(ctx, threadID)
}
