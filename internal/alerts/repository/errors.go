package repository

import "errors"

var (
	// ErrNotFound is returned when no subscription exists for a contact.
	ErrNotFound = errors.New("subscription not found")

	// ErrContactExists is returned when the unique index on user_contact
	// rejects an upsert because a concurrent writer inserted the same
	// contact first.
	ErrContactExists = errors.New("subscription already exists for contact")
)
