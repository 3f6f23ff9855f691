package domain

import "errors"

var (
	// ErrValidation marks a send with a missing sender, receiver or
	// whitespace-only content. The relay drops these without side effects.
	ErrValidation = errors.New("missing or empty required field")

	// ErrRecipientUnknown means the sender or receiver id does not resolve
	// to a user profile. Nothing is stored or delivered.
	ErrRecipientUnknown = errors.New("sender or receiver not found")

	// ErrStorage wraps persistence failures. A send that hits it is never
	// delivered: durability precedes delivery.
	ErrStorage = errors.New("conversation store unavailable")
)
