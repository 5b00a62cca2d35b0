package outmail

import "errors"

// Build-time errors. Field-level validation errors live with their own
// packages: address.ErrInvalidAddress, header.ErrInvalidHeader and
// session.ErrConstruction.
var (
	// ErrMissingFrom is returned by Build when no From address was set.
	ErrMissingFrom = errors.New("from address is required")

	// ErrNoRecipients is returned by Build when the recipient policy
	// requires at least one To/Cc/Bcc address and none was added.
	ErrNoRecipients = errors.New("at least one recipient is required")

	// ErrAlreadyBuilt is returned by Build once the builder has produced
	// its message.
	ErrAlreadyBuilt = errors.New("message already built")
)
