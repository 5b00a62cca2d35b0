// Package address validates and normalizes email address strings into
// immutable address values.
package address

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// ErrInvalidAddress is returned when a raw email string or personal name
// does not satisfy the structural address grammar.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a validated (email, optional personal name) pair. The zero
// value is not a valid address; use New.
type Address struct {
	email    string
	personal string
}

// New validates raw as a local-part "@" domain address and returns the
// resulting value. An optional personal display name may be passed as a
// second argument; it must be non-blank if present. The raw string is kept
// verbatim, no case folding is applied to the local part.
func New(raw string, personal ...string) (Address, error) {
	var addr Address

	if strings.TrimSpace(raw) == "" {
		return addr, fmt.Errorf("%w: empty email", ErrInvalidAddress)
	}

	local, domain, ok := strings.Cut(raw, "@")
	if !ok || local == "" || domain == "" {
		return addr, fmt.Errorf("%w: %q is not of form local@domain", ErrInvalidAddress, raw)
	}
	if strings.Contains(domain, "@") {
		return addr, fmt.Errorf("%w: %q contains more than one '@'", ErrInvalidAddress, raw)
	}
	if _, err := mail.ParseAddress(raw); err != nil {
		return addr, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, raw, err)
	}

	addr.email = raw
	if len(personal) > 0 {
		name := personal[0]
		if strings.TrimSpace(name) == "" {
			return Address{}, fmt.Errorf("%w: personal name must not be blank", ErrInvalidAddress)
		}
		addr.personal = name
	}

	return addr, nil
}

// ParseList validates every entry of raw and returns the addresses in
// input order. Validation is atomic: a single malformed entry fails the
// whole batch and no addresses are returned.
func ParseList(raw ...string) ([]Address, error) {
	addrs := make([]Address, 0, len(raw))
	for _, r := range raw {
		addr, err := New(r)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// Email returns the raw address string exactly as validated.
func (a Address) Email() string { return a.email }

// Personal returns the display name, or "" if none was supplied.
func (a Address) Personal() string { return a.personal }

// String renders the address in RFC 5322 form, quoting the personal name
// when one is present.
func (a Address) String() string {
	if a.personal == "" {
		return a.email
	}
	return (&mail.Address{Name: a.personal, Address: a.email}).String()
}
