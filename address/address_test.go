package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		personal string
	}{
		{name: "dotless domain", email: "ab@bccom"},
		{name: "dotted local part", email: "a.b@c.org"},
		{name: "long address", email: "abcdefghijklmnopqrst@abcdefghijklmnopqrst.com.bd"},
		{name: "with personal name", email: "reply@example.com", personal: "John Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				addr Address
				err  error
			)
			if tt.personal != "" {
				addr, err = New(tt.email, tt.personal)
			} else {
				addr, err = New(tt.email)
			}

			require.NoError(t, err)
			assert.Equal(t, tt.email, addr.Email())
			assert.Equal(t, tt.personal, addr.Personal())
		})
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "empty", email: ""},
		{name: "whitespace only", email: "   "},
		{name: "missing at sign", email: "plainaddress"},
		{name: "missing local part", email: "@example.com"},
		{name: "missing domain", email: "local@"},
		{name: "double at sign", email: "a@b@c.org"},
		{name: "unquoted space", email: "a b@c.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.email)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestNewBlankPersonalName(t *testing.T) {
	_, err := New("a.b@c.org", "  ")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestParseListPreservesOrder(t *testing.T) {
	addrs, err := ParseList("first@example.com", "second@example.com", "third@example.com")
	require.NoError(t, err)
	require.Len(t, addrs, 3)
	assert.Equal(t, "first@example.com", addrs[0].Email())
	assert.Equal(t, "second@example.com", addrs[1].Email())
	assert.Equal(t, "third@example.com", addrs[2].Email())
}

func TestParseListIsAtomic(t *testing.T) {
	addrs, err := ParseList("first@example.com", "not-an-address", "third@example.com")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Nil(t, addrs)
}

func TestString(t *testing.T) {
	plain, err := New("a.b@c.org")
	require.NoError(t, err)
	assert.Equal(t, "a.b@c.org", plain.String())

	named, err := New("a.b@c.org", "John Doe")
	require.NoError(t, err)
	assert.Equal(t, `"John Doe" <a.b@c.org>`, named.String())
}
