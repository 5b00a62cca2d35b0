package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hickar/outmail"
	"github.com/hickar/outmail/address"
)

const testProfile = `host_name: ${OUTMAIL_TEST_HOST}
smtp_port: 2525
ssl_on_connect: true
socket_timeout_ms: 5000
socket_connection_timeout_ms: 3000
from:
  email: noreply@example.com
  personal: Example Notifier
reply_to:
  - email: support@example.com
headers:
  X-Mailer: outmail
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "profile.yaml", testProfile)
	envPath := writeFile(t, dir, ".env", "OUTMAIL_TEST_HOST=smtp.example.com\n")

	p, err := Load(cfgPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", p.HostName)
	assert.Equal(t, 2525, p.SMTPPort)
	assert.True(t, p.SSLOnConnect)
	assert.Equal(t, 5000, p.SocketTimeoutMs)
	assert.Equal(t, 3000, p.SocketConnectionTimeoutMs)
	assert.Equal(t, "noreply@example.com", p.From.Email)
	assert.Equal(t, "Example Notifier", p.From.Personal)
	require.Len(t, p.ReplyTo, 1)
	assert.Equal(t, "support@example.com", p.ReplyTo[0].Email)
	assert.Equal(t, "outmail", p.Headers["X-Mailer"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "profile.yaml", "host_name: [unclosed")

	_, err := Load(cfgPath, "")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	p := Profile{
		HostName:                  "smtp.example.com",
		SMTPPort:                  2525,
		SSLOnConnect:              true,
		SocketTimeoutMs:           5000,
		SocketConnectionTimeoutMs: 3000,
		From:                      AddressEntry{Email: "noreply@example.com", Personal: "Example Notifier"},
		ReplyTo:                   []AddressEntry{{Email: "support@example.com"}},
		Headers:                   map[string]string{"X-Mailer": "outmail"},
	}

	b := outmail.New()
	require.NoError(t, p.Apply(b))

	assert.Equal(t, "smtp.example.com", b.HostName())
	assert.Equal(t, 2525, b.SMTPPort())
	assert.Equal(t, 5*time.Second, b.SocketTimeout())
	assert.Equal(t, 3*time.Second, b.SocketConnectionTimeout())

	from, ok := b.FromAddress()
	assert.True(t, ok)
	assert.Equal(t, "noreply@example.com", from.Email())
	assert.Equal(t, "Example Notifier", from.Personal())

	replyTo := b.ReplyToAddresses()
	require.Len(t, replyTo, 1)
	assert.Equal(t, "support@example.com", replyTo[0].Email())

	mailer, ok := b.Header("X-Mailer")
	assert.True(t, ok)
	assert.Equal(t, "outmail", mailer)
}

func TestApplyInvalidFromAddress(t *testing.T) {
	p := Profile{From: AddressEntry{Email: "not-an-address"}}

	err := p.Apply(outmail.New())
	assert.ErrorIs(t, err, address.ErrInvalidAddress)
}
