package outmail

import (
	"fmt"
	"io"
	"strings"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"jaytaylor.com/html2text"

	"github.com/hickar/outmail/address"
	"github.com/hickar/outmail/header"
	"github.com/hickar/outmail/session"
)

// Message is an immutable, fully assembled mail artifact ready for handoff
// to a transport. Messages are produced only by Builder.Build and are safe
// to share across goroutines.
type Message struct {
	from        address.Address
	to          []address.Address
	cc          []address.Address
	bcc         []address.Address
	replyTo     []address.Address
	subject     string
	body        string
	contentType string
	headers     header.Snapshot
	sentDate    time.Time
	session     *session.Session
}

// From returns the sender address.
func (m *Message) From() address.Address { return m.from }

// To returns the primary recipients in insertion order.
func (m *Message) To() []address.Address { return cloneAddresses(m.to) }

// Cc returns the carbon-copy recipients in insertion order.
func (m *Message) Cc() []address.Address { return cloneAddresses(m.cc) }

// Bcc returns the blind-carbon-copy recipients in insertion order.
func (m *Message) Bcc() []address.Address { return cloneAddresses(m.bcc) }

// ReplyTo returns the reply-to addresses in insertion order.
func (m *Message) ReplyTo() []address.Address { return cloneAddresses(m.replyTo) }

// Subject returns the message subject.
func (m *Message) Subject() string { return m.subject }

// Body returns the raw message body.
func (m *Message) Body() string { return m.body }

// ContentType returns the body content type, text/plain or text/html.
func (m *Message) ContentType() string { return m.contentType }

// Headers returns the custom headers frozen at build time.
func (m *Message) Headers() header.Snapshot { return m.headers }

// SentDate returns the message sent date. It is never the zero time.
func (m *Message) SentDate() time.Time { return m.sentDate }

// Session returns the transport session the message was built against.
func (m *Message) Session() *session.Session { return m.session }

// PlainText returns the message body as plain text. HTML bodies are
// converted with html2text; plain bodies are returned verbatim.
func (m *Message) PlainText() (string, error) {
	if m.contentType != contentTypeHTML {
		return m.body, nil
	}
	text, err := html2text.FromString(m.body, html2text.Options{TextOnly: true})
	if err != nil {
		return "", fmt.Errorf("convert html body: %w", err)
	}
	return text, nil
}

// WriteTo emits the message in RFC 5322 form. Bcc addresses are left off
// the wire; the transport receives them through Bcc instead.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	var h gomail.Header
	h.SetDate(m.sentDate)
	if m.subject != "" {
		h.SetSubject(m.subject)
	}
	h.SetAddressList("From", toWireAddresses([]address.Address{m.from}))
	if len(m.to) > 0 {
		h.SetAddressList("To", toWireAddresses(m.to))
	}
	if len(m.cc) > 0 {
		h.SetAddressList("Cc", toWireAddresses(m.cc))
	}
	if len(m.replyTo) > 0 {
		h.SetAddressList("Reply-To", toWireAddresses(m.replyTo))
	}
	m.headers.Each(func(name, value string) {
		h.Set(name, value)
	})
	h.SetContentType(m.contentType, map[string]string{"charset": "utf-8"})

	cw := &countingWriter{w: w}
	bw, err := gomail.CreateSingleInlineWriter(cw, h)
	if err != nil {
		return cw.n, fmt.Errorf("create message writer: %w", err)
	}
	if _, err = io.Copy(bw, strings.NewReader(m.body)); err != nil {
		return cw.n, fmt.Errorf("write message body: %w", err)
	}
	if err = bw.Close(); err != nil {
		return cw.n, fmt.Errorf("finish message: %w", err)
	}
	return cw.n, nil
}

func toWireAddresses(addrs []address.Address) []*gomail.Address {
	out := make([]*gomail.Address, len(addrs))
	for i, a := range addrs {
		out[i] = &gomail.Address{Name: a.Personal(), Address: a.Email()}
	}
	return out
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
