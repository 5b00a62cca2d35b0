// Package outmail assembles outbound electronic mail messages. A Builder
// accumulates addresses, headers, subject, body and transport
// configuration, and produces a single immutable Message together with the
// session the delivery collaborator should use. Network delivery itself is
// out of scope and left to that collaborator.
package outmail

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hickar/outmail/address"
	"github.com/hickar/outmail/header"
	"github.com/hickar/outmail/session"
)

// buildState tracks the builder lifecycle. There is no transition out of
// stateBuilt: a builder produces at most one message.
type buildState int

const (
	stateEmpty buildState = iota
	stateConfigured
	stateBuilt
)

// Role is a named recipient category.
type Role int

const (
	RoleTo Role = iota
	RoleCc
	RoleBcc
	RoleReplyTo
)

func (r Role) String() string {
	switch r {
	case RoleTo:
		return "To"
	case RoleCc:
		return "Cc"
	case RoleBcc:
		return "Bcc"
	case RoleReplyTo:
		return "Reply-To"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// RecipientPolicy controls whether Build requires at least one To/Cc/Bcc
// address.
type RecipientPolicy int

const (
	// RequireRecipients makes Build fail with ErrNoRecipients when no
	// recipient was added. This is the default.
	RequireRecipients RecipientPolicy = iota

	// AllowEmptyRecipients lets Build succeed without recipients; the
	// transport is expected to reject such a message instead.
	AllowEmptyRecipients
)

const (
	contentTypeText = "text/plain"
	contentTypeHTML = "text/html"
)

// Builder accumulates the fields of an outbound message and produces a
// single immutable Message. A Builder is not safe for concurrent use; the
// produced Message is.
type Builder struct {
	state buildState

	from    *address.Address
	to      []address.Address
	cc      []address.Address
	bcc     []address.Address
	replyTo []address.Address

	subject     string
	body        string
	contentType string
	sentDate    time.Time

	headers *header.Store

	sessionCfg session.Config
	session    *session.Session

	built *Message

	policy RecipientPolicy
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRecipientPolicy overrides the default RequireRecipients policy.
func WithRecipientPolicy(policy RecipientPolicy) Option {
	return func(b *Builder) {
		b.policy = policy
	}
}

// New returns an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		headers:     header.NewStore(),
		contentType: contentTypeText,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// touch records that the builder left the empty state.
func (b *Builder) touch() {
	if b.state == stateEmpty {
		b.state = stateConfigured
	}
}

// SetHostName configures the mail host a session is synthesized from when
// the caller does not supply one.
func (b *Builder) SetHostName(host string) {
	b.sessionCfg.HostName = host
	b.touch()
}

// SetSMTPPort configures the SMTP port. Zero selects the protocol default
// port at resolution time.
func (b *Builder) SetSMTPPort(port int) {
	b.sessionCfg.Port = port
	b.touch()
}

// SetSSLOnConnect marks the transport to negotiate SSL immediately on
// connect.
func (b *Builder) SetSSLOnConnect(ssl bool) {
	b.sessionCfg.SSLOnConnect = ssl
	b.touch()
}

// SetSocketTimeout configures the socket read timeout handed to the
// transport. Zero leaves the transport default.
func (b *Builder) SetSocketTimeout(d time.Duration) {
	b.sessionCfg.SocketTimeout = d
	b.touch()
}

// SetSocketConnectionTimeout configures the socket connect timeout handed
// to the transport. Zero leaves the transport default.
func (b *Builder) SetSocketConnectionTimeout(d time.Duration) {
	b.sessionCfg.SocketConnectionTimeout = d
	b.touch()
}

// SMTPPort returns the configured SMTP port, 0 meaning the protocol
// default.
func (b *Builder) SMTPPort() int { return b.sessionCfg.Port }

// SocketTimeout returns the configured socket read timeout.
func (b *Builder) SocketTimeout() time.Duration { return b.sessionCfg.SocketTimeout }

// SocketConnectionTimeout returns the configured socket connect timeout.
func (b *Builder) SocketConnectionTimeout() time.Duration {
	return b.sessionCfg.SocketConnectionTimeout
}

// SetMailSession supplies an externally managed session. It takes
// precedence over any host/port/SSL/timeout configuration; the builder
// never mutates or closes it.
func (b *Builder) SetMailSession(s *session.Session) {
	b.session = s
	b.touch()
}

// MailSession returns the session used for delivery, resolving one from
// the configured host/port/SSL/timeout fields when the caller did not
// supply a session. The first successful resolution is cached and reused.
func (b *Builder) MailSession() (*session.Session, error) {
	if b.session != nil {
		return b.session, nil
	}
	s, err := session.Resolve(b.session, b.sessionCfg, b.logger)
	if err != nil {
		return nil, err
	}
	b.session = s
	return s, nil
}

// HostName reports the mail host the message will be sent through: the
// host property of an already-resolved session if one exists, else the
// locally configured host name, else "".
func (b *Builder) HostName() string {
	if b.session != nil {
		return b.session.Host()
	}
	if strings.TrimSpace(b.sessionCfg.HostName) != "" {
		return b.sessionCfg.HostName
	}
	return ""
}

// SetFrom validates and sets the sender address. An optional personal
// display name may be passed as a second argument.
func (b *Builder) SetFrom(email string, personal ...string) error {
	addr, err := address.New(email, personal...)
	if err != nil {
		return err
	}
	b.from = &addr
	b.touch()
	return nil
}

// FromAddress returns the sender address, or false when none was set.
func (b *Builder) FromAddress() (address.Address, bool) {
	if b.from == nil {
		return address.Address{}, false
	}
	return *b.from, true
}

// AddTo appends one or more primary recipients. The batch is atomic: if
// any address fails validation none are added.
func (b *Builder) AddTo(emails ...string) error { return b.addBatch(&b.to, emails) }

// AddCc appends one or more carbon-copy recipients atomically.
func (b *Builder) AddCc(emails ...string) error { return b.addBatch(&b.cc, emails) }

// AddBcc appends one or more blind-carbon-copy recipients atomically.
func (b *Builder) AddBcc(emails ...string) error { return b.addBatch(&b.bcc, emails) }

// AddReplyTo appends one or more reply-to addresses atomically.
func (b *Builder) AddReplyTo(emails ...string) error { return b.addBatch(&b.replyTo, emails) }

// AddToNamed appends a single primary recipient with a personal display
// name.
func (b *Builder) AddToNamed(email, personal string) error {
	return b.addNamed(&b.to, email, personal)
}

// AddCcNamed appends a single carbon-copy recipient with a personal
// display name.
func (b *Builder) AddCcNamed(email, personal string) error {
	return b.addNamed(&b.cc, email, personal)
}

// AddBccNamed appends a single blind-carbon-copy recipient with a personal
// display name.
func (b *Builder) AddBccNamed(email, personal string) error {
	return b.addNamed(&b.bcc, email, personal)
}

// AddReplyToNamed appends a single reply-to address with a personal
// display name.
func (b *Builder) AddReplyToNamed(email, personal string) error {
	return b.addNamed(&b.replyTo, email, personal)
}

func (b *Builder) addBatch(list *[]address.Address, emails []string) error {
	addrs, err := address.ParseList(emails...)
	if err != nil {
		return err
	}
	*list = append(*list, addrs...)
	b.touch()
	return nil
}

func (b *Builder) addNamed(list *[]address.Address, email, personal string) error {
	addr, err := address.New(email, personal)
	if err != nil {
		return err
	}
	*list = append(*list, addr)
	b.touch()
	return nil
}

// Recipients returns a copy of the addresses held for role, in insertion
// order.
func (b *Builder) Recipients(role Role) []address.Address {
	switch role {
	case RoleTo:
		return cloneAddresses(b.to)
	case RoleCc:
		return cloneAddresses(b.cc)
	case RoleBcc:
		return cloneAddresses(b.bcc)
	case RoleReplyTo:
		return cloneAddresses(b.replyTo)
	default:
		return nil
	}
}

// ToAddresses returns the primary recipients in insertion order.
func (b *Builder) ToAddresses() []address.Address { return b.Recipients(RoleTo) }

// CcAddresses returns the carbon-copy recipients in insertion order.
func (b *Builder) CcAddresses() []address.Address { return b.Recipients(RoleCc) }

// BccAddresses returns the blind-carbon-copy recipients in insertion
// order.
func (b *Builder) BccAddresses() []address.Address { return b.Recipients(RoleBcc) }

// ReplyToAddresses returns the reply-to addresses in insertion order.
func (b *Builder) ReplyToAddresses() []address.Address { return b.Recipients(RoleReplyTo) }

// AddHeader stores a custom header. Setting the same name again replaces
// the previous value.
func (b *Builder) AddHeader(name, value string) error {
	if err := b.headers.Set(name, value); err != nil {
		return err
	}
	b.touch()
	return nil
}

// Header returns the value stored under name.
func (b *Builder) Header(name string) (string, bool) {
	return b.headers.Get(name)
}

// SetSubject sets the message subject.
func (b *Builder) SetSubject(subject string) {
	b.subject = subject
	b.touch()
}

// Subject returns the configured subject.
func (b *Builder) Subject() string { return b.subject }

// SetMsg sets a plain-text message body.
func (b *Builder) SetMsg(body string) {
	b.body = body
	b.contentType = contentTypeText
	b.touch()
}

// SetHTMLMsg sets an HTML message body. The transport receives it with a
// text/html content type; PlainText on the built message converts it back
// to text.
func (b *Builder) SetHTMLMsg(body string) {
	b.body = body
	b.contentType = contentTypeHTML
	b.touch()
}

// SetSentDate sets an explicit sent date. The zero time resets it, making
// Build stamp the message with the build time instead.
func (b *Builder) SetSentDate(t time.Time) {
	b.sentDate = t
	b.touch()
}

// SentDate returns the explicitly configured sent date, or the current
// time when none was set. It never returns the zero time.
func (b *Builder) SentDate() time.Time {
	if b.sentDate.IsZero() {
		return time.Now()
	}
	return b.sentDate
}

// Build assembles the message exactly once. On failure the builder is left
// unchanged and a later call may retry; after a success every further call
// fails with ErrAlreadyBuilt and the first message remains authoritative.
func (b *Builder) Build() (*Message, error) {
	if b.state == stateBuilt {
		return nil, fmt.Errorf("%w: builder already produced a message", ErrAlreadyBuilt)
	}
	if b.from == nil {
		return nil, ErrMissingFrom
	}
	if b.policy == RequireRecipients && len(b.to)+len(b.cc)+len(b.bcc) == 0 {
		return nil, ErrNoRecipients
	}

	sess, err := b.MailSession()
	if err != nil {
		return nil, fmt.Errorf("resolve mail session: %w", err)
	}

	sentDate := b.sentDate
	if sentDate.IsZero() {
		sentDate = time.Now()
	}

	msg := &Message{
		from:        *b.from,
		to:          cloneAddresses(b.to),
		cc:          cloneAddresses(b.cc),
		bcc:         cloneAddresses(b.bcc),
		replyTo:     cloneAddresses(b.replyTo),
		subject:     b.subject,
		body:        b.body,
		contentType: b.contentType,
		headers:     b.headers.Snapshot(),
		sentDate:    sentDate,
		session:     sess,
	}

	b.built = msg
	b.state = stateBuilt
	b.logger.Debug("message built",
		slog.String("from", msg.from.Email()),
		slog.Int("recipients", len(msg.to)+len(msg.cc)+len(msg.bcc)),
		slog.String("host", sess.Host()),
	)
	return msg, nil
}

// BuiltMessage returns the message produced by Build, or false when the
// builder has not built one yet.
func (b *Builder) BuiltMessage() (*Message, bool) {
	return b.built, b.built != nil
}

func cloneAddresses(addrs []address.Address) []address.Address {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]address.Address, len(addrs))
	copy(out, addrs)
	return out
}
