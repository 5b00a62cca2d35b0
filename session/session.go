// Package session resolves the transport session used to deliver built
// messages. A session is an opaque bag of javamail-style properties the
// delivery collaborator reads; this package only decides which properties
// end up in it.
package session

import (
	"errors"
	"strconv"
	"time"
)

// Property keys understood by the transport collaborator.
const (
	PropHost              = "mail.smtp.host"
	PropPort              = "mail.smtp.port"
	PropSSLEnable         = "mail.smtp.ssl.enable"
	PropTimeout           = "mail.smtp.timeout"
	PropConnectionTimeout = "mail.smtp.connectiontimeout"
	PropTransportProtocol = "mail.transport.protocol"
)

// Default SMTP connection ports.
const (
	DefaultPort    = 25
	DefaultPortSSL = 465
)

// ErrConstruction is returned when a session cannot be synthesized from
// the supplied configuration.
var ErrConstruction = errors.New("session construction failed")

// Session is an opaque transport-configuration handle. Sessions supplied
// by the caller are shared and never mutated here; sessions synthesized by
// Resolve are owned by whoever holds them.
type Session struct {
	props map[string]string
}

// NewFromProperties returns a session backed by a copy of props.
func NewFromProperties(props map[string]string) *Session {
	s := &Session{props: make(map[string]string, len(props))}
	for k, v := range props {
		s.props[k] = v
	}
	return s
}

// Property returns the raw value stored under key.
func (s *Session) Property(key string) (string, bool) {
	v, ok := s.props[key]
	return v, ok
}

// Properties returns a copy of all properties for handoff to the
// transport.
func (s *Session) Properties() map[string]string {
	out := make(map[string]string, len(s.props))
	for k, v := range s.props {
		out[k] = v
	}
	return out
}

// Host returns the configured mail host, or "" when none is set.
func (s *Session) Host() string {
	return s.props[PropHost]
}

// Port returns the configured port, or 0 when unset or unparsable.
func (s *Session) Port() int {
	v, ok := s.props[PropPort]
	if !ok {
		return 0
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return port
}

// SSL reports whether the transport should negotiate SSL immediately on
// connect.
func (s *Session) SSL() bool {
	return s.props[PropSSLEnable] == "true"
}

// Timeout returns the socket read timeout, or 0 when the transport default
// applies.
func (s *Session) Timeout() time.Duration {
	return s.millisProp(PropTimeout)
}

// ConnectionTimeout returns the socket connect timeout, or 0 when the
// transport default applies.
func (s *Session) ConnectionTimeout() time.Duration {
	return s.millisProp(PropConnectionTimeout)
}

func (s *Session) millisProp(key string) time.Duration {
	v, ok := s.props[key]
	if !ok {
		return 0
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
