package session

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Config carries the discrete fields a session is synthesized from when
// the caller does not supply one.
type Config struct {
	HostName                string
	Port                    int           // 0 selects the protocol default port
	SSLOnConnect            bool
	SocketTimeout           time.Duration // 0 leaves the transport default
	SocketConnectionTimeout time.Duration // 0 leaves the transport default
}

// resolveStep is one link of the resolution chain. It returns a session if
// it could resolve one, or nil to defer to the next link.
type resolveStep func(explicit *Session, cfg Config, logger *slog.Logger) (*Session, error)

var resolveChain = []resolveStep{
	resolveExplicit,
	resolveConfigured,
	resolveEmpty,
}

// Resolve produces the session handed to the transport. Precedence, in
// strict order:
//
//  1. a caller-supplied session is returned unchanged; cfg is ignored
//  2. a non-empty cfg.HostName synthesizes a session from cfg, filling in
//     the protocol default port when none is set
//  3. otherwise an empty session is returned; this is a valid state, and
//     any failure surfaces only once the transport attempts delivery
//
// A nil logger disables debug output.
func Resolve(explicit *Session, cfg Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, step := range resolveChain {
		s, err := step(explicit, cfg, logger)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	// Unreachable, resolveEmpty always resolves.
	return nil, ErrConstruction
}

func resolveExplicit(explicit *Session, _ Config, logger *slog.Logger) (*Session, error) {
	if explicit == nil {
		return nil, nil
	}
	logger.Debug("reusing caller-supplied mail session", slog.String("host", explicit.Host()))
	return explicit, nil
}

func resolveConfigured(_ *Session, cfg Config, logger *slog.Logger) (*Session, error) {
	if strings.TrimSpace(cfg.HostName) == "" {
		return nil, nil
	}
	props, err := cfg.properties()
	if err != nil {
		return nil, err
	}
	logger.Debug("synthesized mail session",
		slog.String("host", cfg.HostName),
		slog.String("port", props[PropPort]),
		slog.Bool("ssl", cfg.SSLOnConnect),
	)
	return &Session{props: props}, nil
}

func resolveEmpty(_ *Session, _ Config, logger *slog.Logger) (*Session, error) {
	logger.Debug("no session and no host configured, using empty session")
	return &Session{props: make(map[string]string)}, nil
}

func (c Config) properties() (map[string]string, error) {
	if c.Port < 0 || c.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range", ErrConstruction, c.Port)
	}
	if c.SocketTimeout < 0 {
		return nil, fmt.Errorf("%w: negative socket timeout %v", ErrConstruction, c.SocketTimeout)
	}
	if c.SocketConnectionTimeout < 0 {
		return nil, fmt.Errorf("%w: negative socket connection timeout %v", ErrConstruction, c.SocketConnectionTimeout)
	}

	props := map[string]string{
		PropTransportProtocol: "smtp",
		PropHost:              c.HostName,
	}

	port := c.Port
	if port == 0 {
		if c.SSLOnConnect {
			port = DefaultPortSSL
		} else {
			port = DefaultPort
		}
	}
	props[PropPort] = strconv.Itoa(port)

	if c.SSLOnConnect {
		props[PropSSLEnable] = "true"
	}
	if c.SocketTimeout > 0 {
		props[PropTimeout] = strconv.FormatInt(c.SocketTimeout.Milliseconds(), 10)
	}
	if c.SocketConnectionTimeout > 0 {
		props[PropConnectionTimeout] = strconv.FormatInt(c.SocketConnectionTimeout.Milliseconds(), 10)
	}

	return props, nil
}
