// Package profile loads builder defaults from a YAML file with
// environment variable expansion, the way the applications embedding this
// library usually carry their mail settings.
package profile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hickar/outmail"
)

// Profile carries the transport and message defaults applied to a
// Builder.
type Profile struct {
	HostName                  string            `yaml:"host_name"`                    // SMTP host messages are sent through.
	SMTPPort                  int               `yaml:"smtp_port"`                    // SMTP port; 0 selects the protocol default.
	SSLOnConnect              bool              `yaml:"ssl_on_connect"`               // Negotiate SSL immediately on connect.
	SocketTimeoutMs           int               `yaml:"socket_timeout_ms"`            // Socket read timeout in milliseconds.
	SocketConnectionTimeoutMs int               `yaml:"socket_connection_timeout_ms"` // Socket connect timeout in milliseconds.
	From                      AddressEntry      `yaml:"from"`                         // Default sender.
	ReplyTo                   []AddressEntry    `yaml:"reply_to"`                     // Default reply-to list.
	Headers                   map[string]string `yaml:"headers"`                      // Headers stamped on every message.
}

// AddressEntry is an (email, optional personal name) pair as written in
// the profile file.
type AddressEntry struct {
	Email    string `yaml:"email"`
	Personal string `yaml:"personal"`
}

// Load reads the profile at cfgPath. If an env file exists at envPath it
// is loaded first; ${VAR} references in the profile are expanded from the
// environment before parsing.
func Load(cfgPath, envPath string) (Profile, error) {
	var p Profile

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err = godotenv.Load(envPath); err != nil {
				return p, fmt.Errorf("unable to load environment variables from file: %w", err)
			}
		}
	}

	fileBytes, err := os.ReadFile(cfgPath)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return p, fmt.Errorf("profile file at this path doesn't exist: %w", err)
		case errors.Is(err, os.ErrPermission):
			return p, fmt.Errorf("permission denied for accessing profile file: %w", err)
		default:
			return p, fmt.Errorf("unexpected error during reading profile file: %w", err)
		}
	}

	envExpanded := os.ExpandEnv(string(fileBytes))
	if err = yaml.Unmarshal([]byte(envExpanded), &p); err != nil {
		return p, fmt.Errorf("unable to unmarshal profile file: %w", err)
	}

	return p, nil
}

// Apply pushes the profile values into b through its validated setters, so
// a malformed address or header in the file surfaces as the same error the
// setter itself would return.
func (p Profile) Apply(b *outmail.Builder) error {
	if p.HostName != "" {
		b.SetHostName(p.HostName)
	}
	if p.SMTPPort != 0 {
		b.SetSMTPPort(p.SMTPPort)
	}
	if p.SSLOnConnect {
		b.SetSSLOnConnect(true)
	}
	if p.SocketTimeoutMs > 0 {
		b.SetSocketTimeout(time.Duration(p.SocketTimeoutMs) * time.Millisecond)
	}
	if p.SocketConnectionTimeoutMs > 0 {
		b.SetSocketConnectionTimeout(time.Duration(p.SocketConnectionTimeoutMs) * time.Millisecond)
	}

	if p.From.Email != "" {
		var err error
		if p.From.Personal != "" {
			err = b.SetFrom(p.From.Email, p.From.Personal)
		} else {
			err = b.SetFrom(p.From.Email)
		}
		if err != nil {
			return fmt.Errorf("profile from address: %w", err)
		}
	}

	for _, entry := range p.ReplyTo {
		var err error
		if entry.Personal != "" {
			err = b.AddReplyToNamed(entry.Email, entry.Personal)
		} else {
			err = b.AddReplyTo(entry.Email)
		}
		if err != nil {
			return fmt.Errorf("profile reply-to address: %w", err)
		}
	}

	for name, value := range p.Headers {
		if err := b.AddHeader(name, value); err != nil {
			return fmt.Errorf("profile header %q: %w", name, err)
		}
	}

	return nil
}
