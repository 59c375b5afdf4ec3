// Package validation provides input validation and sanitization for
// telemetry network messages. Control inputs arrive from untrusted
// clients; everything is size-checked, rate-limited, and sanitized
// before it reaches the engine.
package validation

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Message size and content limits
const (
	MaxMessageSize    = 4 * 1024 // control and subscribe messages are tiny
	MaxClientNameLen  = 32
	MaxMessagesPerMin = 2400 // 40/s leaves headroom over a 20 Hz input stream
)

// validClientNameChars allows alphanumeric, spaces, hyphens,
// underscores, and basic punctuation for client names.
var validClientNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.<>()]+$`)

// MessageValidator provides validation for inbound telemetry messages
type MessageValidator struct {
	rateLimiter *RateLimiter
}

// NewMessageValidator creates a new message validator with rate limiting
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{
		rateLimiter: NewRateLimiter(MaxMessagesPerMin, time.Minute),
	}
}

// Close releases resources used by the message validator
func (v *MessageValidator) Close() {
	if v.rateLimiter != nil {
		v.rateLimiter.Close()
	}
}

// ValidateMessage validates a raw message against size and format
// constraints and the per-client rate limit.
func (v *MessageValidator) ValidateMessage(data []byte, clientID string) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes (max %d)", len(data), MaxMessageSize)
	}

	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON format")
	}

	if !v.rateLimiter.Allow(clientID) {
		return fmt.Errorf("rate limit exceeded: max %d messages per minute", MaxMessagesPerMin)
	}

	return nil
}

// ValidateClientName validates and sanitizes a telemetry client name
func ValidateClientName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("client name cannot be empty")
	}

	if len(name) > MaxClientNameLen {
		return "", fmt.Errorf("client name too long: %d characters (max %d)", len(name), MaxClientNameLen)
	}

	if !utf8.ValidString(name) {
		return "", fmt.Errorf("client name contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("client name cannot be only whitespace")
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("client name contains control characters")
		}
	}

	if !validClientNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("client name contains invalid characters (only alphanumeric, spaces, hyphens, underscores, and basic punctuation allowed)")
	}

	// Escape HTML so names are safe to echo into web HUDs
	sanitized := html.EscapeString(trimmed)

	return sanitized, nil
}
