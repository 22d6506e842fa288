package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a security event. The set below is what this service
// emits or recognises; any other string is accepted and stored as-is.
type EventType string

const (
	Event2FASetupStarted   EventType = "2fa_setup_started"
	Event2FAVerifyFailed   EventType = "2fa_verify_failed"
	Event2FAEnabled        EventType = "2fa_enabled"
	Event2FADisableFailed  EventType = "2fa_disable_failed"
	Event2FADisabled       EventType = "2fa_disabled"
	Event2FALoginSuccess   EventType = "2fa_login_success"
	Event2FALoginFailed    EventType = "2fa_login_failed"
	Event2FABackupCodeUsed EventType = "2fa_backup_code_used"

	Event2FABackupCodesRegenerated EventType = "2fa_backup_codes_regenerated"

	EventLoginFailed        EventType = "login_failed"
	EventRateLimitExceeded  EventType = "rate_limit_exceeded"
	EventUnauthorizedAccess EventType = "unauthorized_access"

	EventUserReported    EventType = "user_reported"
	EventContentReported EventType = "content_reported"
	EventReportUpdated   EventType = "report_updated"
)

// SuspiciousEventTypes is the fixed taxonomy scanned for suspicious activity.
func SuspiciousEventTypes() []EventType {
	return []EventType{
		Event2FAVerifyFailed,
		Event2FALoginFailed,
		EventLoginFailed,
		EventRateLimitExceeded,
		EventUnauthorizedAccess,
	}
}

// Attr is one metadata entry.
type Attr struct {
	Key   string
	Value string
}

// Metadata is an ordered key/value list. It serialises as a JSON object with
// keys in insertion order.
type Metadata []Attr

// M builds Metadata from alternating key, value pairs. A trailing key with no
// value is dropped.
func M(kv ...string) Metadata {
	md := make(Metadata, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		md = append(md, Attr{Key: kv[i], Value: kv[i+1]})
	}
	return md
}

// Get returns the first value stored under key.
func (m Metadata) Get(key string) (string, bool) {
	for _, a := range m {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(a.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("metadata: expected object, got %v", tok)
	}

	out := Metadata{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("metadata: expected string key, got %v", kt)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			// Non-string values from older writers are kept verbatim.
			s = string(raw)
		}
		out = append(out, Attr{Key: key, Value: s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

// SecurityEvent is an immutable audit record.
type SecurityEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	EventType EventType `json:"eventType"`
	Metadata  Metadata  `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}
