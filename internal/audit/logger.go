package audit

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventConsentCreated  EventType = "consent_created"
	EventConsentUpdated  EventType = "consent_updated"
	EventConsentRevoked  EventType = "consent_revoked"
	EventConsentHidden   EventType = "consent_hidden"
	EventConsentRestored EventType = "consent_restored"
	EventAccessDenied    EventType = "access_denied"
	EventLoginSuccess    EventType = "login_success"
	EventLoginFailure    EventType = "login_failure"
	EventUserRegistered  EventType = "user_registered"
)

type Event struct {
	Type      EventType
	ActorID   string
	ActorRole string
	ClientID  string
	TrainerID string
	ConsentID string
	Details   map[string]interface{}
}

// Logger is where audit events are written. Tests swap it for a buffer-backed logger.
var Logger = func() *zerolog.Logger { return &log.Logger }

func Log(event Event) {
	ctx := Logger().With().
		Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now())

	if event.ActorID != "" {
		ctx = ctx.Str("actor_id", event.ActorID)
	}
	if event.ActorRole != "" {
		ctx = ctx.Str("actor_role", event.ActorRole)
	}
	if event.ClientID != "" {
		ctx = ctx.Str("client_id", event.ClientID)
	}
	if event.TrainerID != "" {
		ctx = ctx.Str("trainer_id", event.TrainerID)
	}
	if event.ConsentID != "" {
		ctx = ctx.Str("consent_id", event.ConsentID)
	}
	logger := ctx.Logger()

	logEvent := logger.Info()
	if event.Type == EventAccessDenied || event.Type == EventLoginFailure {
		logEvent = logger.Warn()
	}
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("security audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	case []string:
		return e.Strs(key, v)
	default:
		return e.Interface(key, v)
	}
}
