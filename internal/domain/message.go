package domain

import (
	"encoding/json"
	"time"
)

// DirectMessage is a one-to-one text message. The server relays it and,
// when a history store is configured, records it; it never interprets
// the payload.
type DirectMessage struct {
	Sender    UserID          `json:"sender"`
	Recipient UserID          `json:"recipient"`
	Payload   json.RawMessage `json:"payload"`
	SentAt    time.Time       `json:"sent_at"`
}
