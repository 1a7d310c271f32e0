package structures

import (
	"encoding/json"
	"time"
)

// WebhookEnvelope is the outer Tribute webhook body. The payload is kept
// raw until the envelope has been routed by name.
type WebhookEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// DonationPayload is the payload of a "new_donation" webhook. Amount is in
// minor currency units (kopecks, cents).
type DonationPayload struct {
	DonationRequestID string `json:"donation_request_id"`
	Message           string `json:"message"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	UserID            string `json:"user_id"`
	TelegramUserID    string `json:"telegram_user_id"`
}

type WebhookStatus string

const (
	StatusSuccess  WebhookStatus = "success"
	StatusError    WebhookStatus = "error"
	StatusReceived WebhookStatus = "received"
)

// ProcessingResult is the body returned to Tribute for every routed
// webhook. Donation-processing failures are still HTTP 200 with
// status "error" so the provider does not retry-storm the endpoint.
type ProcessingResult struct {
	Status       WebhookStatus `json:"status"`
	Reason       string        `json:"reason"`
	PlayerName   string        `json:"player_name,omitempty"`
	GameCurrency int64         `json:"game_currency"`
}

// WebhookRecord is the append-only history row written for every received
// webhook. It is never updated after insertion.
type WebhookRecord struct {
	Type         string    `json:"webhook_type" bson:"webhook_type"`
	Payload      string    `json:"payload" bson:"payload"`
	Status       string    `json:"status" bson:"status"`
	PlayerName   string    `json:"player_name,omitempty" bson:"player_name,omitempty"`
	GameCurrency int64     `json:"game_currency" bson:"game_currency"`
	ErrorMessage string    `json:"error_message,omitempty" bson:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
