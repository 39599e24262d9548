package dto

import (
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/entities"
)

// Outcome is the result of one subscription pass
type Outcome string

const (
	OutcomeNotDue  Outcome = "not_due"
	OutcomeNoItems Outcome = "no_items"
	OutcomeSent    Outcome = "sent"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// SubscriptionResult is the outcome for one subscription in a cycle
type SubscriptionResult struct {
	SubscriptionID uint
	UserID         uint
	Outcome        Outcome
	Items          int
	Err            error
}

// DeliveryReport summarises one delivery cycle of a channel
type DeliveryReport struct {
	Channel  entities.Channel
	Disabled bool
	Sent     int
	Failed   int
	Skipped  int
	NoItems  int
	NotDue   int
	// NextDue is the earliest unix time a not-due subscription becomes due, 0 if none
	NextDue int64
	Results []SubscriptionResult
}

// Add records a subscription result in the report
func (r *DeliveryReport) Add(res SubscriptionResult) {
	switch res.Outcome {
	case OutcomeSent:
		r.Sent++
	case OutcomeFailed:
		r.Failed++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeNoItems:
		r.NoItems++
	case OutcomeNotDue:
		r.NotDue++
	}
	r.Results = append(r.Results, res)
}

// SMTPAccount is a user's SMTP account with the password in clear
type SMTPAccount struct {
	UserID   uint
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

// EmailMessage is a composed digest ready for MIME encoding
type EmailMessage struct {
	FromAddress string
	FromName    string
	To          string
	Subject     string
	Text        string
	HTML        string
}

// BotCredentials addresses the Telegram Bot API
type BotCredentials struct {
	Token      string
	APIBaseURL string
}

// DigestDeliveredEvent is published after a digest was handed to a channel
type DigestDeliveredEvent struct {
	SubscriptionID uint   `json:"subscription_id"`
	UserID         uint   `json:"user_id"`
	FeedID         uint   `json:"feed_id"`
	Channel        string `json:"channel"`
	Items          int    `json:"items"`
	Watermark      int64  `json:"watermark"`
	Timestamp      int64  `json:"timestamp"`
}
