// internal/model/outbound_message.go
package model

import "time"

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// OutboundMessage is a text queued for delivery to a customer's phone.
type OutboundMessage struct {
	ID         string    `json:"id"`
	Channel    string    `json:"channel"` // sms, whatsapp
	Phone      string    `json:"phone"`
	Body       string    `json:"body"`
	Purpose    string    `json:"purpose,omitempty"`
	CustomerID int64     `json:"customer_id,omitempty"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at"`
}
