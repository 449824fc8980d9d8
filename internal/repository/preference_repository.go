package repository

import (
	"context"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
)

// Preferences are the customer's notification switches.
type Preferences struct {
	PushNotifications  bool
	SMSNotifications   bool
	EmailNotifications bool
}

type PreferenceRepositoryInterface interface {
	Get(ctx context.Context, customerID int64) (Preferences, error)
}

type PreferenceRepository struct {
	DB *db.Gateway
}

// Get falls back to everything enabled when the customer has no row.
func (r *PreferenceRepository) Get(ctx context.Context, customerID int64) (Preferences, error) {
	prefs := Preferences{PushNotifications: true, SMSNotifications: true, EmailNotifications: true}
	row, err := r.DB.FetchOne(ctx, `
		SELECT push_notifications, sms_notifications, email_notifications
		FROM customer_preferences
		WHERE customer_id = ?`, customerID)
	if err != nil || row == nil {
		return prefs, err
	}
	if row.Has("push_notifications") {
		prefs.PushNotifications = row.Bool("push_notifications")
	}
	if row.Has("sms_notifications") {
		prefs.SMSNotifications = row.Bool("sms_notifications")
	}
	if row.Has("email_notifications") {
		prefs.EmailNotifications = row.Bool("email_notifications")
	}
	return prefs, nil
}
