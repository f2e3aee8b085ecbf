package models

// Notification is the user-facing message handed to the notification
// emitter after issuance. Delivery mechanics live outside this service.
type Notification struct {
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Category string `json:"category"` // payment, ticket, system
	Link     string `json:"link,omitempty"`
}
