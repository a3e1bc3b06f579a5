package domain

// NotificationType categorizes admin notifications for icon/filter rendering.
type NotificationType string

const (
	// NotificationInquiry is raised when a contact form is submitted.
	NotificationInquiry NotificationType = "inquiry"
	// NotificationSignup is raised when a customer creates an account.
	NotificationSignup NotificationType = "signup"
	// NotificationInterest is raised when a customer flags a product.
	NotificationInterest NotificationType = "interest"
	// NotificationChat is raised for a chat message while no admin is connected.
	NotificationChat NotificationType = "chat"
)

// Notification is an admin console notification.
type Notification struct {
	Syncable
	Type  NotificationType `json:"type"`
	Title string           `json:"title"`
	Body  string           `json:"body,omitempty"`
	// RefID points at the entity that raised the notification
	// (inquiry ID, user ID, product ID).
	RefID string `json:"ref_id,omitempty"`
	Read  bool   `json:"read"`
}
