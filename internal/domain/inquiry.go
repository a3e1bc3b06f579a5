package domain

// InquiryStatus tracks whether an admin has looked at an inquiry yet.
type InquiryStatus string

const (
	// InquiryStatusNew marks an inquiry no admin has opened.
	InquiryStatusNew InquiryStatus = "new"
	// InquiryStatusRead marks an inquiry an admin has opened.
	InquiryStatusRead InquiryStatus = "read"
)

// Inquiry is a contact-form submission. Submitted anonymously; no account
// is required to send one.
type Inquiry struct {
	Syncable
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone,omitempty"`
	Message string        `json:"message"`
	Status  InquiryStatus `json:"status"`
}
