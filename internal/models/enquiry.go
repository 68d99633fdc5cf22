package models

// Enquiry lifecycle states. A plain field-update lifecycle with no
// cross-entity invariant.
const (
	EnquiryActive   = "ACTIVE"
	EnquiryComplete = "COMPLETE"
	EnquiryDenied   = "DENIED"
)

// ValidEnquiryStatus reports whether s is a known enquiry status.
func ValidEnquiryStatus(s string) bool {
	switch s {
	case EnquiryActive, EnquiryComplete, EnquiryDenied:
		return true
	}
	return false
}

// EnquiryModel is a contact-form submission.
type EnquiryModel struct {
	Base
	Name    string `json:"name"    gorm:"not null"`
	Email   string `json:"email"   gorm:"not null"`
	Subject string `json:"subject"`
	Message string `json:"message" gorm:"type:text"`
	Status  string `json:"status"  gorm:"index;default:'ACTIVE'"`
}

func (EnquiryModel) TableName() string { return "enquiries" }
