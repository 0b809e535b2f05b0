package domain

type Inquiry struct {
	Base
	Name       string        `gorm:"size:100;not null"        json:"name"`
	Email      string        `gorm:"size:255;not null;index"  json:"email"`
	Phone      *string       `gorm:"size:20"                  json:"phone,omitempty"`
	Message    string        `gorm:"size:1000;not null"       json:"message"`
	Status     InquiryStatus `gorm:"not null;default:1;index" json:"status"`
	PropertyID uint          `gorm:"not null;index"           json:"propertyId"`
	UserID     *uint         `gorm:"index"                    json:"userId,omitempty"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	User     *User     `gorm:"foreignKey:UserID"     json:"user,omitempty"`
}

func (Inquiry) TableName() string { return "inquiries" }
