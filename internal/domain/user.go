package domain

import "time"

type User struct {
	Base
	FirstName      string  `gorm:"size:100;not null"             json:"firstName"`
	LastName       string  `gorm:"size:100;not null"             json:"lastName"`
	Email          string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash   string  `gorm:"size:255;not null"             json:"-"`
	Role           string  `gorm:"size:16;not null;default:'User'" json:"role"`
	Phone          *string `gorm:"size:20"                       json:"phone,omitempty"`
	ProfilePicture *string `gorm:"size:1000"                     json:"profilePicture,omitempty"`
	IsAgent        bool    `gorm:"not null;default:false"        json:"isAgent"`
	AgencyName     *string `gorm:"size:200"                      json:"agencyName,omitempty"`
	LicenseNumber  *string `gorm:"size:100"                      json:"licenseNumber,omitempty"`

	Properties    []Property     `gorm:"foreignKey:AgentID"                               json:"-"`
	Inquiries     []Inquiry      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"  json:"-"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"   json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string { return u.FirstName + " " + u.LastName }

type RefreshToken struct {
	Base
	Token           string    `gorm:"size:500;not null;uniqueIndex" json:"token"`
	ExpiryDate      time.Time `gorm:"not null"                      json:"expiryDate"`
	IsRevoked       bool      `gorm:"not null;default:false"        json:"isRevoked"`
	ReasonRevoked   *string   `gorm:"size:200"                      json:"reasonRevoked,omitempty"`
	ReplacedByToken *string   `gorm:"size:500"                      json:"replacedByToken,omitempty"`
	UserID          uint      `gorm:"not null;index"                json:"userId"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

func (t *RefreshToken) IsExpired(now time.Time) bool { return !now.Before(t.ExpiryDate) }

func (t *RefreshToken) IsActive(now time.Time) bool { return !t.IsRevoked && !t.IsExpired(now) }

// Revoke 标记吊销；replacedBy 为空表示没有替代 token
func (t *RefreshToken) Revoke(reason, replacedBy string) {
	t.IsRevoked = true
	if reason != "" {
		t.ReasonRevoked = &reason
	}
	if replacedBy != "" {
		t.ReplacedByToken = &replacedBy
	}
}

// Models AutoMigrate 顺序
func Models() []any {
	return []any{&User{}, &PropertyType{}, &Property{}, &PropertyImage{}, &Inquiry{}, &RefreshToken{}}
}
