package service

import (
	"time"

	"realestate-api/internal/domain"
)

type PropertyTypeDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsDeleted   bool      `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toPropertyTypeDTO(t *domain.PropertyType) PropertyTypeDTO {
	return PropertyTypeDTO{
		ID: t.ID, Name: t.Name, Description: t.Description,
		IsDeleted: t.IsDeleted, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

type PropertyImageDTO struct {
	ID           uint      `json:"id"`
	ImageURL     string    `json:"imageUrl"`
	DisplayOrder int       `json:"displayOrder"`
	IsPrimary    bool      `json:"isPrimary"`
	PropertyID   uint      `json:"propertyId"`
	IsDeleted    bool      `json:"isDeleted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toImageDTO(i *domain.PropertyImage) PropertyImageDTO {
	return PropertyImageDTO{
		ID: i.ID, ImageURL: i.ImageURL, DisplayOrder: i.DisplayOrder, IsPrimary: i.IsPrimary,
		PropertyID: i.PropertyID, IsDeleted: i.IsDeleted, CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt,
	}
}

type PropertyDTO struct {
	ID               uint                  `json:"id"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Price            float64               `json:"price"`
	Address          string                `json:"address"`
	City             string                `json:"city"`
	District         *string               `json:"district,omitempty"`
	Rooms            int                   `json:"rooms"`
	Bathrooms        *int                  `json:"bathrooms,omitempty"`
	Area             float64               `json:"area"`
	Floor            int                   `json:"floor"`
	TotalFloors      *int                  `json:"totalFloors,omitempty"`
	YearBuilt        int                   `json:"yearBuilt"`
	Status           domain.PropertyStatus `json:"status"`
	StatusName       string                `json:"statusName"`
	PropertyTypeID   uint                  `json:"propertyTypeId"`
	PropertyTypeName string                `json:"propertyTypeName,omitempty"`
	AgentID          uint                  `json:"agentId"`
	AgentName        string                `json:"agentName,omitempty"`
	CoverImage       string                `json:"coverImage,omitempty"`
	Images           []PropertyImageDTO    `json:"images,omitempty"`
	IsDeleted        bool                  `json:"isDeleted"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

func toPropertyDTO(p *domain.Property) PropertyDTO {
	out := PropertyDTO{
		ID: p.ID, Title: p.Title, Description: p.Description, Price: p.Price,
		Address: p.Address, City: p.City, District: p.District, Rooms: p.Rooms,
		Bathrooms: p.Bathrooms, Area: p.Area, Floor: p.Floor, TotalFloors: p.TotalFloors,
		YearBuilt: p.YearBuilt, Status: p.Status, StatusName: p.Status.String(),
		PropertyTypeID: p.PropertyTypeID, AgentID: p.AgentID,
		IsDeleted: p.IsDeleted, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
	if p.PropertyType != nil {
		out.PropertyTypeName = p.PropertyType.Name
	}
	if p.Agent != nil {
		out.AgentName = p.Agent.FullName()
	}
	for i := range p.Images {
		img := &p.Images[i]
		if img.IsPrimary && out.CoverImage == "" {
			out.CoverImage = img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		out.Images = mapSlice(p.Images, toImageDTO)
		if out.CoverImage == "" {
			out.CoverImage = p.Images[0].ImageURL
		}
	}
	return out
}

type InquiryDTO struct {
	ID            uint                 `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         *string              `json:"phone,omitempty"`
	Message       string               `json:"message"`
	Status        domain.InquiryStatus `json:"status"`
	StatusName    string               `json:"statusName"`
	PropertyID    uint                 `json:"propertyId"`
	PropertyTitle string               `json:"propertyTitle,omitempty"`
	UserID        *uint                `json:"userId,omitempty"`
	IsDeleted     bool                 `json:"isDeleted"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func toInquiryDTO(i *domain.Inquiry) InquiryDTO {
	out := InquiryDTO{
		ID: i.ID, Name: i.Name, Email: i.Email, Phone: i.Phone, Message: i.Message,
		Status: i.Status, StatusName: i.Status.String(), PropertyID: i.PropertyID, UserID: i.UserID,
		IsDeleted: i.IsDeleted, CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt,
	}
	if i.Property != nil {
		out.PropertyTitle = i.Property.Title
	}
	return out
}

type UserDTO struct {
	ID             uint      `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	Role           string    `json:"role"`
	IsAgent        bool      `json:"isAgent"`
	AgencyName     *string   `json:"agencyName,omitempty"`
	LicenseNumber  *string   `json:"licenseNumber,omitempty"`
	IsDeleted      bool      `json:"isDeleted"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone,
		ProfilePicture: u.ProfilePicture, Role: u.Role, IsAgent: u.IsAgent, AgencyName: u.AgencyName,
		LicenseNumber: u.LicenseNumber, IsDeleted: u.IsDeleted, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

type UserDetailDTO struct {
	UserDTO
	PropertyCount int64 `json:"propertyCount"`
	InquiryCount  int64 `json:"inquiryCount"`
}

type AuthResult struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	User             UserDTO   `json:"user"`
}
