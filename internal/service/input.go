package service

import (
	"time"

	"realestate-api/internal/domain"
)

// 入参的 binding 规则由 gin 的 validator 执行，服务层只做业务校验

type CreatePropertyTypeInput struct {
	Name        string  `json:"name"        binding:"required,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type UpdatePropertyTypeInput struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type CreatePropertyInput struct {
	Title          string                `json:"title"          binding:"required,min=3,max=200"`
	Description    string                `json:"description"    binding:"required,min=10,max=5000"`
	Price          float64               `json:"price"          binding:"required,gt=0,lte=999999999"`
	Address        string                `json:"address"        binding:"required,min=5,max=500"`
	City           string                `json:"city"           binding:"required,min=2,max=100"`
	District       *string               `json:"district"       binding:"omitempty,max=100"`
	Rooms          int                   `json:"rooms"          binding:"required,min=1,max=20"`
	Bathrooms      *int                  `json:"bathrooms"      binding:"omitempty,min=1,max=10"`
	Area           float64               `json:"area"           binding:"required,gt=0,lte=100000"`
	Floor          int                   `json:"floor"          binding:"min=-10,max=100"`
	TotalFloors    *int                  `json:"totalFloors"    binding:"omitempty,min=1,max=200"`
	YearBuilt      int                   `json:"yearBuilt"      binding:"required,min=1900,max=2100"`
	Status         domain.PropertyStatus `json:"status"         binding:"omitempty,min=1,max=4"`
	PropertyTypeID uint                  `json:"propertyTypeId" binding:"required"`
}

// AdminUpdatePropertyInput 只覆盖非空字段
type AdminUpdatePropertyInput struct {
	Title          *string                `json:"title"          binding:"omitempty,min=3,max=200"`
	Description    *string                `json:"description"    binding:"omitempty,min=10,max=5000"`
	Price          *float64               `json:"price"          binding:"omitempty,gt=0,lte=999999999"`
	Address        *string                `json:"address"        binding:"omitempty,min=5,max=500"`
	City           *string                `json:"city"           binding:"omitempty,min=2,max=100"`
	District       *string                `json:"district"       binding:"omitempty,max=100"`
	Rooms          *int                   `json:"rooms"          binding:"omitempty,min=1,max=20"`
	Bathrooms      *int                   `json:"bathrooms"      binding:"omitempty,min=1,max=10"`
	Area           *float64               `json:"area"           binding:"omitempty,gt=0,lte=100000"`
	Floor          *int                   `json:"floor"          binding:"omitempty,min=-10,max=100"`
	TotalFloors    *int                   `json:"totalFloors"    binding:"omitempty,min=1,max=200"`
	YearBuilt      *int                   `json:"yearBuilt"      binding:"omitempty,min=1900,max=2100"`
	Status         *domain.PropertyStatus `json:"status"         binding:"omitempty,min=1,max=4"`
	PropertyTypeID *uint                  `json:"propertyTypeId" binding:"omitempty,min=1"`
	AgentID        *uint                  `json:"agentId"        binding:"omitempty,min=1"`
}

// AgentUpdatePropertyInput 经纪人只能改标题、描述、价格、状态
type AgentUpdatePropertyInput struct {
	Title       *string                `json:"title"       binding:"omitempty,min=3,max=200"`
	Description *string                `json:"description" binding:"omitempty,min=10,max=5000"`
	Price       *float64               `json:"price"       binding:"omitempty,gt=0,lte=999999999"`
	Status      *domain.PropertyStatus `json:"status"      binding:"omitempty,min=1,max=4"`
}

type PropertyFilter struct {
	PageQuery
	MinPrice       *float64               `form:"minPrice"`
	MaxPrice       *float64               `form:"maxPrice"`
	City           string                 `form:"city"`
	District       string                 `form:"district"`
	MinRooms       *int                   `form:"minRooms"`
	MaxRooms       *int                   `form:"maxRooms"`
	MinArea        *float64               `form:"minArea"`
	MaxArea        *float64               `form:"maxArea"`
	PropertyTypeID *uint                  `form:"propertyTypeId"`
	Status         *domain.PropertyStatus `form:"status"`
	AgentID        *uint                  `form:"agentId"`
	MinYear        *int                   `form:"minYear"`
	MaxYear        *int                   `form:"maxYear"`
	SearchTerm     string                 `form:"searchTerm"`
	SortBy         string                 `form:"sortBy"    binding:"omitempty,oneof=price area rooms createdAt"`
	SortOrder      string                 `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	IsDeleted      *bool                  `form:"isDeleted"`
	IncludeType    bool                   `form:"includeType"`
}

type CreateImageInput struct {
	ImageURL     string `json:"imageUrl"     binding:"required,url,max=1000"`
	DisplayOrder int    `json:"displayOrder" binding:"min=0"`
	IsPrimary    bool   `json:"isPrimary"`
	PropertyID   uint   `json:"propertyId"   binding:"required"`
}

type UpdateImageInput struct {
	ImageURL     *string `json:"imageUrl"     binding:"omitempty,url,max=1000"`
	DisplayOrder *int    `json:"displayOrder" binding:"omitempty,min=0"`
	IsPrimary    *bool   `json:"isPrimary"`
}

type CreateInquiryInput struct {
	Name       string  `json:"name"       binding:"required,min=2,max=100"`
	Email      string  `json:"email"      binding:"required,email,max=255"`
	Phone      *string `json:"phone"      binding:"omitempty,max=20"`
	Message    string  `json:"message"    binding:"required,min=10,max=1000"`
	PropertyID uint    `json:"propertyId" binding:"required"`
}

type InquiryFilter struct {
	PageQuery
	PropertyID *uint                 `form:"propertyId"`
	Email      string                `form:"email"`
	Status     *domain.InquiryStatus `form:"status"`
	StartDate  *time.Time            `form:"startDate" time_format:"2006-01-02"`
	EndDate    *time.Time            `form:"endDate"   time_format:"2006-01-02"`
	IsDeleted  *bool                 `form:"isDeleted"`
}

type UserFilter struct {
	PageQuery
	Role       string `form:"role"       binding:"omitempty,oneof=Admin Agent User"`
	IsAgent    *bool  `form:"isAgent"`
	SearchTerm string `form:"searchTerm"`
	SortBy     string `form:"sortBy"     binding:"omitempty,oneof=createdAt email lastName"`
	SortOrder  string `form:"sortOrder"  binding:"omitempty,oneof=asc desc"`
	IsDeleted  *bool  `form:"isDeleted"`
}

type UpdateProfileInput struct {
	FirstName      *string `json:"firstName"      binding:"omitempty,min=2,max=100"`
	LastName       *string `json:"lastName"       binding:"omitempty,min=2,max=100"`
	Phone          *string `json:"phone"          binding:"omitempty,max=20"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,url,max=1000"`
}

type UpdateAgentInfoInput struct {
	AgencyName    *string `json:"agencyName"    binding:"omitempty,max=200"`
	LicenseNumber *string `json:"licenseNumber" binding:"omitempty,max=100"`
}

type RegisterInput struct {
	FirstName string  `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string  `json:"lastName"  binding:"required,min=2,max=100"`
	Email     string  `json:"email"     binding:"required,email,max=255"`
	Password  string  `json:"password"  binding:"required,min=8,max=72"`
	Phone     *string `json:"phone"     binding:"omitempty,max=20"`
	Role      string  `json:"role"      binding:"omitempty,oneof=User Agent"`
}

type LoginInput struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"     binding:"required,min=8,max=72"`
}
