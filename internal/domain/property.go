package domain

type Property struct {
	Base
	Title          string         `gorm:"size:200;not null"                json:"title"`
	Description    string         `gorm:"size:5000;not null"               json:"description"`
	Price          float64        `gorm:"type:decimal(18,2);not null"      json:"price"`
	Address        string         `gorm:"size:500;not null"                json:"address"`
	City           string         `gorm:"size:100;not null;index"          json:"city"`
	District       *string        `gorm:"size:100"                         json:"district,omitempty"`
	Rooms          int            `gorm:"not null"                         json:"rooms"`
	Bathrooms      *int           `                                        json:"bathrooms,omitempty"`
	Area           float64        `gorm:"type:decimal(10,2);not null"      json:"area"`
	Floor          int            `gorm:"not null"                         json:"floor"`
	TotalFloors    *int           `                                        json:"totalFloors,omitempty"`
	YearBuilt      int            `gorm:"not null"                         json:"yearBuilt"`
	Status         PropertyStatus `gorm:"not null;default:1;index"         json:"status"`
	PropertyTypeID uint           `gorm:"not null;index"                   json:"propertyTypeId"`
	AgentID        uint           `gorm:"not null;index"                   json:"agentId"`

	PropertyType *PropertyType  `gorm:"foreignKey:PropertyTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"propertyType,omitempty"`
	Agent        *User          `gorm:"foreignKey:AgentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"        json:"agent,omitempty"`
	Images       []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"                      json:"images,omitempty"`
	Inquiries    []Inquiry       `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"                      json:"inquiries,omitempty"`
}

func (Property) TableName() string { return "properties" }

// 关联名（Preload 使用）
const (
	RelPropertyType = "PropertyType"
	RelAgent        = "Agent"
	RelImages       = "Images"
	RelInquiries    = "Inquiries"
	RelProperty     = "Property"
	RelUser         = "User"
)

type PropertyType struct {
	Base
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description *string `gorm:"size:500"          json:"description,omitempty"`
}

func (PropertyType) TableName() string { return "property_types" }

type PropertyImage struct {
	Base
	ImageURL     string `gorm:"column:image_url;size:1000;not null" json:"imageUrl"`
	DisplayOrder int    `gorm:"not null;default:0"                  json:"displayOrder"`
	IsPrimary    bool   `gorm:"not null;default:false"              json:"isPrimary"`
	PropertyID   uint   `gorm:"not null;index"                      json:"propertyId"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

func (PropertyImage) TableName() string { return "property_images" }
