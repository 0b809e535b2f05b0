package domain

type PropertyStatus int

const (
	PropertyAvailable PropertyStatus = iota + 1
	PropertyReserved
	PropertySold
	PropertyRented
)

func (s PropertyStatus) Valid() bool { return s >= PropertyAvailable && s <= PropertyRented }

func (s PropertyStatus) String() string {
	switch s {
	case PropertyAvailable:
		return "Available"
	case PropertyReserved:
		return "Reserved"
	case PropertySold:
		return "Sold"
	case PropertyRented:
		return "Rented"
	}
	return "Unknown"
}

// InquiryStatus New → Contacted → Resolved → Closed，不强制顺序
type InquiryStatus int

const (
	InquiryNew InquiryStatus = iota + 1
	InquiryContacted
	InquiryResolved
	InquiryClosed
)

func (s InquiryStatus) Valid() bool { return s >= InquiryNew && s <= InquiryClosed }

func (s InquiryStatus) String() string {
	switch s {
	case InquiryNew:
		return "New"
	case InquiryContacted:
		return "Contacted"
	case InquiryResolved:
		return "Resolved"
	case InquiryClosed:
		return "Closed"
	}
	return "Unknown"
}

const (
	RoleAdmin = "Admin"
	RoleAgent = "Agent"
	RoleUser  = "User"
)

func ValidRole(r string) bool { return r == RoleAdmin || r == RoleAgent || r == RoleUser }
