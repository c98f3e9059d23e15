package model

type TableState string

const (
	TableAvailable TableState = "available"
	TableOccupied  TableState = "occupied"
	TableReserved  TableState = "reserved"
)

type Table struct {
	BaseModel
	Number   int        `gorm:"uniqueIndex;not null" json:"number"`
	Capacity int        `gorm:"not null;default:4" json:"capacity"`
	Location string     `gorm:"type:varchar(100)" json:"location"`
	State    TableState `gorm:"type:varchar(20);not null;default:'available'" json:"state"`
}

// TableName specifies the table name for GORM
func (Table) TableName() string {
	return "dining_tables"
}

type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

type Supplier struct {
	BaseModel
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Phone string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email string `gorm:"type:varchar(255)" json:"email,omitempty"`
}
