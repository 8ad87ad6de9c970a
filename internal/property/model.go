package property

import (
	"time"
)

// Property is one sellable unit. Everything that came from a spreadsheet
// lives in Attributes under its original header.
type Property struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ComplexID  uint       `gorm:"not null;index" json:"complex_id"`
	ClientID   *uint      `gorm:"index" json:"client_id"`
	Status     *string    `gorm:"size:16" json:"status"`
	Commission string     `gorm:"size:64;not null;default:''" json:"commission"`
	PlanURL    *string    `gorm:"size:512" json:"plan_url"`
	Attributes Attributes `gorm:"type:json;not null" json:"attributes"`

	// ClientName is resolved from the client directory on read.
	ClientName string `gorm:"-" json:"client_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View is the listing representation: the stored record plus the values
// derived from it.
type View struct {
	Property
	EffectiveStatus string  `json:"effective_status"`
	CommissionValue float64 `json:"commission_value"`
}
