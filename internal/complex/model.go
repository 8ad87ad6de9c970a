package complex

import (
	"time"
)

const (
	PolicyFixed      = "fixed"
	PolicyPercentage = "percentage"

	TargetCredit = "credit"
	TargetCash   = "cash"
)

// CommissionPolicy decides the "auto" commission of a property. An empty
// Type means the complex has no policy yet.
type CommissionPolicy struct {
	Type   string  `gorm:"size:16" json:"type"`
	Value  float64 `gorm:"not null;default:0" json:"value"`
	Target string  `gorm:"size:16;default:credit" json:"target"`
}

// EffectiveTarget is the price the percentage applies to when the caller
// does not choose one.
func (p CommissionPolicy) EffectiveTarget() string {
	if p.Target == TargetCash {
		return TargetCash
	}
	return TargetCredit
}

// Column is one entry of the ordered column schema shown in tables and used
// by spreadsheet export.
type Column struct {
	Key   string `json:"key" validate:"required,max=200"`
	Label string `json:"label" validate:"max=200"`
}

type Complex struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Name             string           `gorm:"size:150;not null" json:"name"`
	Address          string           `gorm:"size:255" json:"address"`
	CommissionPolicy CommissionPolicy `gorm:"embedded;embeddedPrefix:commission_" json:"commission_policy"`
	Columns          []Column         `gorm:"type:jsonb;serializer:json" json:"columns"`

	// Derived from the properties table, see Counters.
	TotalProperties     int     `gorm:"not null;default:0" json:"total_properties"`
	AvailableProperties int     `gorm:"not null;default:0" json:"available_properties"`
	ReservedProperties  int     `gorm:"not null;default:0" json:"reserved_properties"`
	SoldProperties      int     `gorm:"not null;default:0" json:"sold_properties"`
	SoldCommissionTotal float64 `gorm:"not null;default:0" json:"sold_commission_total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Counters is a snapshot of the derived aggregates of a complex.
type Counters struct {
	Total          int
	Available      int
	Reserved       int
	Sold           int
	SoldCommission float64
}

// ColumnKeys returns the column keys in schema order.
func (c *Complex) ColumnKeys() []string {
	keys := make([]string, 0, len(c.Columns))
	for _, col := range c.Columns {
		keys = append(keys, col.Key)
	}
	return keys
}

// ColumnsFromHeaders builds a schema whose keys and labels are the headers.
func ColumnsFromHeaders(headers []string) []Column {
	cols := make([]Column, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, Column{Key: h, Label: h})
	}
	return cols
}
