package complex

type PolicyRequest struct {
	Type   string  `json:"type" validate:"required,oneof=fixed percentage"`
	Value  float64 `json:"value" validate:"gte=0"`
	Target string  `json:"target" validate:"omitempty,oneof=credit cash"`
}

type CreateComplexRequest struct {
	Name             string         `json:"name" validate:"required,max=150"`
	Address          string         `json:"address" validate:"max=255"`
	CommissionPolicy *PolicyRequest `json:"commission_policy"`
	Columns          []Column       `json:"columns" validate:"dive"`
}

// UpdateComplexRequest uses pointers so omitted fields are left unchanged.
type UpdateComplexRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=150"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

type ColumnsRequest struct {
	Columns []Column `json:"columns" validate:"dive"`
}
