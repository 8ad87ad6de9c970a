package property

type CreatePropertyRequest struct {
	Attributes Attributes `json:"attributes"`
	Status     *string    `json:"status"`
	ClientID   *uint      `json:"client_id"`
	Commission string     `json:"commission" validate:"max=64"`
}

// UpdatePropertyRequest patches attributes; a null value removes the key.
type UpdatePropertyRequest struct {
	Attributes Attributes `json:"attributes"`
}

// StatusRequest with a null status clears the explicit status.
type StatusRequest struct {
	Status *string `json:"status"`
}

type ClientRequest struct {
	ClientID *uint `json:"client_id"`
}

type CommissionRequest struct {
	Commission string `json:"commission" validate:"required,max=64"`
	Target     string `json:"target" validate:"omitempty,oneof=credit cash"`
}

type BulkCommissionRequest struct {
	IDs        []string `json:"ids" validate:"required,min=1,dive,required"`
	Commission string   `json:"commission" validate:"required,max=64"`
	Target     string   `json:"target" validate:"omitempty,oneof=credit cash"`
}
