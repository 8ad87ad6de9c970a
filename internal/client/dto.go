package client

type ClientRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	Phone        string `json:"phone" validate:"max=50"`
	Email        string `json:"email" validate:"omitempty,email,max=150"`
	Organization string `json:"organization" validate:"max=150"`
}

type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}
