package dto

// CreateTicketDTO: Что киоск присылает для выдачи талона.
type CreateTicketDTO struct {
	Name     string `json:"name" validate:"required"`
	Service  string `json:"service" validate:"required"`
	Priority bool   `json:"priority"`
}

// UpdateTicketStatusDTO: Что стойка присылает для смены статуса.
// Desk опционален - если пусто, берётся гишет из конфига оператора.
type UpdateTicketStatusDTO struct {
	Status string `json:"status" validate:"required"`
	Desk   string `json:"desk,omitempty"`
}
