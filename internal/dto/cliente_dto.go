package dto

type CrearClienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
}

type ActualizarClienteRequest struct {
	Nombre   string  `json:"nombre"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
}

type ClienteResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Email    *string `json:"email"`
	Telefono *string `json:"telefono"`
	Activo   bool    `json:"activo"`
}
