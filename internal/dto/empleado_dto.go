package dto

import "github.com/shopspring/decimal"

type CrearEmpleadoRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,min=2"`
	Puesto         string          `json:"puesto"`
	SalarioSemanal decimal.Decimal `json:"salario_semanal" validate:"required,gt=0"`
}

type ActualizarEmpleadoRequest struct {
	Nombre         string           `json:"nombre"`
	Puesto         string           `json:"puesto"`
	SalarioSemanal *decimal.Decimal `json:"salario_semanal" validate:"omitempty,gt=0"`
}

type EmpleadoResponse struct {
	ID                string          `json:"id"`
	Nombre            string          `json:"nombre"`
	Puesto            string          `json:"puesto"`
	SalarioSemanal    decimal.Decimal `json:"salario_semanal"`
	FechaContratacion string          `json:"fecha_contratacion"`
	UltimoPago        *string         `json:"ultimo_pago"`
	ProximoPago       string          `json:"proximo_pago"`
	TotalPagado       decimal.Decimal `json:"total_pagado"`
}
