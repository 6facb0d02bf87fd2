package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`                     // YYYY-MM-DD; empty = todas
	Estado string `form:"estado,default=completada"` // completada | cancelada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Ventas       []VentaResponse `json:"ventas"`
	TotalVentas  int64           `json:"total_ventas"`
	Pagina       int             `json:"pagina"`
	TotalPaginas int64           `json:"total_paginas"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarVentaRequest struct {
	Items     []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
	ClienteID *string            `json:"cliente_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID        string              `json:"id"`
	Items     []ItemVentaResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	Estado    string              `json:"estado"`
	CreatedAt string              `json:"created_at"`
}

// ─── Stats ───────────────────────────────────────────────────────────────────

type VentaStatsResponse struct {
	TotalVentas     int64           `json:"total_ventas"`
	IngresosTotales decimal.Decimal `json:"ingresos_totales"`
	TicketPromedio  decimal.Decimal `json:"ticket_promedio"`
}

type TopProductoResponse struct {
	ProductoID       string          `json:"producto_id"`
	Nombre           string          `json:"nombre"`
	UnidadesVendidas int             `json:"unidades_vendidas"`
	IngresosTotales  decimal.Decimal `json:"ingresos_totales"`
}
