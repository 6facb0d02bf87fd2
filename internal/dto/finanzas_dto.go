package dto

import "github.com/shopspring/decimal"

// ─── Resumen ─────────────────────────────────────────────────────────────────

// ResumenFinanciero es el snapshot derivado de ventas + gastos. No se persiste:
// se recalcula en cada consulta a partir de los datos vigentes.
type ResumenFinanciero struct {
	TotalVentas     int             `json:"total_ventas"`
	IngresosTotales decimal.Decimal `json:"ingresos_totales"`
	CostoMercaderia decimal.Decimal `json:"costo_mercaderia"`
	GananciaBruta   decimal.Decimal `json:"ganancia_bruta"`

	IngresosDiarios   decimal.Decimal `json:"ingresos_diarios"`
	IngresosSemanales decimal.Decimal `json:"ingresos_semanales"`
	IngresosMensuales decimal.Decimal `json:"ingresos_mensuales"`

	GastosAdministrativos decimal.Decimal `json:"gastos_administrativos"`
	SueldosPagados        decimal.Decimal `json:"sueldos_pagados"`

	GananciaNetaDiaria  decimal.Decimal `json:"ganancia_neta_diaria"`
	GananciaNetaSemanal decimal.Decimal `json:"ganancia_neta_semanal"`
	GananciaNetaMensual decimal.Decimal `json:"ganancia_neta_mensual"`

	EfectivoDisponible decimal.Decimal `json:"efectivo_disponible"`
}

// Alerta es una advertencia financiera derivada del resumen.
// Tipo: "warning" | "error"
type Alerta struct {
	Tipo    string          `json:"tipo"`
	Mensaje string          `json:"mensaje"`
	Detalle decimal.Decimal `json:"detalle"`
}

// ─── Gastos ──────────────────────────────────────────────────────────────────

type CrearGastoRequest struct {
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Categoria   string          `json:"categoria"   validate:"required"`
	// Fecha YYYY-MM-DD; empty = hoy
	Fecha string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

type GastoResponse struct {
	ID          string          `json:"id"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"` // siempre magnitud positiva
	Categoria   string          `json:"categoria"`
	Fecha       string          `json:"fecha"`
	CreatedAt   string          `json:"created_at"`
}

// ─── Nómina ──────────────────────────────────────────────────────────────────

type NominaResponse struct {
	MontoPagado decimal.Decimal `json:"monto_pagado"`
	Empleados   int             `json:"empleados"`
	FechaPago   string          `json:"fecha_pago"`
}
