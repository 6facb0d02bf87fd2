package dto

import "github.com/shopspring/decimal"

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Barcode   string `form:"barcode"`
	Activo    string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CrearProductoRequest struct {
	CodigoBarras string          `json:"codigo_barras" validate:"required"`
	Nombre       string          `json:"nombre"        validate:"required,min=2"`
	Descripcion  *string         `json:"descripcion"`
	Categoria    string          `json:"categoria"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"  validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required,gt=0"`
	StockActual  int             `json:"stock_actual"  validate:"min=0"`
	StockMinimo  int             `json:"stock_minimo"  validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Categoria   string           `json:"categoria"`
	PrecioCosto *decimal.Decimal `json:"precio_costo" validate:"omitempty,min=0"`
	PrecioVenta *decimal.Decimal `json:"precio_venta" validate:"omitempty,gt=0"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
}

type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	CodigoBarras string          `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	Categoria    string          `json:"categoria"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	StockActual  int             `json:"stock_actual"`
	StockMinimo  int             `json:"stock_minimo"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// InventarioStatsResponse resume el estado del inventario para el dashboard.
type InventarioStatsResponse struct {
	TotalProductos  int64           `json:"total_productos"`
	BajoStock       int64           `json:"bajo_stock"`
	ValorInventario decimal.Decimal `json:"valor_inventario"` // Σ stock_actual * precio_costo
}
