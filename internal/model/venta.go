package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta es un registro inmutable de checkout.
// Estado: "completada" | "cancelada"
// Una venta nunca se modifica después de creada — la cancelación cambia solo
// el estado y genera movimientos de stock inversos.
type Venta struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID *uuid.UUID      `gorm:"type:uuid;index"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado    string          `gorm:"type:varchar(20);not null;default:'completada'"`
	CreatedAt time.Time       `gorm:"index"`

	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
}

// VentaItem es una línea de venta con el precio unitario congelado al momento
// de la operación (cambios de precio posteriores no afectan ventas históricas).
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }
