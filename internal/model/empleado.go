package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Empleado existe con independencia de si su sueldo fue pagado o no.
// UltimoPago queda en nil hasta el primer procesamiento de nómina.
// TotalPagado es la suma acumulada de todos los pagos recibidos.
type Empleado struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre            string          `gorm:"not null"`
	Puesto            string          `gorm:"not null;default:'Empleado'"`
	SalarioSemanal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FechaContratacion time.Time       `gorm:"not null"`
	UltimoPago        *time.Time
	ProximoPago       time.Time       `gorm:"not null"`
	TotalPagado       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Empleado) TableName() string { return "empleados" }
