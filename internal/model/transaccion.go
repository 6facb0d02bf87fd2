package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoriaSueldos marca las transacciones generadas por un pago de nómina.
// Los sueldos solo cuentan como gasto cuando existe una transacción con esta
// categoría — dar de alta un empleado no genera gasto alguno.
const CategoriaSueldos = "Sueldos"

// TransaccionFinanciera es una entrada del libro de gastos e ingresos.
// Tipo: "gasto" | "ingreso". Los gastos se almacenan con monto negativo;
// el agregador financiero consume su magnitud absoluta.
type TransaccionFinanciera struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo        string          `gorm:"type:varchar(20);not null;index"`
	Categoria   string          `gorm:"not null;default:'Gastos de la empresa';index"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"not null"`
	Fecha       time.Time       `gorm:"not null"`
	CreatedAt   time.Time
}

func (TransaccionFinanciera) TableName() string { return "transacciones_financieras" }

// MontoAbsoluto devuelve la magnitud del gasto.
func (t *TransaccionFinanciera) MontoAbsoluto() decimal.Decimal {
	return t.Monto.Abs()
}
