package service

import (
	"testing"
	"time"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Miércoles 16 de septiembre de 2026, mediodía.
// inicioDia = 16/09 00:00, inicioSemana = domingo 13/09 00:00, inicioMes = 01/09 00:00.
var ahora = time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC)

var (
	prodA = uuid.New() // costo 10
	prodB = uuid.New() // costo 4
	prodC = uuid.New() // sin costo registrado
)

func tablaCostos() map[uuid.UUID]decimal.Decimal {
	return map[uuid.UUID]decimal.Decimal{
		prodA: decimal.NewFromInt(10),
		prodB: decimal.NewFromInt(4),
	}
}

func venta(created time.Time, total int64, items ...model.VentaItem) model.Venta {
	return model.Venta{
		ID:        uuid.New(),
		Total:     decimal.NewFromInt(total),
		Estado:    "completada",
		CreatedAt: created,
		Items:     items,
	}
}

func item(productoID uuid.UUID, cantidad int) model.VentaItem {
	return model.VentaItem{ProductoID: productoID, Cantidad: cantidad}
}

func gasto(categoria string, magnitud int64) model.TransaccionFinanciera {
	return model.TransaccionFinanciera{
		ID:        uuid.New(),
		Tipo:      "gasto",
		Categoria: categoria,
		Monto:     decimal.NewFromInt(magnitud).Neg(),
		Fecha:     ahora,
	}
}

func ventasDeEjemplo() []model.Venta {
	return []model.Venta{
		// hoy: 2×A → total 50, costo 20
		venta(time.Date(2026, 9, 16, 8, 0, 0, 0, time.UTC), 50, item(prodA, 2)),
		// hoy, producto sin costo: total 25, costo 0
		venta(time.Date(2026, 9, 16, 9, 30, 0, 0, time.UTC), 25, item(prodC, 1)),
		// esta semana (lunes 14): 3×B → total 30, costo 12
		venta(time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC), 30, item(prodB, 3)),
		// este mes (sábado 5, semana anterior): 5×A → total 100, costo 50
		venta(time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC), 100, item(prodA, 5)),
		// agosto: 2×B → total 40, costo 8
		venta(time.Date(2026, 8, 10, 15, 0, 0, 0, time.UTC), 40, item(prodB, 2)),
	}
}

func TestCalcularMetricasVacio(t *testing.T) {
	r := CalcularMetricas(nil, nil, nil, ahora)

	assert.Equal(t, 0, r.TotalVentas)
	assert.True(t, r.IngresosTotales.IsZero())
	assert.True(t, r.CostoMercaderia.IsZero())
	assert.True(t, r.GananciaBruta.IsZero())
	assert.True(t, r.GananciaNetaDiaria.IsZero())
	assert.True(t, r.GananciaNetaSemanal.IsZero())
	assert.True(t, r.GananciaNetaMensual.IsZero())
	assert.True(t, r.EfectivoDisponible.IsZero())
}

func TestCalcularMetricasCompleto(t *testing.T) {
	gastos := []model.TransaccionFinanciera{
		gasto("Gastos de la empresa", 90),
		gasto(model.CategoriaSueldos, 30),
	}

	r := CalcularMetricas(ventasDeEjemplo(), gastos, tablaCostos(), ahora)

	assert.Equal(t, 5, r.TotalVentas)
	assert.True(t, r.IngresosTotales.Equal(decimal.NewFromInt(245)), "ingresos: %s", r.IngresosTotales)
	assert.True(t, r.CostoMercaderia.Equal(decimal.NewFromInt(90)), "costo: %s", r.CostoMercaderia)
	assert.True(t, r.GananciaBruta.Equal(decimal.NewFromInt(155)))

	assert.True(t, r.IngresosDiarios.Equal(decimal.NewFromInt(75)))
	assert.True(t, r.IngresosSemanales.Equal(decimal.NewFromInt(105)))
	assert.True(t, r.IngresosMensuales.Equal(decimal.NewFromInt(205)))

	assert.True(t, r.GastosAdministrativos.Equal(decimal.NewFromInt(120)))
	assert.True(t, r.SueldosPagados.Equal(decimal.NewFromInt(30)))

	// diaria: 75 - 20 - 120/30 = 51
	assert.True(t, r.GananciaNetaDiaria.Equal(decimal.NewFromInt(51)), "neta diaria: %s", r.GananciaNetaDiaria)
	// semanal: 105 - 32 - 30/4 = 65.5
	assert.True(t, r.GananciaNetaSemanal.Equal(decimal.NewFromFloat(65.5)), "neta semanal: %s", r.GananciaNetaSemanal)
	// mensual: 205 - 82 - 120 = 3
	assert.True(t, r.GananciaNetaMensual.Equal(decimal.NewFromInt(3)), "neta mensual: %s", r.GananciaNetaMensual)

	// efectivo: 155 - 120 = 35
	assert.True(t, r.EfectivoDisponible.Equal(decimal.NewFromInt(35)))
}

func TestCalcularMetricasEsDeterminista(t *testing.T) {
	gastos := []model.TransaccionFinanciera{gasto("Luz", 50)}
	a := CalcularMetricas(ventasDeEjemplo(), gastos, tablaCostos(), ahora)
	b := CalcularMetricas(ventasDeEjemplo(), gastos, tablaCostos(), ahora)
	assert.Equal(t, a, b)
}

func TestGananciaBrutaPuedeSerNegativa(t *testing.T) {
	// vendida por debajo del costo: total 5, costo 10
	ventas := []model.Venta{venta(ahora, 5, item(prodA, 1))}
	r := CalcularMetricas(ventas, nil, tablaCostos(), ahora)

	assert.True(t, r.GananciaBruta.Equal(decimal.NewFromInt(-5)))
	// el efectivo disponible sí se trunca en cero
	assert.True(t, r.EfectivoDisponible.IsZero())
}

func TestEfectivoDisponibleNuncaNegativo(t *testing.T) {
	ventas := []model.Venta{venta(ahora, 100, item(prodA, 2))}
	gastos := []model.TransaccionFinanciera{gasto("Alquiler", 500)}
	r := CalcularMetricas(ventas, gastos, tablaCostos(), ahora)

	assert.True(t, r.EfectivoDisponible.IsZero())
}

func TestSueldosSonSubconjuntoDeGastos(t *testing.T) {
	gastos := []model.TransaccionFinanciera{
		gasto("Luz", 40),
		gasto(model.CategoriaSueldos, 60),
		gasto(model.CategoriaSueldos, 15),
	}
	r := CalcularMetricas(nil, gastos, nil, ahora)

	assert.True(t, r.GastosAdministrativos.Equal(decimal.NewFromInt(115)))
	assert.True(t, r.SueldosPagados.Equal(decimal.NewFromInt(75)))
	assert.True(t, r.SueldosPagados.LessThanOrEqual(r.GastosAdministrativos))
}

func TestLimitesDeVentanaInclusivos(t *testing.T) {
	medianoche := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	domingo := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	primeroDeMes := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	ventas := []model.Venta{
		venta(medianoche, 10, item(prodA, 1)),
		venta(domingo, 20, item(prodA, 1)),
		venta(primeroDeMes, 30, item(prodA, 1)),
		// un segundo antes de cada corte
		venta(medianoche.Add(-time.Second), 1, item(prodA, 1)),
		venta(primeroDeMes.Add(-time.Second), 2, item(prodA, 1)),
	}
	r := CalcularMetricas(ventas, nil, tablaCostos(), ahora)

	assert.True(t, r.IngresosDiarios.Equal(decimal.NewFromInt(10)), "diario: %s", r.IngresosDiarios)
	// el domingo 00:00 cuenta; el 15/09 23:59:59 sigue dentro de la semana
	assert.True(t, r.IngresosSemanales.Equal(decimal.NewFromInt(31)), "semanal: %s", r.IngresosSemanales)
	// todo septiembre, el 31/08 23:59:59 queda fuera
	assert.True(t, r.IngresosMensuales.Equal(decimal.NewFromInt(61)), "mensual: %s", r.IngresosMensuales)
	assert.True(t, r.IngresosTotales.Equal(decimal.NewFromInt(63)))
}

func TestProductoSinCostoComputaCero(t *testing.T) {
	ventas := []model.Venta{venta(ahora, 99, item(prodC, 10))}
	r := CalcularMetricas(ventas, nil, tablaCostos(), ahora)

	assert.True(t, r.CostoMercaderia.IsZero())
	assert.True(t, r.GananciaBruta.Equal(decimal.NewFromInt(99)))
}

// ── Alertas ──────────────────────────────────────────────────────────────────

func TestVerificarAlertasEfectivoBajo(t *testing.T) {
	r := dto.ResumenFinanciero{
		EfectivoDisponible:  decimal.NewFromInt(500),
		GananciaNetaMensual: decimal.NewFromInt(10),
	}
	alertas := VerificarAlertas(r)

	require.Len(t, alertas, 1)
	assert.Equal(t, "warning", alertas[0].Tipo)
	assert.Equal(t, "Efectivo disponible bajo", alertas[0].Mensaje)
	assert.True(t, alertas[0].Detalle.Equal(decimal.NewFromInt(500)))
}

func TestVerificarAlertasOrdenYMagnitud(t *testing.T) {
	r := dto.ResumenFinanciero{
		EfectivoDisponible:  decimal.Zero,
		GananciaNetaMensual: decimal.NewFromInt(-250),
	}
	alertas := VerificarAlertas(r)

	require.Len(t, alertas, 2)
	assert.Equal(t, "warning", alertas[0].Tipo)
	assert.Equal(t, "error", alertas[1].Tipo)
	assert.Equal(t, "Ganancias negativas este mes", alertas[1].Mensaje)
	// la alerta publica la magnitud, no el signo
	assert.True(t, alertas[1].Detalle.Equal(decimal.NewFromInt(250)))
}

func TestVerificarAlertasUmbralExacto(t *testing.T) {
	// 1000 exactos no disparan la alerta: el umbral es estrictamente menor
	r := dto.ResumenFinanciero{
		EfectivoDisponible:  decimal.NewFromInt(1000),
		GananciaNetaMensual: decimal.Zero,
	}
	assert.Empty(t, VerificarAlertas(r))
}

func TestVerificarAlertasSinAlertas(t *testing.T) {
	r := dto.ResumenFinanciero{
		EfectivoDisponible:  decimal.NewFromInt(5000),
		GananciaNetaMensual: decimal.NewFromInt(100),
	}
	assert.Empty(t, VerificarAlertas(r))
}
