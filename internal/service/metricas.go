package service

import (
	"time"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UmbralEfectivoBajo dispara la alerta de efectivo disponible bajo.
var UmbralEfectivoBajo = decimal.NewFromInt(1000)

// CalcularMetricas es una función pura: el mismo input (ventas, gastos, costos,
// now) produce siempre el mismo resumen. Tolera listas vacías o parciales y
// devuelve métricas en cero en lugar de fallar.
//
// Los divisores de las ganancias netas por período (gastos/30 diario,
// sueldos/4 semanal, gastos completos mensual) son una aproximación heredada
// del sistema de reportes original; se conservan tal cual por paridad.
func CalcularMetricas(
	ventas []model.Venta,
	gastos []model.TransaccionFinanciera,
	costos map[uuid.UUID]decimal.Decimal,
	now time.Time,
) dto.ResumenFinanciero {
	hoy := inicioDia(now)
	semana := inicioSemana(now)
	mes := inicioMes(now)

	var (
		ingresosTotales   = decimal.Zero
		costoTotal        = decimal.Zero
		ingresosDiarios   = decimal.Zero
		ingresosSemanales = decimal.Zero
		ingresosMensuales = decimal.Zero
		costoDiario       = decimal.Zero
		costoSemanal      = decimal.Zero
		costoMensual      = decimal.Zero
	)

	for _, v := range ventas {
		costo := costoVenta(&v, costos)
		ingresosTotales = ingresosTotales.Add(v.Total)
		costoTotal = costoTotal.Add(costo)

		// Límite inferior inclusivo: una venta exactamente en el corte cuenta.
		if !v.CreatedAt.Before(hoy) {
			ingresosDiarios = ingresosDiarios.Add(v.Total)
			costoDiario = costoDiario.Add(costo)
		}
		if !v.CreatedAt.Before(semana) {
			ingresosSemanales = ingresosSemanales.Add(v.Total)
			costoSemanal = costoSemanal.Add(costo)
		}
		if !v.CreatedAt.Before(mes) {
			ingresosMensuales = ingresosMensuales.Add(v.Total)
			costoMensual = costoMensual.Add(costo)
		}
	}

	// La ganancia bruta puede ser negativa y se reporta tal cual.
	gananciaBruta := ingresosTotales.Sub(costoTotal)

	// Gastos administrativos: total histórico, sin ventanear. Los sueldos ya
	// pagados son un subconjunto (categoría "Sueldos").
	gastosAdmin := decimal.Zero
	sueldosPagados := decimal.Zero
	for _, g := range gastos {
		monto := g.MontoAbsoluto()
		gastosAdmin = gastosAdmin.Add(monto)
		if g.Categoria == model.CategoriaSueldos {
			sueldosPagados = sueldosPagados.Add(monto)
		}
	}

	netaDiaria := ingresosDiarios.Sub(costoDiario).Sub(gastosAdmin.Div(decimal.NewFromInt(30)))
	netaSemanal := ingresosSemanales.Sub(costoSemanal).Sub(sueldosPagados.Div(decimal.NewFromInt(4)))
	netaMensual := ingresosMensuales.Sub(costoMensual).Sub(gastosAdmin)

	// Efectivo disponible = ganancia neta histórica, nunca negativa.
	efectivo := gananciaBruta.Sub(gastosAdmin)
	if efectivo.IsNegative() {
		efectivo = decimal.Zero
	}

	return dto.ResumenFinanciero{
		TotalVentas:           len(ventas),
		IngresosTotales:       ingresosTotales,
		CostoMercaderia:       costoTotal,
		GananciaBruta:         gananciaBruta,
		IngresosDiarios:       ingresosDiarios,
		IngresosSemanales:     ingresosSemanales,
		IngresosMensuales:     ingresosMensuales,
		GastosAdministrativos: gastosAdmin,
		SueldosPagados:        sueldosPagados,
		GananciaNetaDiaria:    netaDiaria,
		GananciaNetaSemanal:   netaSemanal,
		GananciaNetaMensual:   netaMensual,
		EfectivoDisponible:    efectivo,
	}
}

// VerificarAlertas deriva alertas del resumen. El orden es estable: primero
// efectivo bajo, luego ganancias mensuales negativas.
func VerificarAlertas(r dto.ResumenFinanciero) []dto.Alerta {
	var alertas []dto.Alerta

	if r.EfectivoDisponible.LessThan(UmbralEfectivoBajo) {
		alertas = append(alertas, dto.Alerta{
			Tipo:    "warning",
			Mensaje: "Efectivo disponible bajo",
			Detalle: r.EfectivoDisponible,
		})
	}

	if r.GananciaNetaMensual.IsNegative() {
		alertas = append(alertas, dto.Alerta{
			Tipo:    "error",
			Mensaje: "Ganancias negativas este mes",
			Detalle: r.GananciaNetaMensual.Abs(),
		})
	}

	return alertas
}

// costoVenta suma costo_unitario * cantidad por cada línea. Productos sin
// entrada en la tabla de costos se computan con costo cero.
func costoVenta(v *model.Venta, costos map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range v.Items {
		unitario, ok := costos[item.ProductoID]
		if !ok {
			continue
		}
		total = total.Add(unitario.Mul(decimal.NewFromInt(int64(item.Cantidad))))
	}
	return total
}

// ── Cortes de período ─────────────────────────────────────────────────────────

func inicioDia(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// inicioSemana devuelve el domingo más reciente a las 00:00 local.
func inicioSemana(now time.Time) time.Time {
	return inicioDia(now).AddDate(0, 0, -int(now.Weekday()))
}

func inicioMes(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
