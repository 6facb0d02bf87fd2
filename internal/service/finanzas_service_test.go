package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory VentaRepository stub ───────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	cloned := *v
	r.ventas[v.ID] = &cloned
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return errors.New("record not found")
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) ListCompletadas(_ context.Context) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.Estado == "completada" {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── In-memory TransaccionRepository stub ─────────────────────────────────────

type stubTransaccionRepo struct {
	transacciones map[uuid.UUID]*model.TransaccionFinanciera
}

func newStubTransaccionRepo() *stubTransaccionRepo {
	return &stubTransaccionRepo{transacciones: make(map[uuid.UUID]*model.TransaccionFinanciera)}
}

func (r *stubTransaccionRepo) Create(_ context.Context, t *model.TransaccionFinanciera) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	cloned := *t
	r.transacciones[t.ID] = &cloned
	return nil
}

func (r *stubTransaccionRepo) CreateTx(_ *gorm.DB, t *model.TransaccionFinanciera) error {
	return r.Create(context.Background(), t)
}

func (r *stubTransaccionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TransaccionFinanciera, error) {
	t, ok := r.transacciones[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return t, nil
}

func (r *stubTransaccionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.transacciones, id)
	return nil
}

func (r *stubTransaccionRepo) ListGastos(_ context.Context) ([]model.TransaccionFinanciera, error) {
	var out []model.TransaccionFinanciera
	for _, t := range r.transacciones {
		if t.Tipo == "gasto" {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTransaccionRepo) DB() *gorm.DB { return nil }

var _ repository.TransaccionRepository = (*stubTransaccionRepo)(nil)

// ── In-memory EmpleadoRepository stub ────────────────────────────────────────

type stubEmpleadoRepo struct {
	empleados map[uuid.UUID]*model.Empleado
	failTx    bool // forces UpdateTx to fail, simulating a mid-transaction error
}

func newStubEmpleadoRepo() *stubEmpleadoRepo {
	return &stubEmpleadoRepo{empleados: make(map[uuid.UUID]*model.Empleado)}
}

func (r *stubEmpleadoRepo) Create(_ context.Context, e *model.Empleado) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cloned := *e
	r.empleados[e.ID] = &cloned
	return nil
}

func (r *stubEmpleadoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empleado, error) {
	e, ok := r.empleados[id]
	if !ok || !e.Activo {
		return nil, errors.New("record not found")
	}
	return e, nil
}

func (r *stubEmpleadoRepo) List(_ context.Context) ([]model.Empleado, error) {
	var out []model.Empleado
	for _, e := range r.empleados {
		if e.Activo {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubEmpleadoRepo) Update(_ context.Context, e *model.Empleado) error {
	cloned := *e
	r.empleados[e.ID] = &cloned
	return nil
}

func (r *stubEmpleadoRepo) UpdateTx(_ *gorm.DB, e *model.Empleado) error {
	if r.failTx {
		return errors.New("update forzado a fallar")
	}
	return r.Update(context.Background(), e)
}

func (r *stubEmpleadoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if e, ok := r.empleados[id]; ok {
		e.Activo = false
	}
	return nil
}

func (r *stubEmpleadoRepo) DB() *gorm.DB { return nil }

var _ repository.EmpleadoRepository = (*stubEmpleadoRepo)(nil)

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.productos[p.ID] = &cloned
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras == barcode && p.Activo {
			cloned := *p
			return &cloned, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cloned := *p
	r.productos[p.ID] = &cloned
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) ListCategorias(_ context.Context) ([]string, error) {
	return nil, nil
}

func (r *stubProductoRepo) ListBajoStock(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.StockActual <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Stats(_ context.Context) (*dto.InventarioStatsResponse, error) {
	return &dto.InventarioStatsResponse{}, nil
}

func (r *stubProductoRepo) MapaCostos(_ context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	costos := make(map[uuid.UUID]decimal.Decimal)
	for id, p := range r.productos {
		costos[id] = p.PrecioCosto
	}
	return costos, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.StockActual += delta
	return nil
}

func (r *stubProductoRepo) AjustarStock(_ context.Context, id uuid.UUID, delta int) error {
	return r.UpdateStockTx(nil, id, delta)
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type finanzasFixture struct {
	svc       FinanzasService
	ventas    *stubVentaRepo
	trans     *stubTransaccionRepo
	empleados *stubEmpleadoRepo
	productos *stubProductoRepo
}

func newFinanzasFixture() *finanzasFixture {
	ventas := newStubVentaRepo()
	trans := newStubTransaccionRepo()
	empleados := newStubEmpleadoRepo()
	productos := newStubProductoRepo()
	svc := NewFinanzasService(ventas, trans, empleados, productos, nil, nil, "", 30*time.Second)
	return &finanzasFixture{
		svc: svc, ventas: ventas, trans: trans,
		empleados: empleados, productos: productos,
	}
}

func (f *finanzasFixture) conProducto(costo, precio int64, stock int) uuid.UUID {
	p := &model.Producto{
		CodigoBarras: uuid.NewString(),
		Nombre:       "Producto",
		PrecioCosto:  decimal.NewFromInt(costo),
		PrecioVenta:  decimal.NewFromInt(precio),
		StockActual:  stock,
		Activo:       true,
	}
	_ = f.productos.Create(context.Background(), p)
	return p.ID
}

func (f *finanzasFixture) conVenta(total int64, estado string, items ...model.VentaItem) {
	v := &model.Venta{
		Total:     decimal.NewFromInt(total),
		Estado:    estado,
		CreatedAt: time.Now(),
		Items:     items,
	}
	_ = f.ventas.Create(context.Background(), nil, v)
}

func (f *finanzasFixture) conEmpleado(nombre string, salario int64) uuid.UUID {
	e := &model.Empleado{
		Nombre:         nombre,
		Puesto:         "Empleado",
		SalarioSemanal: decimal.NewFromInt(salario),
		ProximoPago:    time.Now().AddDate(0, 0, 7),
		TotalPagado:    decimal.Zero,
		Activo:         true,
	}
	_ = f.empleados.Create(context.Background(), e)
	return e.ID
}

// ── Resumen ──────────────────────────────────────────────────────────────────

func TestObtenerResumenVacio(t *testing.T) {
	f := newFinanzasFixture()

	r, err := f.svc.ObtenerResumen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, r.TotalVentas)
	assert.True(t, r.IngresosTotales.IsZero())
	assert.True(t, r.EfectivoDisponible.IsZero())
}

func TestObtenerResumenExcluyeCanceladas(t *testing.T) {
	f := newFinanzasFixture()
	pid := f.conProducto(10, 25, 100)
	f.conVenta(50, "completada", model.VentaItem{ProductoID: pid, Cantidad: 2})
	f.conVenta(999, "cancelada", model.VentaItem{ProductoID: pid, Cantidad: 4})

	r, err := f.svc.ObtenerResumen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalVentas)
	assert.True(t, r.IngresosTotales.Equal(decimal.NewFromInt(50)))
	assert.True(t, r.CostoMercaderia.Equal(decimal.NewFromInt(20)))
}

// ── Gastos ───────────────────────────────────────────────────────────────────

func TestCrearGastoNormalizaElSigno(t *testing.T) {
	f := newFinanzasFixture()

	// aunque el cliente mande el monto en positivo, se persiste negativo
	resp, err := f.svc.CrearGasto(context.Background(), dto.CrearGastoRequest{
		Descripcion: "Factura de luz",
		Monto:       decimal.NewFromInt(120),
		Categoria:   "Servicios",
	})
	require.NoError(t, err)
	assert.True(t, resp.Monto.Equal(decimal.NewFromInt(120)))

	gastos, err := f.trans.ListGastos(context.Background())
	require.NoError(t, err)
	require.Len(t, gastos, 1)
	assert.True(t, gastos[0].Monto.Equal(decimal.NewFromInt(-120)), "persistido: %s", gastos[0].Monto)
	assert.Equal(t, "gasto", gastos[0].Tipo)
}

func TestCrearGastoNegativoEquivaleAPositivo(t *testing.T) {
	f := newFinanzasFixture()

	_, err := f.svc.CrearGasto(context.Background(), dto.CrearGastoRequest{
		Descripcion: "Reparación heladera",
		Monto:       decimal.NewFromInt(-80),
		Categoria:   "Mantenimiento",
	})
	require.NoError(t, err)

	r, err := f.svc.ObtenerResumen(context.Background())
	require.NoError(t, err)
	assert.True(t, r.GastosAdministrativos.Equal(decimal.NewFromInt(80)))
}

func TestCrearGastoMontoCero(t *testing.T) {
	f := newFinanzasFixture()

	_, err := f.svc.CrearGasto(context.Background(), dto.CrearGastoRequest{
		Descripcion: "Nada",
		Monto:       decimal.Zero,
		Categoria:   "Otros",
	})
	assert.Error(t, err)
}

func TestEliminarGastoInexistente(t *testing.T) {
	f := newFinanzasFixture()
	err := f.svc.EliminarGasto(context.Background(), uuid.New())
	assert.Error(t, err)
}

// ── Nómina ───────────────────────────────────────────────────────────────────

func TestProcesarNominaExitosa(t *testing.T) {
	f := newFinanzasFixture()
	pid := f.conProducto(0, 100, 100)
	// efectivo = 5000 (sin costos ni gastos)
	f.conVenta(5000, "completada", model.VentaItem{ProductoID: pid, Cantidad: 1})
	idAna := f.conEmpleado("Ana", 1200)
	idBeto := f.conEmpleado("Beto", 800)

	resp, err := f.svc.ProcesarNomina(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.MontoPagado.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 2, resp.Empleados)

	// un único gasto "Sueldos" por el total, en negativo
	gastos, err := f.trans.ListGastos(context.Background())
	require.NoError(t, err)
	require.Len(t, gastos, 1)
	assert.Equal(t, model.CategoriaSueldos, gastos[0].Categoria)
	assert.True(t, gastos[0].Monto.Equal(decimal.NewFromInt(-2000)))
	assert.Contains(t, gastos[0].Descripcion, "Pago de nómina")

	// cada empleado queda actualizado
	ana, err := f.empleados.FindByID(context.Background(), idAna)
	require.NoError(t, err)
	require.NotNil(t, ana.UltimoPago)
	assert.True(t, ana.TotalPagado.Equal(decimal.NewFromInt(1200)))
	assert.True(t, ana.ProximoPago.After(time.Now().AddDate(0, 0, 6)))

	beto, err := f.empleados.FindByID(context.Background(), idBeto)
	require.NoError(t, err)
	assert.True(t, beto.TotalPagado.Equal(decimal.NewFromInt(800)))
}

func TestProcesarNominaFondosInsuficientes(t *testing.T) {
	f := newFinanzasFixture()
	pid := f.conProducto(0, 100, 100)
	f.conVenta(500, "completada", model.VentaItem{ProductoID: pid, Cantidad: 1})
	idAna := f.conEmpleado("Ana", 1200)

	_, err := f.svc.ProcesarNomina(context.Background())
	require.Error(t, err)

	var fondosErr *FondosInsuficientesError
	require.ErrorAs(t, err, &fondosErr)
	assert.True(t, fondosErr.Requerido.Equal(decimal.NewFromInt(1200)))
	assert.True(t, fondosErr.Disponible.Equal(decimal.NewFromInt(500)))

	// nada se modificó
	gastos, _ := f.trans.ListGastos(context.Background())
	assert.Empty(t, gastos)
	ana, err := f.empleados.FindByID(context.Background(), idAna)
	require.NoError(t, err)
	assert.Nil(t, ana.UltimoPago)
	assert.True(t, ana.TotalPagado.IsZero())
}

func TestProcesarNominaSinEmpleados(t *testing.T) {
	f := newFinanzasFixture()
	_, err := f.svc.ProcesarNomina(context.Background())
	assert.Error(t, err)
}

func TestProcesarNominaDosVecesDescuentaDoble(t *testing.T) {
	// La nómina no es idempotente por diseño: cada llamada paga una semana.
	// La segunda corrida ve el efectivo ya reducido por el gasto de la primera.
	f := newFinanzasFixture()
	pid := f.conProducto(0, 100, 100)
	f.conVenta(3000, "completada", model.VentaItem{ProductoID: pid, Cantidad: 1})
	id := f.conEmpleado("Ana", 1000)

	_, err := f.svc.ProcesarNomina(context.Background())
	require.NoError(t, err)
	_, err = f.svc.ProcesarNomina(context.Background())
	require.NoError(t, err)

	e, err := f.empleados.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, e.TotalPagado.Equal(decimal.NewFromInt(2000)))

	// tercera corrida: efectivo 3000-2000=1000 alcanza justo
	_, err = f.svc.ProcesarNomina(context.Background())
	require.NoError(t, err)

	// cuarta: efectivo en cero, debe fallar
	_, err = f.svc.ProcesarNomina(context.Background())
	var fondosErr *FondosInsuficientesError
	require.ErrorAs(t, err, &fondosErr)
}

func TestProcesarNominaPropagaErrorDeEscritura(t *testing.T) {
	f := newFinanzasFixture()
	pid := f.conProducto(0, 100, 100)
	f.conVenta(5000, "completada", model.VentaItem{ProductoID: pid, Cantidad: 1})
	f.conEmpleado("Ana", 1000)
	f.empleados.failTx = true

	_, err := f.svc.ProcesarNomina(context.Background())
	assert.Error(t, err)
}

func TestAlertasDelServicio(t *testing.T) {
	f := newFinanzasFixture()
	// sin ventas, con gasto: mensual negativa y efectivo en cero
	_, err := f.svc.CrearGasto(context.Background(), dto.CrearGastoRequest{
		Descripcion: "Alquiler",
		Monto:       decimal.NewFromInt(400),
		Categoria:   "Alquiler",
	})
	require.NoError(t, err)

	alertas, err := f.svc.Alertas(context.Background())
	require.NoError(t, err)
	require.Len(t, alertas, 2)
	assert.Equal(t, "warning", alertas[0].Tipo)
	assert.Equal(t, "error", alertas[1].Tipo)
	assert.True(t, alertas[1].Detalle.Equal(decimal.NewFromInt(400)))
}
