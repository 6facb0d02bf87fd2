package service

import (
	"context"
	"testing"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory MovimientoStockRepository stub ─────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type ventaFixture struct {
	svc         VentaService
	ventas      *stubVentaRepo
	productos   *stubProductoRepo
	movimientos *stubMovimientoRepo
}

func newVentaFixture() *ventaFixture {
	ventas := newStubVentaRepo()
	productos := newStubProductoRepo()
	movimientos := &stubMovimientoRepo{}
	svc := NewVentaService(ventas, productos, movimientos, nil)
	return &ventaFixture{svc: svc, ventas: ventas, productos: productos, movimientos: movimientos}
}

func (f *ventaFixture) conProducto(nombre string, precio int64, stock int) uuid.UUID {
	p := &model.Producto{
		CodigoBarras: uuid.NewString(),
		Nombre:       nombre,
		PrecioCosto:  decimal.NewFromInt(precio / 2),
		PrecioVenta:  decimal.NewFromInt(precio),
		StockActual:  stock,
		Activo:       true,
	}
	_ = f.productos.Create(context.Background(), p)
	return p.ID
}

func registrar(f *ventaFixture, items ...dto.ItemVentaRequest) (*dto.VentaResponse, error) {
	return f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{Items: items})
}

// ── RegistrarVenta ───────────────────────────────────────────────────────────

func TestRegistrarVentaExitosa(t *testing.T) {
	f := newVentaFixture()
	pid := f.conProducto("Yerba", 25, 10)

	resp, err := registrar(f, dto.ItemVentaRequest{ProductoID: pid.String(), Cantidad: 3})
	require.NoError(t, err)

	assert.True(t, resp.Total.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, "completada", resp.Estado)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].PrecioUnitario.Equal(decimal.NewFromInt(25)))
	assert.True(t, resp.Items[0].Subtotal.Equal(decimal.NewFromInt(75)))

	// stock descontado y movimiento registrado
	p, err := f.productos.FindByID(context.Background(), pid)
	require.NoError(t, err)
	assert.Equal(t, 7, p.StockActual)

	movs, err := f.movimientos.ListByProducto(context.Background(), pid)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "venta", movs[0].Tipo)
	assert.Equal(t, -3, movs[0].Cantidad)
}

func TestRegistrarVentaStockInsuficiente(t *testing.T) {
	f := newVentaFixture()
	pid := f.conProducto("Yerba", 25, 2)

	_, err := registrar(f, dto.ItemVentaRequest{ProductoID: pid.String(), Cantidad: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock insuficiente")

	// nada se descontó
	p, _ := f.productos.FindByID(context.Background(), pid)
	assert.Equal(t, 2, p.StockActual)
}

func TestRegistrarVentaProductoInactivo(t *testing.T) {
	f := newVentaFixture()
	pid := f.conProducto("Discontinuado", 25, 10)
	_ = f.productos.SoftDelete(context.Background(), pid)

	_, err := registrar(f, dto.ItemVentaRequest{ProductoID: pid.String(), Cantidad: 1})
	assert.Error(t, err)
}

func TestRegistrarVentaProductoInexistente(t *testing.T) {
	f := newVentaFixture()
	_, err := registrar(f, dto.ItemVentaRequest{ProductoID: uuid.NewString(), Cantidad: 1})
	assert.Error(t, err)
}

// ── CancelarVenta ────────────────────────────────────────────────────────────

func TestCancelarVentaRestauraStock(t *testing.T) {
	f := newVentaFixture()
	pid := f.conProducto("Yerba", 25, 10)

	resp, err := registrar(f, dto.ItemVentaRequest{ProductoID: pid.String(), Cantidad: 4})
	require.NoError(t, err)
	ventaID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.CancelarVenta(context.Background(), ventaID))

	p, _ := f.productos.FindByID(context.Background(), pid)
	assert.Equal(t, 10, p.StockActual)

	v, err := f.ventas.FindByID(context.Background(), ventaID)
	require.NoError(t, err)
	assert.Equal(t, "cancelada", v.Estado)

	// movimiento inverso registrado
	movs, _ := f.movimientos.ListByProducto(context.Background(), pid)
	require.Len(t, movs, 2)
	assert.Equal(t, "restore_cancelacion", movs[1].Tipo)
	assert.Equal(t, 4, movs[1].Cantidad)
}

func TestCancelarVentaDosVeces(t *testing.T) {
	f := newVentaFixture()
	pid := f.conProducto("Yerba", 25, 10)

	resp, err := registrar(f, dto.ItemVentaRequest{ProductoID: pid.String(), Cantidad: 1})
	require.NoError(t, err)
	ventaID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.CancelarVenta(context.Background(), ventaID))
	err = f.svc.CancelarVenta(context.Background(), ventaID)
	assert.Error(t, err)

	// el stock se restauró una sola vez
	p, _ := f.productos.FindByID(context.Background(), pid)
	assert.Equal(t, 10, p.StockActual)
}

func TestCancelarVentaInexistente(t *testing.T) {
	f := newVentaFixture()
	assert.Error(t, f.svc.CancelarVenta(context.Background(), uuid.New()))
}

// ── Reportes ─────────────────────────────────────────────────────────────────

func TestStatsIgnoranCanceladas(t *testing.T) {
	f := newVentaFixture()
	pid := f.conProducto("Yerba", 10, 100)

	r1, err := registrar(f, dto.ItemVentaRequest{ProductoID: pid.String(), Cantidad: 2}) // 20
	require.NoError(t, err)
	_, err = registrar(f, dto.ItemVentaRequest{ProductoID: pid.String(), Cantidad: 4}) // 40
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelarVenta(context.Background(), uuid.MustParse(r1.ID)))

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVentas)
	assert.True(t, stats.IngresosTotales.Equal(decimal.NewFromInt(40)))
	assert.True(t, stats.TicketPromedio.Equal(decimal.NewFromInt(40)))
}

func TestTopProductosOrdenaPorUnidades(t *testing.T) {
	f := newVentaFixture()
	yerba := f.conProducto("Yerba", 10, 100)
	azucar := f.conProducto("Azucar", 5, 100)

	_, err := registrar(f,
		dto.ItemVentaRequest{ProductoID: yerba.String(), Cantidad: 2},
		dto.ItemVentaRequest{ProductoID: azucar.String(), Cantidad: 7},
	)
	require.NoError(t, err)

	top, err := f.svc.TopProductos(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Azucar", top[0].Nombre)
	assert.Equal(t, 7, top[0].UnidadesVendidas)
	assert.True(t, top[0].IngresosTotales.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, "Yerba", top[1].Nombre)
}
