package repository

import (
	"context"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	ListCategorias(ctx context.Context) ([]string, error)
	ListBajoStock(ctx context.Context) ([]model.Producto, error)
	Stats(ctx context.Context) (*dto.InventarioStatsResponse, error)

	// MapaCostos construye la tabla producto → costo unitario que consume el
	// agregador financiero. Productos sin entrada se computan con costo cero.
	MapaCostos(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)

	// Used inside transactions — callers must pass the tx instance
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// AjustarStock incrementa o decrementa stock_actual sin transaccion externa.
	AjustarStock(ctx context.Context, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo_barras = ? AND activo = true", barcode).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Barcode != "" {
		q = q.Where("codigo_barras = ?", filter.Barcode)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) ListCategorias(ctx context.Context) ([]string, error) {
	var categorias []string
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("activo = true").
		Distinct("categoria").
		Order("categoria ASC").
		Pluck("categoria", &categorias).Error
	return categorias, err
}

func (r *productoRepo) ListBajoStock(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock_actual <= stock_minimo").
		Order("stock_actual ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Stats(ctx context.Context) (*dto.InventarioStatsResponse, error) {
	var stats dto.InventarioStatsResponse

	base := r.db.WithContext(ctx).Model(&model.Producto{}).Where("activo = true")
	if err := base.Count(&stats.TotalProductos).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("activo = true AND stock_actual <= stock_minimo").
		Count(&stats.BajoStock).Error; err != nil {
		return nil, err
	}

	var valor decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("activo = true").
		Select("SUM(stock_actual * precio_costo)").
		Scan(&valor).Error; err != nil {
		return nil, err
	}
	if valor.Valid {
		stats.ValorInventario = valor.Decimal
	}
	return &stats, nil
}

func (r *productoRepo) MapaCostos(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	type fila struct {
		ID          uuid.UUID
		PrecioCosto decimal.Decimal
	}
	var filas []fila
	if err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Select("id", "precio_costo").
		Find(&filas).Error; err != nil {
		return nil, err
	}
	costos := make(map[uuid.UUID]decimal.Decimal, len(filas))
	for _, f := range filas {
		costos[f.ID] = f.PrecioCosto
	}
	return costos, nil
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock_actual", gorm.Expr("stock_actual + ?", delta)).Error
}

func (r *productoRepo) AjustarStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND activo = true", id).
		Update("stock_actual", gorm.Expr("stock_actual + ?", delta)).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
