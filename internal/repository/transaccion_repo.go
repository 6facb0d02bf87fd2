package repository

import (
	"context"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransaccionRepository persiste el libro de gastos e ingresos.
// Las transacciones son inmutables: hay alta y baja, pero no edición.
type TransaccionRepository interface {
	Create(ctx context.Context, t *model.TransaccionFinanciera) error
	CreateTx(tx *gorm.DB, t *model.TransaccionFinanciera) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TransaccionFinanciera, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListGastos devuelve todas las transacciones tipo "gasto", más antiguas
	// primero — entrada del agregador financiero.
	ListGastos(ctx context.Context) ([]model.TransaccionFinanciera, error)

	DB() *gorm.DB
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository { return &transaccionRepo{db: db} }

func (r *transaccionRepo) Create(ctx context.Context, t *model.TransaccionFinanciera) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transaccionRepo) CreateTx(tx *gorm.DB, t *model.TransaccionFinanciera) error {
	return tx.Create(t).Error
}

func (r *transaccionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TransaccionFinanciera, error) {
	var t model.TransaccionFinanciera
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *transaccionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TransaccionFinanciera{}, id).Error
}

func (r *transaccionRepo) ListGastos(ctx context.Context) ([]model.TransaccionFinanciera, error) {
	var gastos []model.TransaccionFinanciera
	err := r.db.WithContext(ctx).
		Where("tipo = 'gasto'").
		Order("fecha ASC").
		Find(&gastos).Error
	return gastos, err
}

func (r *transaccionRepo) DB() *gorm.DB { return r.db }
