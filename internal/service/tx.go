package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx ejecuta fn dentro de una transacción GORM. Con db nil (tests
// unitarios con stubs) ejecuta fn directamente con tx nil.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
