// Package dbtest opens throwaway sqlite databases migrated with the service models.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/angelmondragon/labstock-backend/pkg/db"
	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns an isolated in-memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	return open(t, "file:labstock_"+uuid.NewString()+"?mode=memory&cache=shared")
}

// OpenFile returns a file-backed database whose transactions take the write
// lock on BEGIN, so concurrent transactions serialize instead of failing.
func OpenFile(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labstock.db")
	return open(t, "file:"+path+"?_txlock=immediate&_busy_timeout=5000")
}

func open(t testing.TB, dsn string) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Material{}, &models.Transaction{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// SeedMaterial inserts a material with the given code and available quantity.
func SeedMaterial(t testing.TB, conn *gorm.DB, code, name string, available int) *models.Material {
	t.Helper()
	material := &models.Material{
		Code:              code,
		Name:              name,
		Type:              "General",
		OpeningBalance:    available,
		Balance:           available,
		AvailableQuantity: available,
	}
	if err := conn.Create(material).Error; err != nil {
		t.Fatalf("seed material: %v", err)
	}
	return material
}
