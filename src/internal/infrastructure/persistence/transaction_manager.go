package persistence

import (
	"github.com/luxemart/loyalty/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionManager 實作
// ===========================

// gormTransactionManager GORM 事務管理器實作
//
// 事務保證：
// 1. fn 返回 nil → 提交
// 2. fn 返回 error → 回滾，原始錯誤原樣返回
// 3. fn panic → 回滾後重新拋出（由調用者處理）
type gormTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager 創建 GORM 事務管理器
func NewGORMTransactionManager(db *gorm.DB) shared.TransactionManager {
	return &gormTransactionManager{db: db}
}

// InTransaction 在單一資料庫事務中執行 fn
func (m *gormTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	tx := m.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(NewGORMTransactionContext(tx)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
