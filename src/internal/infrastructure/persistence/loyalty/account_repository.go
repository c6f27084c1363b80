package loyalty

import (
	"errors"
	"strings"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
	"gorm.io/gorm"
)

// gormTransactionContext GORM 事務上下文
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// ===========================
// AccountRepositoryImpl
// ===========================

// AccountRepositoryImpl 積分帳戶倉儲實現（GORM）
//
// 設計原則：
// - 實作 loyalty.AccountRepository 接口
// - 處理 Domain 與 GORM 模型轉換
// - 將 GORM 錯誤轉換為 Domain 錯誤
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// NewAccountRepository 創建新的積分帳戶倉儲實例
func NewAccountRepository(db *gorm.DB) loyalty.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Save 保存新的積分帳戶
//
// 錯誤處理：
// - UNIQUE constraint 違反（account_id 重複）→ ErrAccountAlreadyExists
// - 其他資料庫錯誤 → 原始錯誤
func (r *AccountRepositoryImpl) Save(ctx shared.TransactionContext, account *loyalty.LoyaltyAccount) error {
	db := r.getDB(ctx)

	result := db.Create(accountToGORM(account))
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return loyalty.ErrAccountAlreadyExists.WithContext(
				"account_id", account.AccountID().String(),
			)
		}
		return result.Error
	}
	return nil
}

// FindByID 根據帳戶 ID 查找積分帳戶
//
// 錯誤處理：
// - gorm.ErrRecordNotFound → loyalty.ErrAccountNotFound
// - 其他資料庫錯誤 → 原始錯誤
func (r *AccountRepositoryImpl) FindByID(ctx shared.TransactionContext, accountID loyalty.AccountID) (*loyalty.LoyaltyAccount, error) {
	db := r.getDB(ctx)

	var gormModel LoyaltyAccountGORM
	result := db.Where("account_id = ?", accountID.String()).First(&gormModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, loyalty.ErrAccountNotFound.WithContext(
				"account_id", accountID.String(),
			)
		}
		return nil, result.Error
	}

	return gormModel.toDomain()
}

// getDB 獲取 GORM DB 實例
//
// 行為：
//   - ctx != nil: 使用事務中的 DB（從 TransactionContext 獲取）
//   - ctx == nil: 使用預設 DB（auto-commit 模式，僅限讀操作）
func (r *AccountRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if ctx != nil {
		if txCtx, ok := ctx.(gormTransactionContext); ok {
			return txCtx.GetDB()
		}
	}
	return r.db
}

// isUniqueConstraintError 判斷是否為唯一約束錯誤
//
// 支持的資料庫：
// - PostgreSQL: "duplicate key value violates unique constraint"
// - SQLite: "UNIQUE constraint failed"
// - MySQL: "Duplicate entry"
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())

	// PostgreSQL
	if strings.Contains(errMsg, "duplicate key value violates unique constraint") {
		return true
	}

	// SQLite
	if strings.Contains(errMsg, "unique constraint failed") {
		return true
	}

	// MySQL
	if strings.Contains(errMsg, "duplicate entry") {
		return true
	}

	return false
}
