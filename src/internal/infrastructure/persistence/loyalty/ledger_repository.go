package loyalty

import (
	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// LedgerRepositoryImpl
// ===========================

// LedgerRepositoryImpl 積分帳本倉儲實現（GORM，append-only）
//
// 設計原則：
// - 實作 loyalty.Ledger 接口：只有 Append / BalanceOf / EntriesFor
// - 餘額不做反正規化欄位：每次以 SUM 從記錄推導，帳本是唯一事實來源
// - 此實作沒有任何 Update / Delete 路徑
type LedgerRepositoryImpl struct {
	db *gorm.DB
}

// NewLedgerRepository 創建新的積分帳本倉儲實例
func NewLedgerRepository(db *gorm.DB) loyalty.Ledger {
	return &LedgerRepositoryImpl{db: db}
}

// Append 追加一筆帳本記錄
//
// 實作邏輯：
// 1. 驗證追加後的累計餘額不為負（同一 DB 連線中先 SUM 再 INSERT；
//    跨操作的原子性由呼叫端的帳戶鎖 + 事務保證）
// 2. 執行 INSERT
//
// 錯誤處理：
// - 追加後餘額為負 → ErrNegativeBalance（中止，不寫入）
// - UNIQUE constraint 違反（entry_id 重複）→ ErrEntryAlreadyExists
// - 其他資料庫錯誤 → 原始錯誤
func (r *LedgerRepositoryImpl) Append(ctx shared.TransactionContext, entry loyalty.LedgerEntry) error {
	db := r.getDB(ctx)

	// 1. 驗證追加後餘額
	balance, err := r.sumPoints(db, entry.AccountID().String())
	if err != nil {
		return err
	}
	if balance+entry.Points() < 0 {
		return loyalty.ErrNegativeBalance.WithContext(
			"account_id", entry.AccountID().String(),
			"balance", balance,
			"points", entry.Points(),
		)
	}

	// 2. 執行 INSERT
	result := db.Create(entryToGORM(entry))
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return loyalty.ErrEntryAlreadyExists.WithContext(
				"entry_id", entry.EntryID().String(),
			)
		}
		return result.Error
	}
	return nil
}

// BalanceOf 返回帳戶所有記錄的積分總和
//
// 帳戶沒有任何記錄時返回 0（新帳戶）
func (r *LedgerRepositoryImpl) BalanceOf(ctx shared.TransactionContext, accountID loyalty.AccountID) (loyalty.PointsAmount, error) {
	db := r.getDB(ctx)

	sum, err := r.sumPoints(db, accountID.String())
	if err != nil {
		return loyalty.PointsAmount{}, err
	}
	// 帳本不變條件保證 sum >= 0；負數代表資料損壞，由 checked 建構函數擋下
	return loyalty.NewPointsAmount(sum)
}

// EntriesFor 返回帳戶的完整記錄序列（插入順序）
func (r *LedgerRepositoryImpl) EntriesFor(ctx shared.TransactionContext, accountID loyalty.AccountID) ([]loyalty.LedgerEntry, error) {
	db := r.getDB(ctx)

	var gormModels []LedgerEntryGORM
	result := db.
		Where("account_id = ?", accountID.String()).
		Order("seq ASC").
		Find(&gormModels)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]loyalty.LedgerEntry, 0, len(gormModels))
	for i := range gormModels {
		entry, err := gormModels[i].toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// sumPoints 計算帳戶的積分總和（COALESCE 處理無記錄的情況）
func (r *LedgerRepositoryImpl) sumPoints(db *gorm.DB, accountID string) (int, error) {
	var sum int
	result := db.
		Model(&LedgerEntryGORM{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum)
	if result.Error != nil {
		return 0, result.Error
	}
	return sum, nil
}

// getDB 獲取 GORM DB 實例（ctx == nil 時使用 auto-commit 模式）
func (r *LedgerRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if ctx != nil {
		if txCtx, ok := ctx.(gormTransactionContext); ok {
			return txCtx.GetDB()
		}
	}
	return r.db
}
