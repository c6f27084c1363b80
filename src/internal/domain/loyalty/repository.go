package loyalty

import "github.com/luxemart/loyalty/src/internal/domain/shared"

// ===========================
// Repository 介面
// ===========================

// AccountRepository 積分帳戶倉儲介面
//
// 設計原則：
// 1. 依賴倒置原則（DIP）：Domain Layer 定義介面，Infrastructure Layer 實作
// 2. 介面隔離原則（ISP）：只包含核心操作
//
// 事務使用範例：
//   txManager.InTransaction(func(ctx shared.TransactionContext) error {
//       account := loyalty.NewLoyaltyAccount()
//       return repo.Save(ctx, account)
//   })
type AccountRepository interface {
	// Save 保存新的積分帳戶
	// 前置條件：帳戶不存在（AccountID 唯一）
	// 錯誤：ErrAccountAlreadyExists（如果 AccountID 已存在）
	Save(ctx shared.TransactionContext, account *LoyaltyAccount) error

	// FindByID 根據帳戶 ID 查找積分帳戶
	// 返回：找到的帳戶，或 ErrAccountNotFound
	FindByID(ctx shared.TransactionContext, accountID AccountID) (*LoyaltyAccount, error)
}

// Ledger 積分帳本倉儲介面（append-only）
//
// 不變條件：
// 1. Append-only：沒有 Update、沒有 Delete
// 2. 記錄一旦寫入就不可變；更正以新的 adjusted 記錄表達
// 3. 餘額是推導值：BalanceOf = 該帳戶所有記錄的積分總和
//
// 併發紀律：
// 「讀餘額、再追加」必須以帳戶為單位原子化——呼叫端（Use Case）
// 以帳戶鎖 + 事務包住 BalanceOf 與 Append，兩筆併發兌換因此
// 嚴格串行化，不可能共同透支
type Ledger interface {
	// Append 追加一筆帳本記錄
	//
	// 驗證（ValidationError，中止而非部分寫入）：
	// - 記錄本身的類型/非零/正負號約束（由 LedgerEntry 建構函數保證）
	// - 追加後的累計餘額不得為負 → ErrNegativeBalance
	//
	// 寫操作：ctx 必須為 non-nil（在事務中執行）
	Append(ctx shared.TransactionContext, entry LedgerEntry) error

	// BalanceOf 返回帳戶所有記錄的積分總和
	// 這是帳戶餘額的權威來源（materialized view of the ledger）
	// 帳戶不存在記錄時返回 0（新帳戶）
	BalanceOf(ctx shared.TransactionContext, accountID AccountID) (PointsAmount, error)

	// EntriesFor 返回帳戶的完整記錄序列（插入順序）
	// 供 Activity Query 過濾/排序/分頁使用
	EntriesFor(ctx shared.TransactionContext, accountID AccountID) ([]LedgerEntry, error)
}

// RewardRepository 獎勵目錄倉儲介面
//
// 獎勵目錄由外部目錄協作者供應；
// 此介面即是核心對該協作者的最小要求
type RewardRepository interface {
	// Save 保存獎勵目錄項目
	Save(ctx shared.TransactionContext, reward *Reward) error

	// FindByID 根據獎勵 ID 查找獎勵
	// 返回：找到的獎勵，或 ErrRewardNotFound
	FindByID(ctx shared.TransactionContext, rewardID RewardID) (*Reward, error)

	// FindAvailable 返回目前可兌換的獎勵清單
	// 使用場景：店面的獎勵目錄頁
	FindAvailable(ctx shared.TransactionContext) ([]*Reward, error)
}

// ===========================
// Repository 錯誤定義
// ===========================

// Repository 相關錯誤代碼
const (
	ErrCodeAccountNotFound      ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountAlreadyExists ErrorCode = "ACCOUNT_ALREADY_EXISTS"
	ErrCodeRewardNotFound       ErrorCode = "REWARD_NOT_FOUND"
	ErrCodeEntryAlreadyExists   ErrorCode = "ENTRY_ALREADY_EXISTS"
	ErrCodeRepositoryError      ErrorCode = "REPOSITORY_ERROR"
)

// Repository 錯誤實例
var (
	// ErrAccountNotFound 帳戶不存在
	ErrAccountNotFound = &DomainError{
		Code:    ErrCodeAccountNotFound,
		Message: "積分帳戶不存在",
	}

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = &DomainError{
		Code:    ErrCodeAccountAlreadyExists,
		Message: "積分帳戶已存在",
	}

	// ErrRewardNotFound 獎勵不存在
	ErrRewardNotFound = &DomainError{
		Code:    ErrCodeRewardNotFound,
		Message: "獎勵不存在",
	}

	// ErrEntryAlreadyExists 帳本記錄已存在（EntryID 重複）
	ErrEntryAlreadyExists = &DomainError{
		Code:    ErrCodeEntryAlreadyExists,
		Message: "帳本記錄已存在",
	}

	// ErrRepositoryError 倉儲操作錯誤（通用）
	ErrRepositoryError = &DomainError{
		Code:    ErrCodeRepositoryError,
		Message: "倉儲操作失敗",
	}
)
