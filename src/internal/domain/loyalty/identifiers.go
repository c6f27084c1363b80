package loyalty

import (
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// 設計原則：使用泛型 EntityID[T] 消除重複代碼
//
// 類型安全保證：
// - AccountID、EntryID、RewardID 是不同類型（編譯器強制檢查）
// - 不能將 AccountID 賦值給 RewardID 變量
// - 不能比較 AccountID 和 RewardID（編譯錯誤）

// ===========================
// AccountID - 會員積分帳戶 ID
// ===========================

// AccountMarker 是 AccountID 的標記類型
// 用途：讓 AccountID 和其他 ID 成為不同的類型
type AccountMarker struct{}

// AccountID 會員積分帳戶的唯一標識符
//
// 實現：EntityID[AccountMarker] 的類型別名
// 使用：id := NewAccountID() 或 AccountIDFromString(s)
type AccountID = shared.EntityID[AccountMarker]

// NewAccountID 生成新的帳戶 ID（UUID v4）
//
// 使用場景：首次互動時建立帳戶
func NewAccountID() AccountID {
	return shared.NewEntityID[AccountMarker]()
}

// AccountIDFromString 從字串解析帳戶 ID
//
// 使用場景：
// - 從數據庫讀取 ID
// - 外部身份協作者（session 層）傳入的 accountId
func AccountIDFromString(s string) (AccountID, error) {
	return shared.EntityIDFromString[AccountMarker](s, ErrInvalidAccountID)
}

// ===========================
// EntryID - 帳本記錄 ID
// ===========================

// EntryMarker 是 EntryID 的標記類型
type EntryMarker struct{}

// EntryID 帳本記錄的唯一標識符
type EntryID = shared.EntityID[EntryMarker]

// NewEntryID 生成新的帳本記錄 ID（UUID v4）
//
// 使用場景：Append 一筆新的活動記錄時
func NewEntryID() EntryID {
	return shared.NewEntityID[EntryMarker]()
}

// EntryIDFromString 從字串解析帳本記錄 ID
func EntryIDFromString(s string) (EntryID, error) {
	return shared.EntityIDFromString[EntryMarker](s, ErrInvalidEntryID)
}

// ===========================
// RewardID - 獎勵 ID
// ===========================

// RewardMarker 是 RewardID 的標記類型
type RewardMarker struct{}

// RewardID 獎勵目錄項目的唯一標識符
type RewardID = shared.EntityID[RewardMarker]

// NewRewardID 生成新的獎勵 ID（UUID v4）
func NewRewardID() RewardID {
	return shared.NewEntityID[RewardMarker]()
}

// RewardIDFromString 從字串解析獎勵 ID
//
// 使用場景：
// - 從數據庫讀取獎勵
// - 兌換請求中的 rewardId
func RewardIDFromString(s string) (RewardID, error) {
	return shared.EntityIDFromString[RewardMarker](s, ErrInvalidRewardID)
}
