package loyalty

import (
	"time"

	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// LoyaltyAccount 聚合根
// ===========================

// LoyaltyAccount 會員積分帳戶聚合根
//
// 設計原則：
// 1. 輕量級聚合：不包含無界集合（帳本記錄儲存在獨立表）
// 2. 餘額不是聚合的字段：餘額是帳本的物化視圖
//    （balanceOf = 該帳戶所有記錄的積分總和），由 Ledger 推導，
//    避免字段與稽核軌跡漂移
// 3. 事件驅動：狀態變更發布領域事件
//
// 生命週期：
// - 首次互動時建立，初始餘額 0、最低等級
// - 只能透過產生帳本記錄的操作（earn / redeem / expire / adjust）變更
// - 核心永不刪除帳戶（停用屬於外部關注點）
type LoyaltyAccount struct {
	accountID AccountID

	// 審計字段
	createdAt time.Time
	updatedAt time.Time

	// 待發布的領域事件
	events []shared.DomainEvent
}

// NewLoyaltyAccount 創建新的積分帳戶
//
// 業務規則：
// - 自動生成唯一的 AccountID
// - 新帳戶沒有任何帳本記錄，餘額因此為 0
// - 發布 AccountCreated 事件
func NewLoyaltyAccount() *LoyaltyAccount {
	now := time.Now()

	account := &LoyaltyAccount{
		accountID: NewAccountID(),
		createdAt: now,
		updatedAt: now,
		events:    make([]shared.DomainEvent, 0),
	}

	account.addEvent(NewAccountCreatedEvent(account.accountID))

	return account
}

// ReconstructLoyaltyAccount 從持久化存儲重建聚合根
//
// 與 NewLoyaltyAccount 的區別：
// - New: 創建新聚合，發布 AccountCreated 事件
// - Reconstruct: 重建已存在的聚合，不發布事件（事件已發生過）
func ReconstructLoyaltyAccount(
	accountID AccountID,
	createdAt time.Time,
	updatedAt time.Time,
) (*LoyaltyAccount, error) {
	if accountID.IsEmpty() {
		return nil, ErrInvalidAccountID.WithContext(
			"reason", "invalid account ID in database",
		)
	}

	return &LoyaltyAccount{
		accountID: accountID,
		createdAt: createdAt,
		updatedAt: updatedAt,
		events:    make([]shared.DomainEvent, 0),
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// AccountID 獲取帳戶 ID
func (a *LoyaltyAccount) AccountID() AccountID {
	return a.accountID
}

// CreatedAt 獲取創建時間
func (a *LoyaltyAccount) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt 獲取最後更新時間
func (a *LoyaltyAccount) UpdatedAt() time.Time {
	return a.updatedAt
}

// ===========================
// 事件管理
// ===========================

// addEvent 添加領域事件到待發布列表（私有方法）
func (a *LoyaltyAccount) addEvent(event shared.DomainEvent) {
	a.events = append(a.events, event)
}

// PullEvents 獲取所有待發布事件並清空列表
//
// 使用場景：
// - Repository.Save() 成功後，調用此方法獲取事件並發布
// - 只讀取一次：獲取後清空，避免重複發布
func (a *LoyaltyAccount) PullEvents() []shared.DomainEvent {
	events := a.events
	a.events = make([]shared.DomainEvent, 0)
	return events
}
