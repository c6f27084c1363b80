package loyalty

import (
	"time"

	"github.com/google/uuid"
)

// ===========================
// AccountCreated 領域事件
// ===========================

// AccountCreatedEvent 積分帳戶創建事件
type AccountCreatedEvent struct {
	eventID    string
	accountID  AccountID
	occurredAt time.Time
}

// NewAccountCreatedEvent 創建帳戶創建事件
func NewAccountCreatedEvent(accountID AccountID) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		eventID:    uuid.New().String(),
		accountID:  accountID,
		occurredAt: time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *AccountCreatedEvent) EventID() string {
	return e.eventID
}

// EventType 實現 DomainEvent 介面
func (e *AccountCreatedEvent) EventType() string {
	return "loyalty.account_created"
}

// OccurredAt 實現 DomainEvent 介面
func (e *AccountCreatedEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateID 實現 DomainEvent 介面
func (e *AccountCreatedEvent) AggregateID() string {
	return e.accountID.String()
}

// AccountID 獲取帳戶 ID
func (e *AccountCreatedEvent) AccountID() AccountID {
	return e.accountID
}

// ===========================
// LedgerEntryAppended 領域事件
// ===========================

// LedgerEntryAppendedEvent 帳本記錄追加事件
//
// 設計決策：
// 四種記錄類型（earned / redeemed / expired / adjusted）共用一個
// 事件結構，以 EventType() 區分——訂閱者（店面 toast 層）關心的
// 是同一組資訊：哪個帳戶、多少積分、之後餘額多少
type LedgerEntryAppendedEvent struct {
	eventID    string
	entry      LedgerEntry
	newBalance int
	occurredAt time.Time
}

// NewLedgerEntryAppendedEvent 創建帳本記錄追加事件
//
// 參數：
//   entry - 已成功追加的記錄
//   newBalance - 追加後的帳戶餘額
func NewLedgerEntryAppendedEvent(entry LedgerEntry, newBalance int) *LedgerEntryAppendedEvent {
	return &LedgerEntryAppendedEvent{
		eventID:    uuid.New().String(),
		entry:      entry,
		newBalance: newBalance,
		occurredAt: time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *LedgerEntryAppendedEvent) EventID() string {
	return e.eventID
}

// EventType 實現 DomainEvent 介面
//
// 依記錄類型返回：
// - loyalty.points_earned
// - loyalty.reward_redeemed
// - loyalty.points_expired
// - loyalty.points_adjusted
func (e *LedgerEntryAppendedEvent) EventType() string {
	switch e.entry.Type() {
	case EntryTypeEarned:
		return "loyalty.points_earned"
	case EntryTypeRedeemed:
		return "loyalty.reward_redeemed"
	case EntryTypeExpired:
		return "loyalty.points_expired"
	default:
		return "loyalty.points_adjusted"
	}
}

// OccurredAt 實現 DomainEvent 介面
func (e *LedgerEntryAppendedEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateID 實現 DomainEvent 介面
func (e *LedgerEntryAppendedEvent) AggregateID() string {
	return e.entry.AccountID().String()
}

// Entry 獲取追加的帳本記錄
func (e *LedgerEntryAppendedEvent) Entry() LedgerEntry {
	return e.entry
}

// NewBalance 獲取追加後的帳戶餘額
func (e *LedgerEntryAppendedEvent) NewBalance() int {
	return e.newBalance
}
