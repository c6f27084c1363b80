package loyalty

import (
	"time"
)

// ===========================
// EntryType 帳本記錄類型
// ===========================

// EntryType 帳本記錄類型
type EntryType string

// 四種合法的記錄類型
const (
	EntryTypeEarned   EntryType = "earned"   // 消費獲得積分（正數）
	EntryTypeRedeemed EntryType = "redeemed" // 兌換獎勵（負數）
	EntryTypeExpired  EntryType = "expired"  // 積分過期（負數，由外部排程器追加）
	EntryTypeAdjusted EntryType = "adjusted" // 人工調整（正負皆可，不為零）
)

// IsValid 判斷是否為四種合法類型之一
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeEarned, EntryTypeRedeemed, EntryTypeExpired, EntryTypeAdjusted:
		return true
	}
	return false
}

// allowsPoints 檢查積分正負號是否符合類型的符號規則
//
// 符號規則：
// - earned: 正數
// - redeemed, expired: 負數
// - adjusted: 正負皆可（信用為正、扣減為負），但不為零
//
// 零值由 NewLedgerEntry 統一拒絕，此處只檢查正負方向
func (t EntryType) allowsPoints(points int) bool {
	switch t {
	case EntryTypeEarned:
		return points > 0
	case EntryTypeRedeemed, EntryTypeExpired:
		return points < 0
	case EntryTypeAdjusted:
		return points != 0
	}
	return false
}

// ===========================
// LedgerEntry 帳本記錄
// ===========================

// LedgerEntry 活動帳本記錄
//
// 設計原則：
// 1. 建立後不可變（append-only 帳本的基礎）
// 2. 自我驗證：建構函數保證類型合法、積分非零、正負號正確
// 3. 餘額是帳本的物化視圖：帳戶餘額 = 該帳戶所有記錄的積分總和
//
// 修正方式：
// 記錄一旦 Append 成功就永不修改或刪除；更正以新的 adjusted
// 記錄表達，保留完整的稽核軌跡
type LedgerEntry struct {
	entryID     EntryID
	accountID   AccountID
	entryType   EntryType
	points      int // 帶正負號：earned/adjusted-credit 為正，redeemed/expired/adjusted-debit 為負
	description string
	occurredAt  time.Time
	rewardID    RewardID // 僅 redeemed 記錄使用；其他類型為空值
}

// NewLedgerEntry 建構函數
//
// 驗證規則：
// - entryType 必須是四種合法類型之一
// - points 不能為零
// - points 正負號必須符合類型的符號規則
//
// 注意：「結果餘額不得為負」不在此驗證——那需要帳本的當前狀態，
// 由 Ledger.Append 在同一個事務中檢查
func NewLedgerEntry(
	accountID AccountID,
	entryType EntryType,
	points int,
	description string,
	occurredAt time.Time,
	rewardID RewardID,
) (LedgerEntry, error) {
	if accountID.IsEmpty() {
		return LedgerEntry{}, ErrInvalidAccountID.WithContext(
			"reason", "accountID cannot be empty",
		)
	}
	if !entryType.IsValid() {
		return LedgerEntry{}, ErrInvalidEntryType.WithContext(
			"type", string(entryType),
		)
	}
	if points == 0 {
		return LedgerEntry{}, ErrZeroPointsEntry.WithContext(
			"type", string(entryType),
		)
	}
	if !entryType.allowsPoints(points) {
		return LedgerEntry{}, ErrInvalidEntrySign.WithContext(
			"type", string(entryType),
			"points", points,
		)
	}

	return LedgerEntry{
		entryID:     NewEntryID(),
		accountID:   accountID,
		entryType:   entryType,
		points:      points,
		description: description,
		occurredAt:  occurredAt,
		rewardID:    rewardID,
	}, nil
}

// NewEarnedEntry 建立一筆消費獲得積分的記錄
//
// 前置條件：amount > 0（零積分不產生記錄，由呼叫端決定略過）
func NewEarnedEntry(
	accountID AccountID,
	amount PointsAmount,
	description string,
	occurredAt time.Time,
) (LedgerEntry, error) {
	return NewLedgerEntry(accountID, EntryTypeEarned, amount.Value(), description, occurredAt, RewardID{})
}

// NewRedeemedEntry 建立一筆兌換獎勵的記錄
//
// 業務規則：一次兌換恰好產生一筆 redeemed 記錄，
// points = -cost 並引用獎勵 ID
func NewRedeemedEntry(
	accountID AccountID,
	rewardID RewardID,
	cost PointsAmount,
	description string,
	occurredAt time.Time,
) (LedgerEntry, error) {
	if rewardID.IsEmpty() {
		return LedgerEntry{}, ErrInvalidRewardID.WithContext(
			"reason", "redeemed entry requires a reward ID",
		)
	}
	return NewLedgerEntry(accountID, EntryTypeRedeemed, -cost.Value(), description, occurredAt, rewardID)
}

// NewExpiredEntry 建立一筆積分過期的記錄
//
// 使用場景：外部排程器追加過期扣減；核心不主動產生過期記錄
// （過期回收的業務規則尚待釐清，核心只執行帳本契約）
func NewExpiredEntry(
	accountID AccountID,
	amount PointsAmount,
	description string,
	occurredAt time.Time,
) (LedgerEntry, error) {
	return NewLedgerEntry(accountID, EntryTypeExpired, -amount.Value(), description, occurredAt, RewardID{})
}

// NewAdjustedEntry 建立一筆人工調整的記錄
//
// points 正數為信用、負數為扣減；零值會被建構函數拒絕
func NewAdjustedEntry(
	accountID AccountID,
	points int,
	description string,
	occurredAt time.Time,
) (LedgerEntry, error) {
	return NewLedgerEntry(accountID, EntryTypeAdjusted, points, description, occurredAt, RewardID{})
}

// ReconstructLedgerEntry 從持久化存儲重建帳本記錄
//
// 僅供 Repository 使用。即使是從資料庫重建，也必須驗證
// 不變條件，防止損壞資料污染領域層
func ReconstructLedgerEntry(
	entryID EntryID,
	accountID AccountID,
	entryType EntryType,
	points int,
	description string,
	occurredAt time.Time,
	rewardID RewardID,
) (LedgerEntry, error) {
	if entryID.IsEmpty() {
		return LedgerEntry{}, ErrInvalidEntryID.WithContext(
			"reason", "invalid entry ID in database",
		)
	}
	entry, err := NewLedgerEntry(accountID, entryType, points, description, occurredAt, rewardID)
	if err != nil {
		return LedgerEntry{}, err
	}
	entry.entryID = entryID
	return entry, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// EntryID 獲取記錄 ID
func (e LedgerEntry) EntryID() EntryID {
	return e.entryID
}

// AccountID 獲取帳戶 ID
func (e LedgerEntry) AccountID() AccountID {
	return e.accountID
}

// Type 獲取記錄類型
func (e LedgerEntry) Type() EntryType {
	return e.entryType
}

// Points 獲取帶正負號的積分變動量
func (e LedgerEntry) Points() int {
	return e.points
}

// Description 獲取描述
func (e LedgerEntry) Description() string {
	return e.description
}

// OccurredAt 獲取發生時間
func (e LedgerEntry) OccurredAt() time.Time {
	return e.occurredAt
}

// RewardID 獲取關聯的獎勵 ID（非 redeemed 記錄為空值）
func (e LedgerEntry) RewardID() RewardID {
	return e.rewardID
}

// HasReward 判斷是否關聯獎勵
func (e LedgerEntry) HasReward() bool {
	return !e.rewardID.IsEmpty()
}
