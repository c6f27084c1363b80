package loyalty

import (
	"time"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
)

// ===========================
// GORM Models
// ===========================

// LoyaltyAccountGORM 積分帳戶資料表模型
//
// 設計原則：
// - 僅用於 Infrastructure Layer（不暴露給 Domain Layer）
// - 與 Domain LoyaltyAccount 聚合分離（Mapper 轉換）
//
// 注意：餘額不在此表——餘額是帳本記錄的推導值（SUM），
// 不做反正規化欄位，避免與帳本不一致
type LoyaltyAccountGORM struct {
	AccountID string    `gorm:"column:account_id;type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (LoyaltyAccountGORM) TableName() string {
	return "loyalty_accounts"
}

// LedgerEntryGORM 帳本記錄資料表模型
//
// 資料庫約束：
// - seq: 自增主鍵，保存插入順序（EntriesFor 的排序依據）
// - entry_id: 唯一索引（append-only 的冪等保證）
// - account_id: 索引（按帳戶查詢）
// - reward_id: 只在 entry_type = 'redeemed' 時非空
//
// Append-only：此表沒有任何 Update / Delete 路徑
type LedgerEntryGORM struct {
	Seq         uint64    `gorm:"column:seq;primaryKey;autoIncrement"`
	EntryID     string    `gorm:"column:entry_id;type:varchar(36);uniqueIndex;not null"`
	AccountID   string    `gorm:"column:account_id;type:varchar(36);index;not null"`
	EntryType   string    `gorm:"column:entry_type;type:varchar(16);not null"`
	Points      int       `gorm:"column:points;not null"`
	Description string    `gorm:"column:description;type:varchar(255)"`
	OccurredAt  time.Time `gorm:"column:occurred_at;not null;index"`
	RewardID    string    `gorm:"column:reward_id;type:varchar(36)"`
}

// TableName 指定資料表名稱
func (LedgerEntryGORM) TableName() string {
	return "loyalty_ledger_entries"
}

// RewardGORM 獎勵目錄資料表模型
type RewardGORM struct {
	RewardID    string    `gorm:"column:reward_id;type:varchar(36);primaryKey"`
	Name        string    `gorm:"column:name;type:varchar(100);not null"`
	Description string    `gorm:"column:description;type:varchar(255)"`
	PointsCost  int       `gorm:"column:points_cost;not null;check:points_cost > 0"`
	Available   bool      `gorm:"column:available;not null;default:true"`
	ExpiryDays  int       `gorm:"column:expiry_days;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (RewardGORM) TableName() string {
	return "loyalty_rewards"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將 GORM 模型轉換為 Domain 聚合
func (g *LoyaltyAccountGORM) toDomain() (*loyalty.LoyaltyAccount, error) {
	accountID, err := loyalty.AccountIDFromString(g.AccountID)
	if err != nil {
		return nil, err
	}
	return loyalty.ReconstructLoyaltyAccount(accountID, g.CreatedAt, g.UpdatedAt)
}

// accountToGORM 將 Domain 聚合轉換為 GORM 模型
func accountToGORM(account *loyalty.LoyaltyAccount) *LoyaltyAccountGORM {
	return &LoyaltyAccountGORM{
		AccountID: account.AccountID().String(),
		CreatedAt: account.CreatedAt(),
		UpdatedAt: account.UpdatedAt(),
	}
}

// toDomain 將 GORM 模型轉換為 Domain 值對象
//
// Reconstruct 會重新驗證不變條件，損壞資料不會污染領域層
func (g *LedgerEntryGORM) toDomain() (loyalty.LedgerEntry, error) {
	entryID, err := loyalty.EntryIDFromString(g.EntryID)
	if err != nil {
		return loyalty.LedgerEntry{}, err
	}
	accountID, err := loyalty.AccountIDFromString(g.AccountID)
	if err != nil {
		return loyalty.LedgerEntry{}, err
	}
	rewardID := loyalty.RewardID{}
	if g.RewardID != "" {
		rewardID, err = loyalty.RewardIDFromString(g.RewardID)
		if err != nil {
			return loyalty.LedgerEntry{}, err
		}
	}
	return loyalty.ReconstructLedgerEntry(
		entryID, accountID,
		loyalty.EntryType(g.EntryType), g.Points,
		g.Description, g.OccurredAt, rewardID,
	)
}

// entryToGORM 將 Domain 值對象轉換為 GORM 模型
func entryToGORM(entry loyalty.LedgerEntry) *LedgerEntryGORM {
	model := &LedgerEntryGORM{
		EntryID:     entry.EntryID().String(),
		AccountID:   entry.AccountID().String(),
		EntryType:   string(entry.Type()),
		Points:      entry.Points(),
		Description: entry.Description(),
		OccurredAt:  entry.OccurredAt(),
	}
	if entry.HasReward() {
		model.RewardID = entry.RewardID().String()
	}
	return model
}

// toDomain 將 GORM 模型轉換為 Domain 聚合
func (g *RewardGORM) toDomain() (*loyalty.Reward, error) {
	rewardID, err := loyalty.RewardIDFromString(g.RewardID)
	if err != nil {
		return nil, err
	}
	return loyalty.ReconstructReward(
		rewardID, g.Name, g.Description,
		g.PointsCost, g.Available, g.ExpiryDays,
		g.CreatedAt, g.UpdatedAt,
	)
}

// rewardToGORM 將 Domain 聚合轉換為 GORM 模型
func rewardToGORM(reward *loyalty.Reward) *RewardGORM {
	return &RewardGORM{
		RewardID:    reward.RewardID().String(),
		Name:        reward.Name(),
		Description: reward.Description(),
		PointsCost:  reward.PointsCost().Value(),
		Available:   reward.IsAvailable(),
		ExpiryDays:  reward.ExpiryDays(),
		CreatedAt:   reward.CreatedAt(),
		UpdatedAt:   reward.UpdatedAt(),
	}
}
