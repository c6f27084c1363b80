package loyalty

import (
	"time"
)

// ===========================
// Reward 獎勵目錄項目
// ===========================

// Reward 獎勵目錄項目
//
// 關係：一次兌換恰好產生一筆 type = redeemed 的帳本記錄，
// 並引用此獎勵的 ID
type Reward struct {
	rewardID    RewardID
	name        string
	description string
	pointsCost  PointsAmount
	available   bool
	expiryDays  int // 兌換後的有效天數；0 表示無期限
	createdAt   time.Time
	updatedAt   time.Time
}

// NewReward 建構函數
//
// 建構約束：
// - name 不能為空
// - pointsCost 必須 > 0（免費獎勵不經過積分帳本）
// - expiryDays >= 0（0 表示無期限）
func NewReward(
	name string,
	description string,
	pointsCost PointsAmount,
	available bool,
	expiryDays int,
) (*Reward, error) {
	if name == "" {
		return nil, ErrInvalidReward.WithContext(
			"reason", "name cannot be empty",
		)
	}
	if pointsCost.Value() <= 0 {
		return nil, ErrInvalidReward.WithContext(
			"name", name,
			"reason", "points cost must be positive",
			"points_cost", pointsCost.Value(),
		)
	}
	if expiryDays < 0 {
		return nil, ErrInvalidReward.WithContext(
			"name", name,
			"reason", "expiry days cannot be negative",
			"expiry_days", expiryDays,
		)
	}

	now := time.Now()
	return &Reward{
		rewardID:    NewRewardID(),
		name:        name,
		description: description,
		pointsCost:  pointsCost,
		available:   available,
		expiryDays:  expiryDays,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructReward 從持久化存儲重建獎勵
//
// 僅供 Repository 使用；重建時同樣驗證建構約束
func ReconstructReward(
	rewardID RewardID,
	name string,
	description string,
	pointsCost int,
	available bool,
	expiryDays int,
	createdAt time.Time,
	updatedAt time.Time,
) (*Reward, error) {
	if rewardID.IsEmpty() {
		return nil, ErrInvalidRewardID.WithContext(
			"reason", "invalid reward ID in database",
		)
	}
	cost, err := NewPointsAmount(pointsCost)
	if err != nil {
		return nil, err
	}
	reward, err := NewReward(name, description, cost, available, expiryDays)
	if err != nil {
		return nil, err
	}
	reward.rewardID = rewardID
	reward.createdAt = createdAt
	reward.updatedAt = updatedAt
	return reward, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// RewardID 獲取獎勵 ID
func (r *Reward) RewardID() RewardID {
	return r.rewardID
}

// Name 獲取獎勵名稱
func (r *Reward) Name() string {
	return r.name
}

// Description 獲取獎勵描述
func (r *Reward) Description() string {
	return r.description
}

// PointsCost 獲取兌換所需積分
func (r *Reward) PointsCost() PointsAmount {
	return r.pointsCost
}

// IsAvailable 判斷獎勵目前是否可兌換
func (r *Reward) IsAvailable() bool {
	return r.available
}

// ExpiryDays 獲取兌換後的有效天數（0 表示無期限）
func (r *Reward) ExpiryDays() int {
	return r.expiryDays
}

// CreatedAt 獲取創建時間
func (r *Reward) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt 獲取最後更新時間
func (r *Reward) UpdatedAt() time.Time {
	return r.updatedAt
}

// ===========================
// 業務方法
// ===========================

// CheckRedeemableWith 檢查此獎勵是否能以給定餘額兌換
//
// 檢查順序：
// 1. 獎勵下架 → ErrRewardUnavailable
// 2. 餘額不足 → ErrInsufficientPoints
//
// Tell, Don't Ask：兌換資格的判斷封裝在獎勵本身，
// 呼叫端不需讀取 available / pointsCost 自行比較
func (r *Reward) CheckRedeemableWith(balance PointsAmount) error {
	if !r.available {
		return ErrRewardUnavailable.WithContext(
			"reward_id", r.rewardID.String(),
			"reward_name", r.name,
		)
	}
	if balance.LessThan(r.pointsCost) {
		return ErrInsufficientPoints.WithContext(
			"reward_id", r.rewardID.String(),
			"required", r.pointsCost.Value(),
			"available", balance.Value(),
		)
	}
	return nil
}
