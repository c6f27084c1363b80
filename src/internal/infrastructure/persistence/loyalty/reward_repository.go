package loyalty

import (
	"errors"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// RewardRepositoryImpl
// ===========================

// RewardRepositoryImpl 獎勵目錄倉儲實現（GORM）
//
// 獎勵目錄由外部目錄協作者維護；此倉儲供核心讀取，
// Save 供目錄同步與測試使用
type RewardRepositoryImpl struct {
	db *gorm.DB
}

// NewRewardRepository 創建新的獎勵目錄倉儲實例
func NewRewardRepository(db *gorm.DB) loyalty.RewardRepository {
	return &RewardRepositoryImpl{db: db}
}

// Save 保存獎勵目錄項目（Upsert：存在則更新，不存在則新增）
//
// 注意：使用 Save 而非 Updates，因為 Available 可能降為 false（零值），
// Updates 會忽略零值字段
func (r *RewardRepositoryImpl) Save(ctx shared.TransactionContext, reward *loyalty.Reward) error {
	db := r.getDB(ctx)

	result := db.Save(rewardToGORM(reward))
	return result.Error
}

// FindByID 根據獎勵 ID 查找獎勵
//
// 錯誤處理：
// - gorm.ErrRecordNotFound → loyalty.ErrRewardNotFound
// - 其他資料庫錯誤 → 原始錯誤
func (r *RewardRepositoryImpl) FindByID(ctx shared.TransactionContext, rewardID loyalty.RewardID) (*loyalty.Reward, error) {
	db := r.getDB(ctx)

	var gormModel RewardGORM
	result := db.Where("reward_id = ?", rewardID.String()).First(&gormModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, loyalty.ErrRewardNotFound.WithContext(
				"reward_id", rewardID.String(),
			)
		}
		return nil, result.Error
	}

	return gormModel.toDomain()
}

// FindAvailable 返回目前可兌換的獎勵清單（依成本由低到高）
func (r *RewardRepositoryImpl) FindAvailable(ctx shared.TransactionContext) ([]*loyalty.Reward, error) {
	db := r.getDB(ctx)

	var gormModels []RewardGORM
	result := db.
		Where("available = ?", true).
		Order("points_cost ASC").
		Find(&gormModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rewards := make([]*loyalty.Reward, 0, len(gormModels))
	for i := range gormModels {
		reward, err := gormModels[i].toDomain()
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, nil
}

// getDB 獲取 GORM DB 實例（ctx == nil 時使用 auto-commit 模式）
func (r *RewardRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if ctx != nil {
		if txCtx, ok := ctx.(gormTransactionContext); ok {
			return txCtx.GetDB()
		}
	}
	return r.db
}
