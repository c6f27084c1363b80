package loyalty

import (
	"fmt"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// ListAvailableRewards Use Case
// ===========================

// ListAvailableRewardsQuery 查詢可兌換獎勵清單的查詢
//
// AccountID 可選：提供時，結果額外標記每個獎勵目前是否兌換得起
type ListAvailableRewardsQuery struct {
	AccountID string
}

// RewardDTO 單個獎勵項目
type RewardDTO struct {
	RewardID    string
	Name        string
	Description string
	PointsCost  int
	ExpiryDays  int
	Affordable  bool // 僅在查詢帶 AccountID 時有意義
}

// ListAvailableRewardsResult 查詢可兌換獎勵清單的結果
type ListAvailableRewardsResult struct {
	Rewards []RewardDTO
}

// ListAvailableRewardsUseCase 查詢可兌換獎勵清單 Use Case
//
// 使用場景：店面的獎勵目錄頁——列出上架獎勵，
// 並標記當前帳戶兌換得起哪些
type ListAvailableRewardsUseCase struct {
	rewardRepo loyalty.RewardRepository
	ledger     loyalty.Ledger
}

// NewListAvailableRewardsUseCase 創建 Use Case 實例
func NewListAvailableRewardsUseCase(
	rewardRepo loyalty.RewardRepository,
	ledger loyalty.Ledger,
) *ListAvailableRewardsUseCase {
	return &ListAvailableRewardsUseCase{
		rewardRepo: rewardRepo,
		ledger:     ledger,
	}
}

// Execute 執行查詢可兌換獎勵清單
func (uc *ListAvailableRewardsUseCase) Execute(query ListAvailableRewardsQuery) (*ListAvailableRewardsResult, error) {
	return uc.ExecuteWithContext(nil, query)
}

// ExecuteWithContext 在事務上下文中執行查詢
func (uc *ListAvailableRewardsUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	query ListAvailableRewardsQuery,
) (*ListAvailableRewardsResult, error) {
	// 1. 載入上架獎勵
	rewards, err := uc.rewardRepo.FindAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load available rewards: %w", err)
	}

	// 2. 可選：讀取帳戶餘額以標記兌換能力
	balance := loyalty.PointsAmount{}
	hasBalance := false
	if query.AccountID != "" {
		accountID, err := loyalty.AccountIDFromString(query.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse account ID: %w", err)
		}
		balance, err = uc.ledger.BalanceOf(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to read balance: %w", err)
		}
		hasBalance = true
	}

	// 3. 轉換為 DTO
	dtos := make([]RewardDTO, 0, len(rewards))
	for _, reward := range rewards {
		dtos = append(dtos, RewardDTO{
			RewardID:    reward.RewardID().String(),
			Name:        reward.Name(),
			Description: reward.Description(),
			PointsCost:  reward.PointsCost().Value(),
			ExpiryDays:  reward.ExpiryDays(),
			Affordable:  hasBalance && balance.GreaterThanOrEqual(reward.PointsCost()),
		})
	}

	return &ListAvailableRewardsResult{Rewards: dtos}, nil
}
