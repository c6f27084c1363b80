package loyalty

import (
	"fmt"
	"sync"
	"testing"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedeemRewardUseCase 組裝被測 Use Case 與其 mock 依賴
func newRedeemRewardUseCase() (
	*RedeemRewardUseCase,
	*MockAccountRepository,
	*MockRewardRepository,
	*MockLedger,
	*MockTransactionManager,
	*MockEventPublisher,
) {
	accountRepo := NewMockAccountRepository()
	rewardRepo := NewMockRewardRepository()
	ledger := NewMockLedger()
	txManager := NewMockTransactionManager()
	publisher := NewMockEventPublisher()
	tierService := loyalty.NewTierProgressService(loyalty.DefaultTierCatalog())
	useCase := NewRedeemRewardUseCase(
		accountRepo, rewardRepo, ledger, tierService,
		txManager, publisher, NewAccountLocker(),
	)
	return useCase, accountRepo, rewardRepo, ledger, txManager, publisher
}

// Test 1: 成功兌換：追加負數記錄、返回扣點後餘額與等級
func TestRedeemRewardUseCase_Success(t *testing.T) {
	// Arrange
	useCase, accountRepo, rewardRepo, ledger, _, publisher := newRedeemRewardUseCase()
	account := seedAccount(t, accountRepo)
	seedEarned(t, ledger, account.AccountID(), 600) // Silver（500 門檻）
	reward := seedReward(t, rewardRepo, "九折折扣券", 300, true)

	// Act
	result, err := useCase.Execute(RedeemRewardCommand{
		AccountID: account.AccountID().String(),
		RewardID:  reward.RewardID().String(),
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "九折折扣券")
	assert.Equal(t, 300, result.UpdatedBalance)
	assert.Equal(t, "Bronze", result.TierName, "扣點後餘額 300 降回 Bronze 顯示")

	// 帳本追加了一筆 points = -cost 的 redeemed 記錄
	entries, _ := ledger.EntriesFor(nil, account.AccountID())
	require.Len(t, entries, 2)
	assert.Equal(t, loyalty.EntryTypeRedeemed, entries[1].Type())
	assert.Equal(t, -300, entries[1].Points())
	assert.True(t, entries[1].RewardID().Equals(reward.RewardID()))

	// 事務提交後發布 reward_redeemed 事件
	assert.Equal(t, []string{"loyalty.reward_redeemed"}, publisher.EventTypes())
}

// Test 2: 帳戶不存在 → 拒絕（不返回 error）
func TestRedeemRewardUseCase_AccountNotFound_Declines(t *testing.T) {
	// Arrange
	useCase, _, rewardRepo, ledger, _, _ := newRedeemRewardUseCase()
	reward := seedReward(t, rewardRepo, "折扣券", 100, true)

	// Act
	result, err := useCase.Execute(RedeemRewardCommand{
		AccountID: loyalty.NewAccountID().String(),
		RewardID:  reward.RewardID().String(),
	})

	// Assert - 業務拒絕壓平為決定，不是 error
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "找不到積分帳戶")
	assert.Equal(t, 0, ledger.AppendCallCount, "帳本不應被改動")
}

// Test 3: 獎勵不存在 → 拒絕
func TestRedeemRewardUseCase_RewardNotFound_Declines(t *testing.T) {
	// Arrange
	useCase, accountRepo, _, ledger, _, _ := newRedeemRewardUseCase()
	account := seedAccount(t, accountRepo)
	seedEarned(t, ledger, account.AccountID(), 500)

	// Act
	result, err := useCase.Execute(RedeemRewardCommand{
		AccountID: account.AccountID().String(),
		RewardID:  loyalty.NewRewardID().String(),
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "找不到此獎勵")
	assert.Equal(t, 500, result.UpdatedBalance, "餘額未變")
	assert.Equal(t, 0, ledger.AppendCallCount)
}

// Test 4: 下架獎勵 → 拒絕（可用性優先於餘額檢查）
func TestRedeemRewardUseCase_RewardUnavailable_Declines(t *testing.T) {
	// Arrange - 餘額不足「且」獎勵下架：必須報 unavailable
	useCase, accountRepo, rewardRepo, ledger, _, _ := newRedeemRewardUseCase()
	account := seedAccount(t, accountRepo)
	seedEarned(t, ledger, account.AccountID(), 100)
	reward := seedReward(t, rewardRepo, "絕版贈品", 300, false)

	// Act
	result, err := useCase.Execute(RedeemRewardCommand{
		AccountID: account.AccountID().String(),
		RewardID:  reward.RewardID().String(),
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "無法兌換")
	assert.NotContains(t, result.Message, "積分不足")
	assert.Equal(t, 0, ledger.AppendCallCount)
}

// Test 5: 餘額不足 → 拒絕，訊息含需要/剩餘點數
func TestRedeemRewardUseCase_InsufficientBalance_Declines(t *testing.T) {
	// Arrange
	useCase, accountRepo, rewardRepo, ledger, _, _ := newRedeemRewardUseCase()
	account := seedAccount(t, accountRepo)
	seedEarned(t, ledger, account.AccountID(), 250)
	reward := seedReward(t, rewardRepo, "折扣券", 300, true)

	// Act
	result, err := useCase.Execute(RedeemRewardCommand{
		AccountID: account.AccountID().String(),
		RewardID:  reward.RewardID().String(),
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "積分不足")
	assert.Contains(t, result.Message, "300")
	assert.Contains(t, result.Message, "250")
	assert.Equal(t, 250, result.UpdatedBalance, "餘額未變")
	assert.Equal(t, 0, ledger.AppendCallCount)
}

// Test 6: 餘額剛好等於成本 → 成功，餘額歸零
func TestRedeemRewardUseCase_ExactBalance_Success(t *testing.T) {
	// Arrange
	useCase, accountRepo, rewardRepo, ledger, _, _ := newRedeemRewardUseCase()
	account := seedAccount(t, accountRepo)
	seedEarned(t, ledger, account.AccountID(), 300)
	reward := seedReward(t, rewardRepo, "折扣券", 300, true)

	// Act
	result, err := useCase.Execute(RedeemRewardCommand{
		AccountID: account.AccountID().String(),
		RewardID:  reward.RewardID().String(),
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.UpdatedBalance)
}

// Test 7: 無效 ID 格式 → 拒絕（不返回 error）
func TestRedeemRewardUseCase_InvalidIDs_Decline(t *testing.T) {
	// Arrange
	useCase, _, _, _, txManager, _ := newRedeemRewardUseCase()

	// Act
	result, err := useCase.Execute(RedeemRewardCommand{
		AccountID: "not-a-uuid",
		RewardID:  loyalty.NewRewardID().String(),
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 0, txManager.InTransactionCallCount, "格式錯誤提前拒絕，不開啟事務")
}

// Test 8: 基礎設施故障 → 返回 error（不是拒絕決定）
func TestRedeemRewardUseCase_InfrastructureFailure_ReturnsError(t *testing.T) {
	// Arrange
	useCase, accountRepo, rewardRepo, ledger, txManager, _ := newRedeemRewardUseCase()
	account := seedAccount(t, accountRepo)
	seedEarned(t, ledger, account.AccountID(), 500)
	reward := seedReward(t, rewardRepo, "折扣券", 300, true)
	txManager.ShouldFail = true
	txManager.FailError = fmt.Errorf("database unavailable")

	// Act
	result, err := useCase.Execute(RedeemRewardCommand{
		AccountID: account.AccountID().String(),
		RewardID:  reward.RewardID().String(),
	})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
}

// Test 9: 併發兌換不可共同透支（no double-spend）
//
// 場景：餘額 500，獎勵成本 300。兩筆併發兌換最多只有一筆成功——
// 帳戶鎖保證「讀餘額、再追加」串行化，後到者看到的是扣點後的 200
func TestRedeemRewardUseCase_ConcurrentRedemptions_NoDoubleSpend(t *testing.T) {
	// Arrange
	useCase, accountRepo, rewardRepo, ledger, _, _ := newRedeemRewardUseCase()
	account := seedAccount(t, accountRepo)
	seedEarned(t, ledger, account.AccountID(), 500)
	reward := seedReward(t, rewardRepo, "折扣券", 300, true)

	cmd := RedeemRewardCommand{
		AccountID: account.AccountID().String(),
		RewardID:  reward.RewardID().String(),
	}

	// Act - 兩筆併發兌換
	var wg sync.WaitGroup
	results := make([]*RedeemRewardResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := useCase.Execute(cmd)
			require.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	// Assert - 恰好一筆成功
	successCount := 0
	for _, result := range results {
		if result.Success {
			successCount++
		}
	}
	assert.Equal(t, 1, successCount, "兩筆併發兌換恰好一筆成功")

	// 最終餘額 200，帳本恰好一筆 redeemed 記錄
	balance, err := ledger.BalanceOf(nil, account.AccountID())
	require.NoError(t, err)
	assert.Equal(t, 200, balance.Value())

	entries, _ := ledger.EntriesFor(nil, account.AccountID())
	redeemedCount := 0
	for _, entry := range entries {
		if entry.Type() == loyalty.EntryTypeRedeemed {
			redeemedCount++
		}
	}
	assert.Equal(t, 1, redeemedCount)
}
