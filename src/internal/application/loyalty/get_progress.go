package loyalty

import (
	"fmt"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// GetTierProgress Use Case
// ===========================

// GetTierProgressQuery 查詢等級進度的查詢
type GetTierProgressQuery struct {
	AccountID string
}

// GetTierProgressResult 查詢等級進度的結果
//
// 輸出（店面帳戶頁所需的完整快照）：
// - Balance: 帳本推導的當前餘額
// - TierName / TierColor / Multiplier: 當前等級資訊
// - HasNextTier == false 時：NextTierName 為空、PointsToNext = 0、
//   ProgressPercent = 100（終點等級）
type GetTierProgressResult struct {
	AccountID       string
	Balance         int
	TierName        string
	TierColor       string
	Multiplier      string
	HasNextTier     bool
	NextTierName    string
	PointsToNext    int
	ProgressPercent int
}

// GetTierProgressUseCase 查詢等級進度 Use Case
//
// 等級是餘額的純函數：每次查詢都以帳本推導的餘額重新解析，
// 不做快取，兌換扣點後的下一次查詢立即反映可能的降級顯示
type GetTierProgressUseCase struct {
	accountRepo loyalty.AccountRepository
	ledger      loyalty.Ledger
	tierService *loyalty.TierProgressService
}

// NewGetTierProgressUseCase 創建 Use Case 實例
func NewGetTierProgressUseCase(
	accountRepo loyalty.AccountRepository,
	ledger loyalty.Ledger,
	tierService *loyalty.TierProgressService,
) *GetTierProgressUseCase {
	return &GetTierProgressUseCase{
		accountRepo: accountRepo,
		ledger:      ledger,
		tierService: tierService,
	}
}

// Execute 執行查詢等級進度
func (uc *GetTierProgressUseCase) Execute(query GetTierProgressQuery) (*GetTierProgressResult, error) {
	return uc.ExecuteWithContext(nil, query)
}

// ExecuteWithContext 在事務上下文中執行查詢
//
// 使用場景：
// - 在已有事務中查詢（與其他操作組合）
// - 獨立查詢時可傳入 nil（不需要事務）
//
// 錯誤處理：
// - ErrInvalidAccountID: AccountID 格式無效
// - ErrAccountNotFound: 帳戶不存在
func (uc *GetTierProgressUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	query GetTierProgressQuery,
) (*GetTierProgressResult, error) {
	// 1. 驗證並轉換 AccountID
	accountID, err := loyalty.AccountIDFromString(query.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account ID: %w", err)
	}

	// 2. 確認帳戶存在
	if _, err := uc.accountRepo.FindByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	// 3. 讀取帳本推導的餘額並解析進度
	balance, err := uc.ledger.BalanceOf(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	progress := uc.tierService.ResolveProgress(balance)

	// 4. 構建結果
	result := &GetTierProgressResult{
		AccountID:       accountID.String(),
		Balance:         balance.Value(),
		TierName:        progress.CurrentTier.Name(),
		TierColor:       progress.CurrentTier.Color(),
		Multiplier:      progress.CurrentTier.Multiplier().String(),
		HasNextTier:     progress.HasNext,
		PointsToNext:    progress.PointsToNext,
		ProgressPercent: progress.ProgressPercent,
	}
	if progress.HasNext {
		result.NextTierName = progress.NextTier.Name()
	}
	return result, nil
}
