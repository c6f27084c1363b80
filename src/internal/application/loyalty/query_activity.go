package loyalty

import (
	"fmt"
	"time"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// QueryActivity Use Case
// ===========================

// QueryActivityQuery 查詢帳戶活動的查詢
//
// 輸入：
// - AccountID: 帳戶 ID（UUID 字串）
// - TypeFilter: 記錄類型過濾（空字串 = 全部類型）
// - SortOrder: "newest_first" 或 "oldest_first"（必填）
// - Limit: 結果上限（0 = 不限制）
type QueryActivityQuery struct {
	AccountID  string
	TypeFilter string
	SortOrder  string
	Limit      int
}

// ActivityEntryDTO 單筆活動記錄
//
// RewardID 只在 Type == "redeemed" 時非空
type ActivityEntryDTO struct {
	EntryID     string
	Type        string
	Points      int
	Description string
	OccurredAt  time.Time
	RewardID    string
}

// QueryActivityResult 查詢帳戶活動的結果
type QueryActivityResult struct {
	AccountID string
	Entries   []ActivityEntryDTO
}

// QueryActivityUseCase 查詢帳戶活動 Use Case
//
// 純讀取：過濾 → 穩定排序 → 截取，帳本本身不被改動。
// 過濾與排序邏輯在 Domain Layer（ApplyActivityQuery），
// Use Case 只負責驗證輸入、載入記錄、轉換 DTO
type QueryActivityUseCase struct {
	accountRepo loyalty.AccountRepository
	ledger      loyalty.Ledger
}

// NewQueryActivityUseCase 創建 Use Case 實例
func NewQueryActivityUseCase(
	accountRepo loyalty.AccountRepository,
	ledger loyalty.Ledger,
) *QueryActivityUseCase {
	return &QueryActivityUseCase{
		accountRepo: accountRepo,
		ledger:      ledger,
	}
}

// Execute 執行查詢帳戶活動
func (uc *QueryActivityUseCase) Execute(query QueryActivityQuery) (*QueryActivityResult, error) {
	return uc.ExecuteWithContext(nil, query)
}

// ExecuteWithContext 在事務上下文中執行查詢
//
// 錯誤處理：
// - ErrInvalidAccountID: AccountID 格式無效
// - ErrInvalidSortOrder / ErrInvalidTypeFilter / ErrInvalidLimit: 選項無效
// - ErrAccountNotFound: 帳戶不存在
func (uc *QueryActivityUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	query QueryActivityQuery,
) (*QueryActivityResult, error) {
	// 1. 驗證並轉換輸入
	accountID, err := loyalty.AccountIDFromString(query.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account ID: %w", err)
	}
	opts := loyalty.ActivityQueryOptions{
		TypeFilter: loyalty.EntryType(query.TypeFilter),
		SortOrder:  loyalty.SortOrder(query.SortOrder),
		Limit:      query.Limit,
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid activity query: %w", err)
	}

	// 2. 確認帳戶存在
	if _, err := uc.accountRepo.FindByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	// 3. 載入完整記錄序列並套用過濾/排序/截取
	entries, err := uc.ledger.EntriesFor(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	filtered, err := loyalty.ApplyActivityQuery(entries, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to apply activity query: %w", err)
	}

	// 4. 轉換為 DTO
	dtos := make([]ActivityEntryDTO, 0, len(filtered))
	for _, entry := range filtered {
		dto := ActivityEntryDTO{
			EntryID:     entry.EntryID().String(),
			Type:        string(entry.Type()),
			Points:      entry.Points(),
			Description: entry.Description(),
			OccurredAt:  entry.OccurredAt(),
		}
		if entry.HasReward() {
			dto.RewardID = entry.RewardID().String()
		}
		dtos = append(dtos, dto)
	}

	return &QueryActivityResult{
		AccountID: accountID.String(),
		Entries:   dtos,
	}, nil
}
