package loyalty

import (
	"fmt"
	"time"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// AdjustPoints Use Case
// ===========================

// AdjustPointsCommand 手動調整積分的命令
//
// 輸入：
// - AccountID: 帳戶 ID（UUID 字串）
// - Points: 調整量（正 = 補點，負 = 扣點，不可為零）
// - Reason: 調整原因（客服記錄）
type AdjustPointsCommand struct {
	AccountID string
	Points    int
	Reason    string
}

// AdjustPointsResult 手動調整積分的結果
type AdjustPointsResult struct {
	AccountID  string
	Adjusted   int
	NewBalance int
	TierName   string
}

// AdjustPointsUseCase 手動調整積分 Use Case
//
// 使用場景：客服更正（重複入點、漏發積分等）
//
// 業務規則：
// - 更正以新的 adjusted 記錄表達，不修改既有記錄（append-only）
// - 扣點不得使累計餘額為負（由 Ledger.Append 驗證）
type AdjustPointsUseCase struct {
	accountRepo loyalty.AccountRepository
	ledger      loyalty.Ledger
	tierService *loyalty.TierProgressService
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher
	locker      *AccountLocker
}

// NewAdjustPointsUseCase 創建 Use Case 實例
func NewAdjustPointsUseCase(
	accountRepo loyalty.AccountRepository,
	ledger loyalty.Ledger,
	tierService *loyalty.TierProgressService,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	locker *AccountLocker,
) *AdjustPointsUseCase {
	return &AdjustPointsUseCase{
		accountRepo: accountRepo,
		ledger:      ledger,
		tierService: tierService,
		txManager:   txManager,
		publisher:   publisher,
		locker:      locker,
	}
}

// Execute 執行手動調整積分
//
// 錯誤處理：
// - ErrInvalidAccountID: AccountID 格式無效
// - ErrZeroPointsEntry: 調整量為零
// - ErrAccountNotFound: 帳戶不存在
// - ErrNegativeBalance: 扣點會使餘額為負
func (uc *AdjustPointsUseCase) Execute(cmd AdjustPointsCommand) (*AdjustPointsResult, error) {
	// 1. 驗證並轉換 AccountID
	accountID, err := loyalty.AccountIDFromString(cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account ID: %w", err)
	}

	// 2. 取得帳戶鎖
	unlock := uc.locker.Lock(accountID)
	defer unlock()

	// 3. 在事務中執行「讀餘額、再追加」
	var (
		result *AdjustPointsResult
		events []shared.DomainEvent
	)
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if _, err := uc.accountRepo.FindByID(ctx, accountID); err != nil {
			return fmt.Errorf("failed to find account: %w", err)
		}

		balance, err := uc.ledger.BalanceOf(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to read balance: %w", err)
		}

		entry, err := loyalty.NewAdjustedEntry(accountID, cmd.Points, cmd.Reason, time.Now())
		if err != nil {
			return fmt.Errorf("failed to create adjusted entry: %w", err)
		}

		// Append 驗證調整後餘額不為負
		if err := uc.ledger.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append entry: %w", err)
		}

		newBalance := balance.Value() + cmd.Points
		result = &AdjustPointsResult{
			AccountID:  accountID.String(),
			Adjusted:   cmd.Points,
			NewBalance: newBalance,
			TierName:   uc.tierService.Catalog().TierAt(newBalance).Name(),
		}
		events = append(events, loyalty.NewLedgerEntryAppendedEvent(entry, newBalance))
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(uc.publisher, events...)

	return result, nil
}
