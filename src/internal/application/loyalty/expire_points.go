package loyalty

import (
	"fmt"
	"time"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// ExpirePoints Use Case
// ===========================

// ExpirePointsCommand 積分過期的命令
//
// 輸入：
// - AccountID: 帳戶 ID（UUID 字串）
// - Amount: 過期的積分數量（正整數；記錄以負數寫入帳本）
// - Description: 記錄描述（如「2025 年度積分過期」）
//
// 過期的判定（哪些積分、何時過期）由外部排程負責；
// 核心只負責把過期事實記入帳本
type ExpirePointsCommand struct {
	AccountID   string
	Amount      int
	Description string
}

// ExpirePointsResult 積分過期的結果
type ExpirePointsResult struct {
	AccountID     string
	PointsExpired int
	NewBalance    int
	TierName      string
}

// ExpirePointsUseCase 積分過期 Use Case
type ExpirePointsUseCase struct {
	accountRepo loyalty.AccountRepository
	ledger      loyalty.Ledger
	tierService *loyalty.TierProgressService
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher
	locker      *AccountLocker
}

// NewExpirePointsUseCase 創建 Use Case 實例
func NewExpirePointsUseCase(
	accountRepo loyalty.AccountRepository,
	ledger loyalty.Ledger,
	tierService *loyalty.TierProgressService,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	locker *AccountLocker,
) *ExpirePointsUseCase {
	return &ExpirePointsUseCase{
		accountRepo: accountRepo,
		ledger:      ledger,
		tierService: tierService,
		txManager:   txManager,
		publisher:   publisher,
		locker:      locker,
	}
}

// Execute 執行積分過期
//
// 錯誤處理：
// - ErrInvalidAccountID: AccountID 格式無效
// - ErrNegativePointsAmount: Amount 為負
// - ErrZeroPointsEntry: Amount 為零
// - ErrAccountNotFound: 帳戶不存在
// - ErrNegativeBalance: 過期量超過當前餘額
func (uc *ExpirePointsUseCase) Execute(cmd ExpirePointsCommand) (*ExpirePointsResult, error) {
	// 1. 驗證並轉換輸入
	accountID, err := loyalty.AccountIDFromString(cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account ID: %w", err)
	}
	amount, err := loyalty.NewPointsAmount(cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expired amount: %w", err)
	}

	// 2. 取得帳戶鎖
	unlock := uc.locker.Lock(accountID)
	defer unlock()

	// 3. 在事務中執行「讀餘額、再追加」
	var (
		result *ExpirePointsResult
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

		entry, err := loyalty.NewExpiredEntry(accountID, amount, cmd.Description, time.Now())
		if err != nil {
			return fmt.Errorf("failed to create expired entry: %w", err)
		}
		if err := uc.ledger.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append entry: %w", err)
		}

		newBalance, err := balance.Subtract(amount)
		if err != nil {
			return fmt.Errorf("failed to compute new balance: %w", err)
		}
		result = &ExpirePointsResult{
			AccountID:     accountID.String(),
			PointsExpired: amount.Value(),
			NewBalance:    newBalance.Value(),
			TierName:      uc.tierService.Catalog().TierAt(newBalance.Value()).Name(),
		}
		events = append(events, loyalty.NewLedgerEntryAppendedEvent(entry, newBalance.Value()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(uc.publisher, events...)

	return result, nil
}
