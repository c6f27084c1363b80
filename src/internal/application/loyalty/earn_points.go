package loyalty

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// EarnPoints Use Case
// ===========================

// EarnPointsCommand 消費累積積分的命令
//
// 輸入：
// - AccountID: 帳戶 ID（UUID 字串）
// - PurchaseAmount: 消費金額（十進位字串，如 "99.90"）
// - Description: 記錄描述（如訂單編號）
type EarnPointsCommand struct {
	AccountID      string
	PurchaseAmount string
	Description    string
}

// EarnPointsResult 消費累積積分的結果
type EarnPointsResult struct {
	AccountID    string
	PointsEarned int
	NewBalance   int
	TierName     string
}

// EarnPointsUseCase 消費累積積分 Use Case
//
// 業務規則：
// - 積分 = floor(消費金額 × 當前等級倍率)
// - 倍率取自「消費當下」的等級（以帳本推導的餘額解析）
// - 計算結果為 0 時不追加任何記錄（帳本不存零積分記錄）
//
// 並發紀律：
// 持帳戶鎖讀取餘額（決定倍率）並追加記錄，
// 與同帳戶的兌換/調整操作嚴格串行化
type EarnPointsUseCase struct {
	accountRepo loyalty.AccountRepository
	ledger      loyalty.Ledger
	tierService *loyalty.TierProgressService
	calcService *loyalty.PointsCalculationService
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher
	locker      *AccountLocker
}

// NewEarnPointsUseCase 創建 Use Case 實例
//
// locker 應與同帳戶的其他寫操作 Use Case 共用同一實例，
// 否則無法保證跨 Use Case 的串行化
func NewEarnPointsUseCase(
	accountRepo loyalty.AccountRepository,
	ledger loyalty.Ledger,
	tierService *loyalty.TierProgressService,
	calcService *loyalty.PointsCalculationService,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	locker *AccountLocker,
) *EarnPointsUseCase {
	return &EarnPointsUseCase{
		accountRepo: accountRepo,
		ledger:      ledger,
		tierService: tierService,
		calcService: calcService,
		txManager:   txManager,
		publisher:   publisher,
		locker:      locker,
	}
}

// Execute 執行消費累積積分
//
// 執行流程：
// 1. 驗證並轉換 AccountID 與消費金額
// 2. 取得帳戶鎖
// 3. 在事務中：確認帳戶存在 → 讀餘額 → 解析等級倍率 → 計算積分 → 追加記錄
// 4. 事務提交後發布 points_earned 事件
//
// 錯誤處理：
// - ErrInvalidAccountID: AccountID 格式無效
// - ErrAccountNotFound: 帳戶不存在
// - 其他 Repository 錯誤：添加上下文後返回
func (uc *EarnPointsUseCase) Execute(cmd EarnPointsCommand) (*EarnPointsResult, error) {
	// 1. 驗證並轉換輸入
	accountID, err := loyalty.AccountIDFromString(cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account ID: %w", err)
	}

	amount, err := decimal.NewFromString(cmd.PurchaseAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse purchase amount %q: %w", cmd.PurchaseAmount, err)
	}

	// 2. 取得帳戶鎖（與同帳戶的其他寫操作串行化）
	unlock := uc.locker.Lock(accountID)
	defer unlock()

	// 3. 在事務中執行「讀餘額、再追加」
	var (
		result *EarnPointsResult
		events []shared.DomainEvent
	)
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		// 確認帳戶存在
		if _, err := uc.accountRepo.FindByID(ctx, accountID); err != nil {
			return fmt.Errorf("failed to find account: %w", err)
		}

		// 讀取帳本推導的餘額
		balance, err := uc.ledger.BalanceOf(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to read balance: %w", err)
		}

		// 以「消費當下」的等級倍率計算積分
		tier := uc.tierService.Catalog().TierAt(balance.Value())
		earned, err := uc.calcService.CalculateFromAmount(amount, tier.Multiplier())
		if err != nil {
			return fmt.Errorf("failed to calculate points: %w", err)
		}

		// 零積分：不追加記錄，直接返回當前狀態
		if earned.Value() == 0 {
			result = &EarnPointsResult{
				AccountID:    accountID.String(),
				PointsEarned: 0,
				NewBalance:   balance.Value(),
				TierName:     tier.Name(),
			}
			return nil
		}

		// 追加 earned 記錄
		entry, err := loyalty.NewEarnedEntry(accountID, earned, cmd.Description, time.Now())
		if err != nil {
			return fmt.Errorf("failed to create earned entry: %w", err)
		}
		if err := uc.ledger.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append entry: %w", err)
		}

		newBalance := balance.Add(earned)
		result = &EarnPointsResult{
			AccountID:    accountID.String(),
			PointsEarned: earned.Value(),
			NewBalance:   newBalance.Value(),
			TierName:     uc.tierService.Catalog().TierAt(newBalance.Value()).Name(),
		}
		events = append(events, loyalty.NewLedgerEntryAppendedEvent(entry, newBalance.Value()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. 事務提交後發布事件
	publishEvents(uc.publisher, events...)

	return result, nil
}
