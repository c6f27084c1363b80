package loyalty

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// RedeemReward Use Case
// ===========================

// RedeemRewardCommand 兌換獎勵的命令
//
// 輸入：
// - AccountID: 帳戶 ID（UUID 字串）
// - RewardID: 獎勵 ID（UUID 字串）
type RedeemRewardCommand struct {
	AccountID string
	RewardID  string
}

// RedeemRewardResult 兌換獎勵的決定
//
// 兌換是一個「決定」而非單純的操作：
// - Success == true：已追加 redeemed 記錄，Message 為確認訊息，
//   UpdatedBalance / TierName 反映扣點後的狀態
// - Success == false：帳本未被改動，Message 說明拒絕原因，
//   UpdatedBalance / TierName 反映未變的當前狀態（可取得時）
type RedeemRewardResult struct {
	Success        bool
	Message        string
	UpdatedBalance int
	TierName       string
}

// RedeemRewardUseCase 兌換獎勵 Use Case
//
// 業務規則（檢查順序固定）：
// 1. 帳戶存在？否 → 拒絕（not-found）
// 2. 獎勵存在？否 → 拒絕（not-found）
// 3. 獎勵可用？否 → 拒絕（unavailable，優先於餘額檢查）
// 4. 餘額足夠？否 → 拒絕（insufficient）
// 5. 全部通過 → 追加 points = -cost 的 redeemed 記錄
//
// 不變條件（no double-spend）：
// 資格檢查與追加在同一帳戶鎖 + 同一事務內完成。
// 兩筆針對同一帳戶的併發兌換嚴格串行化——後到者看到的是
// 前者扣點後的餘額，不可能共同透支
//
// 錯誤語意：
// 業務拒絕（not-found / unavailable / insufficient）一律壓平為
// {Success: false, Message}，不返回 error；error 只保留給
// 基礎設施故障（資料庫不可用等）
type RedeemRewardUseCase struct {
	accountRepo loyalty.AccountRepository
	rewardRepo  loyalty.RewardRepository
	ledger      loyalty.Ledger
	tierService *loyalty.TierProgressService
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher
	locker      *AccountLocker
}

// NewRedeemRewardUseCase 創建 Use Case 實例
func NewRedeemRewardUseCase(
	accountRepo loyalty.AccountRepository,
	rewardRepo loyalty.RewardRepository,
	ledger loyalty.Ledger,
	tierService *loyalty.TierProgressService,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	locker *AccountLocker,
) *RedeemRewardUseCase {
	return &RedeemRewardUseCase{
		accountRepo: accountRepo,
		rewardRepo:  rewardRepo,
		ledger:      ledger,
		tierService: tierService,
		txManager:   txManager,
		publisher:   publisher,
		locker:      locker,
	}
}

// declined 構建拒絕決定（帳本未被改動）
func declined(message string, balance int, tierName string) *RedeemRewardResult {
	return &RedeemRewardResult{
		Success:        false,
		Message:        message,
		UpdatedBalance: balance,
		TierName:       tierName,
	}
}

// Execute 執行兌換獎勵
//
// 執行流程：
// 1. 驗證並轉換 AccountID / RewardID（格式錯誤 → 拒絕）
// 2. 取得帳戶鎖
// 3. 在事務中：帳戶 → 獎勵 → 可用性 → 餘額 → 追加 redeemed 記錄
// 4. 事務提交後發布 reward_redeemed 事件
//
// 返回：
// - result: 兌換決定（接受或拒絕）
// - error: 僅在基礎設施故障時非 nil
func (uc *RedeemRewardUseCase) Execute(cmd RedeemRewardCommand) (*RedeemRewardResult, error) {
	// 1. 驗證並轉換輸入（格式錯誤視為業務拒絕，不是系統故障）
	accountID, err := loyalty.AccountIDFromString(cmd.AccountID)
	if err != nil {
		return declined("無效的帳戶 ID", 0, ""), nil
	}
	rewardID, err := loyalty.RewardIDFromString(cmd.RewardID)
	if err != nil {
		return declined("無效的獎勵 ID", 0, ""), nil
	}

	// 2. 取得帳戶鎖（資格檢查到追加之間不允許其他寫操作插入）
	unlock := uc.locker.Lock(accountID)
	defer unlock()

	// 3. 在事務中執行資格檢查與追加
	var (
		result *RedeemRewardResult
		events []shared.DomainEvent
	)
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		// 檢查 1：帳戶存在
		if _, err := uc.accountRepo.FindByID(ctx, accountID); err != nil {
			if errors.Is(err, loyalty.ErrAccountNotFound) {
				result = declined("找不到積分帳戶", 0, "")
				return nil
			}
			return fmt.Errorf("failed to find account: %w", err)
		}

		// 讀取帳本推導的餘額（拒絕訊息與後續檢查都需要）
		balance, err := uc.ledger.BalanceOf(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to read balance: %w", err)
		}
		currentTier := uc.tierService.Catalog().TierAt(balance.Value())

		// 檢查 2：獎勵存在
		reward, err := uc.rewardRepo.FindByID(ctx, rewardID)
		if err != nil {
			if errors.Is(err, loyalty.ErrRewardNotFound) {
				result = declined("找不到此獎勵", balance.Value(), currentTier.Name())
				return nil
			}
			return fmt.Errorf("failed to find reward: %w", err)
		}

		// 檢查 3 + 4：可用性優先於餘額
		if err := reward.CheckRedeemableWith(balance); err != nil {
			switch {
			case errors.Is(err, loyalty.ErrRewardUnavailable):
				result = declined(
					fmt.Sprintf("「%s」目前無法兌換", reward.Name()),
					balance.Value(), currentTier.Name(),
				)
			case errors.Is(err, loyalty.ErrInsufficientPoints):
				result = declined(
					fmt.Sprintf("積分不足：兌換「%s」需要 %d 點，目前剩 %d 點",
						reward.Name(), reward.PointsCost().Value(), balance.Value()),
					balance.Value(), currentTier.Name(),
				)
			default:
				return fmt.Errorf("failed to check redeemability: %w", err)
			}
			return nil
		}

		// 全部通過：追加 points = -cost 的 redeemed 記錄
		entry, err := loyalty.NewRedeemedEntry(
			accountID, rewardID, reward.PointsCost(),
			fmt.Sprintf("兌換「%s」", reward.Name()), time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to create redeemed entry: %w", err)
		}
		if err := uc.ledger.Append(ctx, entry); err != nil {
			// 資格檢查已保證餘額足夠；此處的負餘額錯誤代表狀態異常
			return fmt.Errorf("failed to append entry: %w", err)
		}

		// 扣點後重新解析等級（兌換可能導致降級顯示）
		newBalance, err := balance.Subtract(reward.PointsCost())
		if err != nil {
			return fmt.Errorf("failed to compute new balance: %w", err)
		}
		newTier := uc.tierService.Catalog().TierAt(newBalance.Value())

		result = &RedeemRewardResult{
			Success: true,
			Message: fmt.Sprintf("成功兌換「%s」，已扣除 %d 點",
				reward.Name(), reward.PointsCost().Value()),
			UpdatedBalance: newBalance.Value(),
			TierName:       newTier.Name(),
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
