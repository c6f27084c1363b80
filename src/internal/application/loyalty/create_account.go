package loyalty

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// ===========================
// CreateLoyaltyAccount Use Case
// ===========================

// CreateLoyaltyAccountCommand 創建積分帳戶的命令
//
// 輸入為空：AccountID 由核心生成（UUID），
// 呼叫端（身份系統）負責保存返回的 AccountID 與其用戶的對應關係
type CreateLoyaltyAccountCommand struct{}

// CreateLoyaltyAccountResult 創建積分帳戶的結果
//
// 輸出：
// - AccountID: 新創建的帳戶 ID
// - InitialBalance: 初始餘額（永遠為 0，帳本尚無記錄）
// - TierName: 初始等級（目錄的最低等級）
// - CreatedAt: 創建時間
type CreateLoyaltyAccountResult struct {
	AccountID      string
	InitialBalance int
	TierName       string
	CreatedAt      time.Time
}

// CreateLoyaltyAccountUseCase 創建積分帳戶 Use Case
//
// 職責：
// 1. 創建新的積分帳戶聚合
// 2. 在事務中保存到 Repository
// 3. 發布 AccountCreated 事件（提交後）
//
// 設計原則：
// - 依賴倒置：依賴 Repository 介面和 TransactionManager 介面
// - 並發安全：依賴資料庫唯一約束，而非 check-then-insert
type CreateLoyaltyAccountUseCase struct {
	accountRepo loyalty.AccountRepository
	tierService *loyalty.TierProgressService
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher
}

// NewCreateLoyaltyAccountUseCase 創建 Use Case 實例
// publisher 可為 nil（不需要事件通知的場景）
func NewCreateLoyaltyAccountUseCase(
	accountRepo loyalty.AccountRepository,
	tierService *loyalty.TierProgressService,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
) *CreateLoyaltyAccountUseCase {
	return &CreateLoyaltyAccountUseCase{
		accountRepo: accountRepo,
		tierService: tierService,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// Execute 執行創建積分帳戶
//
// 執行流程：
// 1. 創建新帳戶（Domain 聚合）
// 2. 在事務中保存到 Repository
// 3. 事務提交後發布事件
//
// 錯誤處理：
// - ErrAccountAlreadyExists: AccountID 碰撞（由資料庫唯一約束保證，實務上不會發生）
// - 其他 Repository 錯誤：添加上下文後返回
func (uc *CreateLoyaltyAccountUseCase) Execute(_ CreateLoyaltyAccountCommand) (*CreateLoyaltyAccountResult, error) {
	// 1. 創建新的積分帳戶（Domain Layer）
	account := loyalty.NewLoyaltyAccount()

	// 2. 在事務中保存到 Repository
	err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := uc.accountRepo.Save(ctx, account); err != nil {
			if errors.Is(err, loyalty.ErrAccountAlreadyExists) {
				return fmt.Errorf("account ID collision: %w", err)
			}
			return fmt.Errorf("failed to save account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. 事務提交後發布事件
	publishEvents(uc.publisher, account.PullEvents()...)

	// 新帳戶餘額為 0，等級為目錄最低等級
	return &CreateLoyaltyAccountResult{
		AccountID:      account.AccountID().String(),
		InitialBalance: 0,
		TierName:       uc.tierService.Catalog().Lowest().Name(),
		CreatedAt:      account.CreatedAt(),
	}, nil
}
