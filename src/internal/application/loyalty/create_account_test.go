package loyalty

import (
	"testing"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCreateAccountUseCase 組裝被測 Use Case 與其 mock 依賴
func newCreateAccountUseCase() (
	*CreateLoyaltyAccountUseCase,
	*MockAccountRepository,
	*MockTransactionManager,
	*MockEventPublisher,
) {
	accountRepo := NewMockAccountRepository()
	txManager := NewMockTransactionManager()
	publisher := NewMockEventPublisher()
	tierService := loyalty.NewTierProgressService(loyalty.DefaultTierCatalog())
	useCase := NewCreateLoyaltyAccountUseCase(accountRepo, tierService, txManager, publisher)
	return useCase, accountRepo, txManager, publisher
}

// Test 1: 成功創建積分帳戶
func TestCreateLoyaltyAccountUseCase_Success(t *testing.T) {
	// Arrange
	useCase, accountRepo, txManager, _ := newCreateAccountUseCase()

	// Act
	result, err := useCase.Execute(CreateLoyaltyAccountCommand{})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccountID)
	assert.Equal(t, 0, result.InitialBalance)
	assert.Equal(t, "Bronze", result.TierName, "初始等級是目錄的最低等級")
	assert.False(t, result.CreatedAt.IsZero())

	assert.Equal(t, 1, accountRepo.SaveCallCount)
	assert.Equal(t, 1, txManager.InTransactionCallCount)
}

// Test 2: 每次創建產生不同的 AccountID
func TestCreateLoyaltyAccountUseCase_GeneratesUniqueIDs(t *testing.T) {
	// Arrange
	useCase, _, _, _ := newCreateAccountUseCase()

	// Act
	result1, err1 := useCase.Execute(CreateLoyaltyAccountCommand{})
	result2, err2 := useCase.Execute(CreateLoyaltyAccountCommand{})

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, result1.AccountID, result2.AccountID)
}

// Test 3: 事務提交後發布 account_created 事件
func TestCreateLoyaltyAccountUseCase_PublishesAccountCreatedEvent(t *testing.T) {
	// Arrange
	useCase, _, _, publisher := newCreateAccountUseCase()

	// Act
	result, err := useCase.Execute(CreateLoyaltyAccountCommand{})

	// Assert
	require.NoError(t, err)
	require.Len(t, publisher.Published, 1)
	assert.Equal(t, "loyalty.account_created", publisher.Published[0].EventType())
	assert.Equal(t, result.AccountID, publisher.Published[0].AggregateID())
}

// Test 4: 事務失敗 → error，不發布事件
func TestCreateLoyaltyAccountUseCase_TransactionFails_NoEventPublished(t *testing.T) {
	// Arrange
	useCase, _, txManager, publisher := newCreateAccountUseCase()
	txManager.ShouldFail = true
	txManager.FailError = assert.AnError

	// Act
	result, err := useCase.Execute(CreateLoyaltyAccountCommand{})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, publisher.Published, "事務未提交就不發布事件")
}
