package loyalty

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/luxemart/loyalty/src/internal/domain/shared"
)

// seedAccount 在 mock repository 中預建一個帳戶
func seedAccount(t *testing.T, repo *MockAccountRepository) *loyalty.LoyaltyAccount {
	t.Helper()
	account := loyalty.NewLoyaltyAccount()
	account.PullEvents() // 預建帳戶不測創建事件
	require.NoError(t, repo.Save(nil, account))
	return account
}

// seedEarned 直接在 mock 帳本中追加一筆 earned 記錄（建立初始餘額）
func seedEarned(t *testing.T, ledger *MockLedger, accountID loyalty.AccountID, points int) {
	t.Helper()
	amount, err := loyalty.NewPointsAmount(points)
	require.NoError(t, err)
	entry, err := loyalty.NewEarnedEntry(accountID, amount, "seed", time.Now())
	require.NoError(t, err)
	require.NoError(t, ledger.Append(nil, entry))
	ledger.AppendCallCount = 0 // seed 不計入被測操作的追加次數
}

// seedReward 在 mock reward repository 中預建一個獎勵
func seedReward(t *testing.T, repo *MockRewardRepository, name string, cost int, available bool) *loyalty.Reward {
	t.Helper()
	amount, err := loyalty.NewPointsAmount(cost)
	require.NoError(t, err)
	reward, err := loyalty.NewReward(name, "測試獎勵", amount, available, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Save(nil, reward))
	return reward
}

// ===========================
// Mock AccountRepository
// ===========================

type MockAccountRepository struct {
	mu            sync.Mutex
	accounts      map[string]*loyalty.LoyaltyAccount
	SaveCallCount int
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*loyalty.LoyaltyAccount),
	}
}

func (m *MockAccountRepository) Save(ctx shared.TransactionContext, account *loyalty.LoyaltyAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCallCount++ // 無論成功或失敗，都計數

	if _, exists := m.accounts[account.AccountID().String()]; exists {
		return loyalty.ErrAccountAlreadyExists
	}
	m.accounts[account.AccountID().String()] = account
	return nil
}

func (m *MockAccountRepository) FindByID(ctx shared.TransactionContext, accountID loyalty.AccountID) (*loyalty.LoyaltyAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account, exists := m.accounts[accountID.String()]; exists {
		return account, nil
	}
	return nil, loyalty.ErrAccountNotFound
}

// ===========================
// Mock RewardRepository
// ===========================

type MockRewardRepository struct {
	mu      sync.Mutex
	rewards map[string]*loyalty.Reward
}

func NewMockRewardRepository() *MockRewardRepository {
	return &MockRewardRepository{
		rewards: make(map[string]*loyalty.Reward),
	}
}

func (m *MockRewardRepository) Save(ctx shared.TransactionContext, reward *loyalty.Reward) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rewards[reward.RewardID().String()] = reward
	return nil
}

func (m *MockRewardRepository) FindByID(ctx shared.TransactionContext, rewardID loyalty.RewardID) (*loyalty.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reward, exists := m.rewards[rewardID.String()]; exists {
		return reward, nil
	}
	return nil, loyalty.ErrRewardNotFound
}

func (m *MockRewardRepository) FindAvailable(ctx shared.TransactionContext) ([]*loyalty.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var available []*loyalty.Reward
	for _, reward := range m.rewards {
		if reward.IsAvailable() {
			available = append(available, reward)
		}
	}
	// 與實際 Repository 的契約一致：依所需積分由低到高排序
	sort.Slice(available, func(i, j int) bool {
		return available[i].PointsCost().Value() < available[j].PointsCost().Value()
	})
	return available, nil
}

// ===========================
// Mock Ledger
// ===========================

// MockLedger 記憶體內的 append-only 帳本
//
// 內部 mutex 只保證資料結構本身的併發安全；
// 「讀餘額、再追加」的原子性由 Use Case 的帳戶鎖負責——
// 這正是併發兌換測試要驗證的東西
type MockLedger struct {
	mu              sync.Mutex
	entries         []loyalty.LedgerEntry
	AppendCallCount int
}

func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) balanceLocked(accountID loyalty.AccountID) int {
	sum := 0
	for _, entry := range m.entries {
		if entry.AccountID().Equals(accountID) {
			sum += entry.Points()
		}
	}
	return sum
}

func (m *MockLedger) Append(ctx shared.TransactionContext, entry loyalty.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCallCount++

	// 追加後的累計餘額不得為負
	if m.balanceLocked(entry.AccountID())+entry.Points() < 0 {
		return loyalty.ErrNegativeBalance
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockLedger) BalanceOf(ctx shared.TransactionContext, accountID loyalty.AccountID) (loyalty.PointsAmount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return loyalty.NewPointsAmount(m.balanceLocked(accountID))
}

func (m *MockLedger) EntriesFor(ctx shared.TransactionContext, accountID loyalty.AccountID) ([]loyalty.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []loyalty.LedgerEntry
	for _, entry := range m.entries {
		if entry.AccountID().Equals(accountID) {
			result = append(result, entry)
		}
	}
	return result, nil
}

// ===========================
// Mock TransactionManager
// ===========================

type MockTransactionManager struct {
	mu                     sync.Mutex
	InTransactionCallCount int
	ShouldFail             bool
	FailError              error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	m.mu.Lock()
	m.InTransactionCallCount++
	shouldFail, failErr := m.ShouldFail, m.FailError
	m.mu.Unlock()

	if shouldFail {
		return failErr
	}

	// mock 不需要真的事務上下文
	var ctx shared.TransactionContext
	return fn(ctx)
}

// ===========================
// Mock EventPublisher
// ===========================

type MockEventPublisher struct {
	mu        sync.Mutex
	Published []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(event shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, event)
	return nil
}

func (m *MockEventPublisher) PublishBatch(events []shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, events...)
	return nil
}

// EventTypes 返回已發布事件的類型序列
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Published))
	for _, event := range m.Published {
		types = append(types, event.EventType())
	}
	return types
}
