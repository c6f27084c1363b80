package loyalty_test

import (
	"testing"
	"time"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== EntryType 測試 =====

// Test 1: IsValid 判斷合法類型
func TestEntryType_IsValid(t *testing.T) {
	// Act & Assert
	assert.True(t, loyalty.EntryTypeEarned.IsValid())
	assert.True(t, loyalty.EntryTypeRedeemed.IsValid())
	assert.True(t, loyalty.EntryTypeExpired.IsValid())
	assert.True(t, loyalty.EntryTypeAdjusted.IsValid())
	assert.False(t, loyalty.EntryType("refunded").IsValid())
	assert.False(t, loyalty.EntryType("").IsValid())
}

// ===== NewLedgerEntry 驗證測試 =====

// Test 2: NewLedgerEntry 成功建立
func TestNewLedgerEntry_ValidFields_Success(t *testing.T) {
	// Arrange
	accountID := loyalty.NewAccountID()
	now := time.Now()

	// Act
	entry, err := loyalty.NewLedgerEntry(
		accountID, loyalty.EntryTypeEarned, 150, "購物獲得積分", now, loyalty.RewardID{},
	)

	// Assert
	require.NoError(t, err)
	assert.False(t, entry.EntryID().IsEmpty())
	assert.True(t, entry.AccountID().Equals(accountID))
	assert.Equal(t, loyalty.EntryTypeEarned, entry.Type())
	assert.Equal(t, 150, entry.Points())
	assert.Equal(t, "購物獲得積分", entry.Description())
	assert.Equal(t, now, entry.OccurredAt())
	assert.False(t, entry.HasReward())
}

// Test 3: NewLedgerEntry 拒絕零積分（ValidationError）
func TestNewLedgerEntry_ZeroPoints_ReturnsError(t *testing.T) {
	// Act
	_, err := loyalty.NewLedgerEntry(
		loyalty.NewAccountID(), loyalty.EntryTypeAdjusted, 0, "無效調整", time.Now(), loyalty.RewardID{},
	)

	// Assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, loyalty.ErrZeroPointsEntry)
}

// Test 4: NewLedgerEntry 拒絕無效類型（ValidationError）
func TestNewLedgerEntry_InvalidType_ReturnsError(t *testing.T) {
	// Act
	_, err := loyalty.NewLedgerEntry(
		loyalty.NewAccountID(), loyalty.EntryType("refunded"), 100, "", time.Now(), loyalty.RewardID{},
	)

	// Assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, loyalty.ErrInvalidEntryType)
}

// Test 5: NewLedgerEntry 符號規則
func TestNewLedgerEntry_SignRules(t *testing.T) {
	tests := []struct {
		name      string
		entryType loyalty.EntryType
		points    int
		wantErr   bool
	}{
		{"earned 必須為正", loyalty.EntryTypeEarned, 100, false},
		{"earned 不可為負", loyalty.EntryTypeEarned, -100, true},
		{"redeemed 必須為負", loyalty.EntryTypeRedeemed, -100, false},
		{"redeemed 不可為正", loyalty.EntryTypeRedeemed, 100, true},
		{"expired 必須為負", loyalty.EntryTypeExpired, -50, false},
		{"expired 不可為正", loyalty.EntryTypeExpired, 50, true},
		{"adjusted 信用為正", loyalty.EntryTypeAdjusted, 25, false},
		{"adjusted 扣減為負", loyalty.EntryTypeAdjusted, -25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			rewardID := loyalty.RewardID{}
			if tt.entryType == loyalty.EntryTypeRedeemed {
				rewardID = loyalty.NewRewardID()
			}

			// Act
			_, err := loyalty.NewLedgerEntry(
				loyalty.NewAccountID(), tt.entryType, tt.points, "test", time.Now(), rewardID,
			)

			// Assert
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, loyalty.ErrInvalidEntrySign)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Test 6: NewLedgerEntry 拒絕空帳戶 ID
func TestNewLedgerEntry_EmptyAccountID_ReturnsError(t *testing.T) {
	// Act
	_, err := loyalty.NewLedgerEntry(
		loyalty.AccountID{}, loyalty.EntryTypeEarned, 100, "", time.Now(), loyalty.RewardID{},
	)

	// Assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, loyalty.ErrInvalidAccountID)
}

// ===== 便利建構函數測試 =====

// Test 7: NewEarnedEntry 建立正數記錄
func TestNewEarnedEntry_Success(t *testing.T) {
	// Arrange
	accountID := loyalty.NewAccountID()
	amount, _ := loyalty.NewPointsAmount(200)

	// Act
	entry, err := loyalty.NewEarnedEntry(accountID, amount, "訂單 #1024", time.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, loyalty.EntryTypeEarned, entry.Type())
	assert.Equal(t, 200, entry.Points())
}

// Test 8: NewEarnedEntry 零積分被拒絕（呼叫端應略過零積分記錄）
func TestNewEarnedEntry_ZeroAmount_ReturnsError(t *testing.T) {
	// Arrange
	zero, _ := loyalty.NewPointsAmount(0)

	// Act
	_, err := loyalty.NewEarnedEntry(loyalty.NewAccountID(), zero, "", time.Now())

	// Assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, loyalty.ErrZeroPointsEntry)
}

// Test 9: NewRedeemedEntry 產生負數記錄並引用獎勵
func TestNewRedeemedEntry_Success(t *testing.T) {
	// Arrange
	accountID := loyalty.NewAccountID()
	rewardID := loyalty.NewRewardID()
	cost, _ := loyalty.NewPointsAmount(300)

	// Act
	entry, err := loyalty.NewRedeemedEntry(accountID, rewardID, cost, "兌換折扣券", time.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, loyalty.EntryTypeRedeemed, entry.Type())
	assert.Equal(t, -300, entry.Points(), "points = -cost")
	assert.True(t, entry.HasReward())
	assert.True(t, entry.RewardID().Equals(rewardID))
}

// Test 10: NewRedeemedEntry 缺少獎勵 ID 被拒絕
func TestNewRedeemedEntry_EmptyRewardID_ReturnsError(t *testing.T) {
	// Arrange
	cost, _ := loyalty.NewPointsAmount(300)

	// Act
	_, err := loyalty.NewRedeemedEntry(loyalty.NewAccountID(), loyalty.RewardID{}, cost, "", time.Now())

	// Assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, loyalty.ErrInvalidRewardID)
}

// Test 11: NewExpiredEntry 產生負數記錄
func TestNewExpiredEntry_Success(t *testing.T) {
	// Arrange
	amount, _ := loyalty.NewPointsAmount(120)

	// Act
	entry, err := loyalty.NewExpiredEntry(loyalty.NewAccountID(), amount, "年度積分過期", time.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, loyalty.EntryTypeExpired, entry.Type())
	assert.Equal(t, -120, entry.Points())
	assert.False(t, entry.HasReward())
}

// Test 12: NewAdjustedEntry 正負皆可
func TestNewAdjustedEntry_CreditAndDebit(t *testing.T) {
	// Act
	credit, errCredit := loyalty.NewAdjustedEntry(loyalty.NewAccountID(), 50, "客服補點", time.Now())
	debit, errDebit := loyalty.NewAdjustedEntry(loyalty.NewAccountID(), -50, "重複入點更正", time.Now())

	// Assert
	require.NoError(t, errCredit)
	require.NoError(t, errDebit)
	assert.Equal(t, 50, credit.Points())
	assert.Equal(t, -50, debit.Points())
}

// ===== ReconstructLedgerEntry 測試 =====

// Test 13: Reconstruct 保留原始 EntryID
func TestReconstructLedgerEntry_PreservesEntryID(t *testing.T) {
	// Arrange
	entryID := loyalty.NewEntryID()
	accountID := loyalty.NewAccountID()
	occurredAt := time.Now().Add(-24 * time.Hour)

	// Act
	entry, err := loyalty.ReconstructLedgerEntry(
		entryID, accountID, loyalty.EntryTypeEarned, 80, "回放記錄", occurredAt, loyalty.RewardID{},
	)

	// Assert
	require.NoError(t, err)
	assert.True(t, entry.EntryID().Equals(entryID))
	assert.Equal(t, occurredAt, entry.OccurredAt())
}

// Test 14: Reconstruct 同樣驗證不變條件（防止損壞資料污染領域層）
func TestReconstructLedgerEntry_ValidatesInvariants(t *testing.T) {
	// Act - 資料庫中的 redeemed 記錄積分為正（損壞資料）
	_, err := loyalty.ReconstructLedgerEntry(
		loyalty.NewEntryID(), loyalty.NewAccountID(),
		loyalty.EntryTypeRedeemed, 300, "corrupted", time.Now(), loyalty.NewRewardID(),
	)

	// Assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, loyalty.ErrInvalidEntrySign)
}

// Test 15: Reconstruct 拒絕空 EntryID
func TestReconstructLedgerEntry_EmptyEntryID_ReturnsError(t *testing.T) {
	// Act
	_, err := loyalty.ReconstructLedgerEntry(
		loyalty.EntryID{}, loyalty.NewAccountID(),
		loyalty.EntryTypeEarned, 10, "", time.Now(), loyalty.RewardID{},
	)

	// Assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, loyalty.ErrInvalidEntryID)
}
