package loyalty

import "fmt"

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode 錯誤代碼類型
type ErrorCode string

// 錯誤代碼常量
const (
	// 積分數量相關
	ErrCodeNegativePointsAmount ErrorCode = "POINTS_NEGATIVE"
	ErrCodeInsufficientPoints   ErrorCode = "POINTS_INSUFFICIENT"

	// 帳本記錄相關（ValidationError：呼叫端錯誤，不應呈現給使用者）
	ErrCodeZeroPointsEntry  ErrorCode = "ENTRY_ZERO_POINTS"
	ErrCodeInvalidEntryType ErrorCode = "ENTRY_TYPE_INVALID"
	ErrCodeInvalidEntrySign ErrorCode = "ENTRY_SIGN_INVALID"
	ErrCodeNegativeBalance  ErrorCode = "BALANCE_NEGATIVE"

	// 等級目錄相關
	ErrCodeInvalidMultiplier  ErrorCode = "MULTIPLIER_INVALID"
	ErrCodeInvalidTier        ErrorCode = "TIER_INVALID"
	ErrCodeInvalidTierCatalog ErrorCode = "TIER_CATALOG_INVALID"

	// 獎勵相關
	ErrCodeInvalidReward     ErrorCode = "REWARD_INVALID"
	ErrCodeRewardUnavailable ErrorCode = "REWARD_UNAVAILABLE"

	// ID 相關
	ErrCodeInvalidAccountID ErrorCode = "ACCOUNT_ID_INVALID"
	ErrCodeInvalidEntryID   ErrorCode = "ENTRY_ID_INVALID"
	ErrCodeInvalidRewardID  ErrorCode = "REWARD_ID_INVALID"
)

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
// 設計原則：
// 1. 包含結構化的錯誤代碼（用於 HTTP 狀態碼映射）
// 2. 支持上下文信息（用於調試和日誌）
// 3. 不可變性（創建後不可修改）
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %+v)", e.Code, e.Message, e.Context)
}

// WithContext 添加上下文信息（返回新的錯誤實例，保持不可變性）
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)

	// 複製現有上下文
	for k, v := range e.Context {
		ctx[k] = v
	}

	// 添加新上下文
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 實現 errors.Is 接口（用於錯誤類型判斷）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ===========================
// 預定義錯誤
// ===========================

// 積分數量相關錯誤
var (
	ErrNegativePointsAmount = &DomainError{
		Code:    ErrCodeNegativePointsAmount,
		Message: "積分數量不能為負數",
	}

	ErrInsufficientPoints = &DomainError{
		Code:    ErrCodeInsufficientPoints,
		Message: "積分餘額不足",
	}
)

// 帳本記錄相關錯誤
//
// 這些錯誤代表核心不變條件將被違反，
// Append 必須中止，絕不允許部分寫入或靜默吞掉
var (
	ErrZeroPointsEntry = &DomainError{
		Code:    ErrCodeZeroPointsEntry,
		Message: "帳本記錄的積分不能為零",
	}

	ErrInvalidEntryType = &DomainError{
		Code:    ErrCodeInvalidEntryType,
		Message: "無效的帳本記錄類型",
	}

	ErrInvalidEntrySign = &DomainError{
		Code:    ErrCodeInvalidEntrySign,
		Message: "帳本記錄的積分正負號與類型不符",
	}

	ErrNegativeBalance = &DomainError{
		Code:    ErrCodeNegativeBalance,
		Message: "操作會導致積分餘額為負",
	}
)

// 等級目錄相關錯誤
var (
	ErrInvalidMultiplier = &DomainError{
		Code:    ErrCodeInvalidMultiplier,
		Message: "積分倍率必須為正數",
	}

	ErrInvalidTier = &DomainError{
		Code:    ErrCodeInvalidTier,
		Message: "無效的會員等級定義",
	}

	ErrInvalidTierCatalog = &DomainError{
		Code:    ErrCodeInvalidTierCatalog,
		Message: "等級目錄必須以門檻 0 起始並嚴格遞增",
	}
)

// 獎勵相關錯誤
var (
	ErrInvalidReward = &DomainError{
		Code:    ErrCodeInvalidReward,
		Message: "無效的獎勵定義",
	}

	ErrRewardUnavailable = &DomainError{
		Code:    ErrCodeRewardUnavailable,
		Message: "獎勵目前無法兌換",
	}
)

// ID 相關錯誤
var (
	ErrInvalidAccountID = &DomainError{
		Code:    ErrCodeInvalidAccountID,
		Message: "無效的帳戶 ID",
	}

	ErrInvalidEntryID = &DomainError{
		Code:    ErrCodeInvalidEntryID,
		Message: "無效的帳本記錄 ID",
	}

	ErrInvalidRewardID = &DomainError{
		Code:    ErrCodeInvalidRewardID,
		Message: "無效的獎勵 ID",
	}
)
