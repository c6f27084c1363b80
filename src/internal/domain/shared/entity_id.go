package shared

import (
	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 是一個泛型實體 ID 值對象
//
// 設計原則：
// 1. 使用 Go 1.18+ 泛型消除重複代碼（DRY 原則）
// 2. 類型安全：不同實體的 ID 不能混用（AccountID ≠ RewardID）
// 3. 不可變性（unexported field）
// 4. 自我驗證（建構函數檢查）
//
// 泛型參數 T：
// - 用於類型區分的標記類型（marker type）
// - 例如：EntityID[AccountMarker] 和 EntityID[RewardMarker] 是不同類型
// - T 不需要有任何方法或字段，只用於編譯時類型檢查
//
// 使用範例：
//   // 定義標記類型
//   type AccountMarker struct{}
//   type AccountID = shared.EntityID[AccountMarker]
//
//   // 使用
//   id := shared.NewEntityID[AccountMarker]()
//   parsed, _ := shared.EntityIDFromString[AccountMarker]("uuid-string", ErrInvalidAccountID)
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（使用 UUID v4）
//
// 泛型參數 T 用於類型區分：
//   accountID := NewEntityID[AccountMarker]()
//   rewardID := NewEntityID[RewardMarker]()
//   // accountID 和 rewardID 是不同類型，不能混用
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// 參數：
//   s - UUID 字串（標準格式：xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx）
//   errTemplate - 解析失敗時返回的錯誤類型（由調用者提供，保持錯誤類型一致性）
//
// 返回：
//   EntityID[T] - 解析成功的實體 ID
//   error - 解析失敗時返回 errTemplate（附帶上下文信息）
//
// 設計決策：為什麼需要 errTemplate 參數？
// - 不同實體的 ID 應該返回不同的錯誤（ErrInvalidAccountID vs ErrInvalidRewardID）
// - 錯誤類型定義在各自的 bounded context（loyalty 等）
// - shared 層不應依賴具體業務錯誤，保持通用性
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		// 使用調用者提供的錯誤模板，並添加上下文
		// 假設錯誤類型支持 WithContext（如 DomainError）
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) error
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"parse_error", err.Error(),
			)
		}
		// 如果錯誤類型不支持 WithContext，直接返回
		return EntityID[T]{}, errTemplate
	}
	return EntityID[T]{value: id}, nil
}

// String 轉換為字串表示（小寫 UUID）
//
// 返回格式：xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx（小寫）
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個 EntityID 是否相等
//
// 注意：只能比較相同類型的 ID
//   accountID1.Equals(accountID2) ✓
//   accountID.Equals(rewardID) ✗ 編譯錯誤（類型不匹配）
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 判斷是否為空 ID（零值）
//
// 空 ID 的場景：
// - 未初始化的結構體字段
// - 解析失敗後的零值返回
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}
