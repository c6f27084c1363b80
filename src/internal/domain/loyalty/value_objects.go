package loyalty

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PointsAmount 積分數量值對象
// 設計原則：值對象不可變、自我驗證
//
// 注意：PointsAmount 表示「數量」（非負），帳本記錄中的正負號
// 由 EntryType 決定（見 entry.go 的符號規則）
type PointsAmount struct {
	value int
}

// NewPointsAmount 建構函數（checked 版本）
// 對外部輸入進行完整驗證
//
// 建構約束：積分數量必須 >= 0（不存在負數積分的概念）
func NewPointsAmount(value int) (PointsAmount, error) {
	if value < 0 {
		return PointsAmount{}, fmt.Errorf(
			"%w: attempted to create PointsAmount with value %d",
			ErrNegativePointsAmount,
			value,
		)
	}
	return PointsAmount{value: value}, nil
}

// newPointsAmountUnchecked 內部建構函數（unchecked 版本）
// 僅供內部使用，當我們確定值有效時使用（性能優化）
//
// 前提條件：調用者必須保證 value >= 0
func newPointsAmountUnchecked(value int) PointsAmount {
	return PointsAmount{value: value}
}

// Value 獲取積分數量
func (p PointsAmount) Value() int {
	return p.value
}

// Add 相加（返回新的 PointsAmount，保持不變性）
//
// 設計假設：
// 積分受業務規則限制（單帳戶遠小於 int 上限），
// 整數溢位在實際業務場景中不會發生
func (p PointsAmount) Add(other PointsAmount) PointsAmount {
	return newPointsAmountUnchecked(p.value + other.value)
}

// Subtract 相減（返回新的 PointsAmount）
// 業務規則：不能扣除超過當前數量的積分
func (p PointsAmount) Subtract(other PointsAmount) (PointsAmount, error) {
	// 檢查業務規則：餘額是否足夠
	if p.value < other.value {
		// 這是業務規則違反，不是建構約束違反
		return PointsAmount{}, fmt.Errorf(
			"%w: cannot subtract %d from %d (insufficient balance)",
			ErrInsufficientPoints,
			other.value,
			p.value,
		)
	}

	// 已經保證 result >= 0，可以安全使用 unchecked 建構
	result := p.value - other.value
	return newPointsAmountUnchecked(result), nil
}

// Equals 比較兩個 PointsAmount 是否相等
func (p PointsAmount) Equals(other PointsAmount) bool {
	return p.value == other.value
}

// GreaterThan 判斷是否大於另一個 PointsAmount
func (p PointsAmount) GreaterThan(other PointsAmount) bool {
	return p.value > other.value
}

// LessThan 判斷是否小於另一個 PointsAmount
func (p PointsAmount) LessThan(other PointsAmount) bool {
	return p.value < other.value
}

// GreaterThanOrEqual 判斷是否大於等於另一個 PointsAmount
func (p PointsAmount) GreaterThanOrEqual(other PointsAmount) bool {
	return p.value >= other.value
}

// ===========================
// Multiplier 積分倍率值對象
// ===========================

// Multiplier 積分倍率（每單位消費金額可獲得的積分數）
//
// 設計原則：
// - 使用 decimal.Decimal 保證精確計算（1.5x 不能有浮點誤差）
// - 建構約束：倍率必須 > 0
// - 不可變（unexported field）
type Multiplier struct {
	value decimal.Decimal
}

// NewMultiplier 建構函數
//
// 建構約束：倍率必須為正數（0 或負數的等級沒有業務意義）
func NewMultiplier(value decimal.Decimal) (Multiplier, error) {
	if !value.IsPositive() {
		return Multiplier{}, ErrInvalidMultiplier.WithContext(
			"value", value.String(),
		)
	}
	return Multiplier{value: value}, nil
}

// MultiplierFromString 從字串建構倍率（如 "1.5"）
//
// 使用場景：靜態等級目錄配置
func MultiplierFromString(s string) (Multiplier, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Multiplier{}, ErrInvalidMultiplier.WithContext(
			"input", s,
			"parse_error", err.Error(),
		)
	}
	return NewMultiplier(value)
}

// Value 獲取倍率值
func (m Multiplier) Value() decimal.Decimal {
	return m.value
}

// String 轉換為字串表示
func (m Multiplier) String() string {
	return m.value.String()
}

// Equals 比較兩個倍率是否相等
func (m Multiplier) Equals(other Multiplier) bool {
	return m.value.Equal(other.value)
}
