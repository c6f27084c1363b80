package loyalty

import (
	"github.com/shopspring/decimal"
)

// ===========================
// TierProgressService 領域服務
// ===========================

// TierProgress 等級進度（resolveProgress 的結果）
//
// 不變條件：
// - ProgressPercent 在 [0, 100] 之間
// - PointsToNext >= 0
// - HasNext == false 時（終點等級）：PointsToNext = 0, ProgressPercent = 100
type TierProgress struct {
	CurrentTier     Tier
	NextTier        Tier // HasNext == false 時為零值，不應讀取
	HasNext         bool
	PointsToNext    int
	ProgressPercent int
}

// TierProgressService 等級解析領域服務
//
// 設計原則：
// 1. 純函數：只依賴等級目錄與當前餘額，無副作用
// 2. 每次讀取都重新計算，不做快取，保證與帳本推導的餘額一致
// 3. 無狀態（stateless）- 可以安全地在多個 goroutine 中共享
type TierProgressService struct {
	catalog TierCatalog
}

// NewTierProgressService 建構函數
func NewTierProgressService(catalog TierCatalog) *TierProgressService {
	return &TierProgressService{catalog: catalog}
}

// Catalog 獲取等級目錄
func (s *TierProgressService) Catalog() TierCatalog {
	return s.catalog
}

// ResolveProgress 解析餘額對應的等級與升級進度
//
// 業務規則：
// - currentTier = TierAt(balance)（門檻為含下界）
// - 有下一級時：
//     pointsToNext = max(0, next.threshold - balance)
//     progressPercent = 100 × (balance - current.threshold)
//                         / (next.threshold - current.threshold)，夾取至 [0, 100]
// - 已是終點等級：pointsToNext = 0，progressPercent = 100
func (s *TierProgressService) ResolveProgress(balance PointsAmount) TierProgress {
	current := s.catalog.TierAt(balance.Value())
	next, hasNext := s.catalog.NextTier(current)

	if !hasNext {
		return TierProgress{
			CurrentTier:     current,
			HasNext:         false,
			PointsToNext:    0,
			ProgressPercent: 100,
		}
	}

	pointsToNext := next.Threshold() - balance.Value()
	if pointsToNext < 0 {
		pointsToNext = 0
	}

	// 目錄不變條件保證 next.threshold > current.threshold，分母不為零
	span := next.Threshold() - current.Threshold()
	percent := 100 * (balance.Value() - current.Threshold()) / span
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return TierProgress{
		CurrentTier:     current,
		NextTier:        next,
		HasNext:         true,
		PointsToNext:    pointsToNext,
		ProgressPercent: percent,
	}
}

// ===========================
// PointsCalculationService 領域服務
// ===========================

// PointsCalculationService 積分計算領域服務
//
// 設計原則：
// 1. Domain Service 封裝不屬於任何單一實體/值對象的業務邏輯
// 2. 協調多個值對象（Multiplier + 消費金額 → PointsAmount）
// 3. 無狀態（stateless）- 所有數據通過參數傳入
type PointsCalculationService struct{}

// NewPointsCalculationService 建構函數
// Domain Service 通常是無狀態的，但保留建構函數用於未來擴展
func NewPointsCalculationService() *PointsCalculationService {
	return &PointsCalculationService{}
}

// CalculateFromAmount 根據消費金額和等級倍率計算積分
//
// 業務規則：
// - 積分 = floor(金額 × 倍率)
// - 使用向下取整（消費者不會因為 99.99 元的 1x 得到 100 點）
// - 負數金額返回 0 積分（防禦性編程）
//
// 參數：
//   amount - 消費金額（使用 decimal.Decimal 確保精確計算）
//   multiplier - 等級倍率值對象
//
// 返回：
//   PointsAmount - 計算得到的積分（保證 >= 0）
//   error - 如果計算過程出現錯誤
func (s *PointsCalculationService) CalculateFromAmount(
	amount decimal.Decimal,
	multiplier Multiplier,
) (PointsAmount, error) {
	// 計算：amount × multiplier，然後向下取整
	pointsValue := amount.Mul(multiplier.Value()).Floor().IntPart()

	// 處理邊緣情況：負數金額（理論上不應該發生，但保持防禦性）
	if pointsValue < 0 {
		pointsValue = 0
	}

	// 使用 checked 建構函數，確保積分有效性
	return NewPointsAmount(int(pointsValue))
}
