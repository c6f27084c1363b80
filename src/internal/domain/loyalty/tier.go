package loyalty

// ===========================
// Tier 會員等級值對象
// ===========================

// Tier 會員等級
//
// 不可變記錄：
// - name: 等級名稱（目錄內唯一）
// - threshold: 積分門檻（含下界：餘額 >= threshold 即符合此等級）
// - multiplier: 消費積分倍率（每單位消費金額可獲得的積分）
// - color: 顯示用途的色碼（純展示元數據，核心不解讀）
type Tier struct {
	name       string
	threshold  int
	multiplier Multiplier
	color      string
}

// NewTier 建構函數
//
// 建構約束：
// - name 不能為空
// - threshold >= 0
// - multiplier 已由值對象保證 > 0
func NewTier(name string, threshold int, multiplier Multiplier, color string) (Tier, error) {
	if name == "" {
		return Tier{}, ErrInvalidTier.WithContext(
			"reason", "name cannot be empty",
		)
	}
	if threshold < 0 {
		return Tier{}, ErrInvalidTier.WithContext(
			"name", name,
			"threshold", threshold,
			"reason", "threshold cannot be negative",
		)
	}
	return Tier{
		name:       name,
		threshold:  threshold,
		multiplier: multiplier,
		color:      color,
	}, nil
}

// Name 獲取等級名稱
func (t Tier) Name() string {
	return t.name
}

// Threshold 獲取積分門檻（含下界）
func (t Tier) Threshold() int {
	return t.threshold
}

// Multiplier 獲取積分倍率
func (t Tier) Multiplier() Multiplier {
	return t.multiplier
}

// Color 獲取顯示色碼
func (t Tier) Color() string {
	return t.color
}

// Equals 比較兩個等級是否相同（以名稱為識別）
func (t Tier) Equals(other Tier) bool {
	return t.name == other.name
}

// ===========================
// TierCatalog 等級目錄
// ===========================

// TierCatalog 靜態等級目錄
//
// 不變條件（由 NewTierCatalog 驗證，之後不可變）：
// 1. 目錄非空
// 2. 第一個等級的門檻為 0（任何餘額都有對應等級）
// 3. 門檻嚴格遞增
// 4. 等級名稱唯一
//
// 配置方式：程序啟動時載入一次，之後只讀
type TierCatalog struct {
	tiers []Tier
}

// NewTierCatalog 建構函數，驗證目錄不變條件
func NewTierCatalog(tiers []Tier) (TierCatalog, error) {
	if len(tiers) == 0 {
		return TierCatalog{}, ErrInvalidTierCatalog.WithContext(
			"reason", "catalog cannot be empty",
		)
	}
	if tiers[0].Threshold() != 0 {
		return TierCatalog{}, ErrInvalidTierCatalog.WithContext(
			"reason", "first tier threshold must be 0",
			"first_tier", tiers[0].Name(),
			"first_threshold", tiers[0].Threshold(),
		)
	}

	seen := make(map[string]bool, len(tiers))
	for i, tier := range tiers {
		if seen[tier.Name()] {
			return TierCatalog{}, ErrInvalidTierCatalog.WithContext(
				"reason", "duplicate tier name",
				"name", tier.Name(),
			)
		}
		seen[tier.Name()] = true

		if i > 0 && tiers[i-1].Threshold() >= tier.Threshold() {
			return TierCatalog{}, ErrInvalidTierCatalog.WithContext(
				"reason", "thresholds must be strictly ascending",
				"tier", tier.Name(),
				"threshold", tier.Threshold(),
				"previous_threshold", tiers[i-1].Threshold(),
			)
		}
	}

	// 複製切片，防止外部修改破壞不可變性
	copied := make([]Tier, len(tiers))
	copy(copied, tiers)

	return TierCatalog{tiers: copied}, nil
}

// TierAt 返回餘額對應的最高等級
//
// 契約：目錄保證包含門檻 0 的等級，因此對任何非負餘額
// 此函數都有結果，永不失敗（total function）
//
// 邊界策略：餘額剛好落在門檻上屬於較高的等級
// （門檻是含下界，tierAt(t.threshold) == t）
func (c TierCatalog) TierAt(balance int) Tier {
	// 從最高等級往下找第一個門檻 <= balance 的等級
	for i := len(c.tiers) - 1; i >= 0; i-- {
		if c.tiers[i].Threshold() <= balance {
			return c.tiers[i]
		}
	}
	// 第一個等級門檻為 0，非負餘額不可能走到這裡；
	// 負數餘額（不應出現）歸入最低等級
	return c.tiers[0]
}

// NextTier 返回目錄順序中緊接在 current 之後的等級
//
// 返回：
//   Tier - 下一個等級
//   bool - false 表示 current 已是最高（終點）等級
func (c TierCatalog) NextTier(current Tier) (Tier, bool) {
	for i, tier := range c.tiers {
		if tier.Equals(current) {
			if i+1 < len(c.tiers) {
				return c.tiers[i+1], true
			}
			return Tier{}, false
		}
	}
	// current 不在目錄中：視為無下一級（防禦性處理）
	return Tier{}, false
}

// Lowest 返回最低等級（新帳戶的初始等級）
func (c TierCatalog) Lowest() Tier {
	return c.tiers[0]
}

// Tiers 返回目錄的副本（依門檻遞增排序）
func (c TierCatalog) Tiers() []Tier {
	copied := make([]Tier, len(c.tiers))
	copy(copied, c.tiers)
	return copied
}

// ===========================
// 預設店面等級目錄
// ===========================

// DefaultTierCatalog 建立預設的店面等級目錄
//
// Bronze 0 (1x) → Silver 500 (1.5x) → Gold 1500 (2x) → Platinum 4000 (3x)
//
// 色碼僅供前端展示使用
func DefaultTierCatalog() TierCatalog {
	catalog, err := NewTierCatalog([]Tier{
		mustTier("Bronze", 0, "1", "#cd7f32"),
		mustTier("Silver", 500, "1.5", "#c0c0c0"),
		mustTier("Gold", 1500, "2", "#ffd700"),
		mustTier("Platinum", 4000, "3", "#e5e4e2"),
	})
	if err != nil {
		// 預設目錄是寫死的常量，建構失敗代表程式錯誤
		panic(err)
	}
	return catalog
}

// mustTier 建構預設目錄用的等級（僅限常量配置使用）
func mustTier(name string, threshold int, multiplier string, color string) Tier {
	m, err := MultiplierFromString(multiplier)
	if err != nil {
		panic(err)
	}
	tier, err := NewTier(name, threshold, m, color)
	if err != nil {
		panic(err)
	}
	return tier
}
