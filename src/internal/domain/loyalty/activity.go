package loyalty

import (
	"sort"
)

// ===========================
// Activity Query 活動查詢
// ===========================

// SortOrder 活動記錄排序方向（依 OccurredAt 排序）
type SortOrder string

const (
	SortNewestFirst SortOrder = "newest_first"
	SortOldestFirst SortOrder = "oldest_first"
)

// IsValid 判斷是否為合法排序方向
func (o SortOrder) IsValid() bool {
	return o == SortNewestFirst || o == SortOldestFirst
}

// 活動查詢相關錯誤
const (
	ErrCodeInvalidSortOrder  ErrorCode = "SORT_ORDER_INVALID"
	ErrCodeInvalidTypeFilter ErrorCode = "TYPE_FILTER_INVALID"
	ErrCodeInvalidLimit      ErrorCode = "LIMIT_INVALID"
)

var (
	ErrInvalidSortOrder = &DomainError{
		Code:    ErrCodeInvalidSortOrder,
		Message: "無效的排序方向",
	}

	ErrInvalidTypeFilter = &DomainError{
		Code:    ErrCodeInvalidTypeFilter,
		Message: "無效的記錄類型過濾條件",
	}

	ErrInvalidLimit = &DomainError{
		Code:    ErrCodeInvalidLimit,
		Message: "查詢上限不能為負數",
	}
)

// ActivityQueryOptions 活動查詢選項
//
// 字段語義：
// - TypeFilter: 限定恰好一種記錄類型；零值（""）表示不過濾
// - SortOrder: 必填，newest_first 或 oldest_first
// - Limit: 截取排序後序列的前 N 筆；0 表示不截取
type ActivityQueryOptions struct {
	TypeFilter EntryType
	SortOrder  SortOrder
	Limit      int
}

// Validate 驗證查詢選項
func (o ActivityQueryOptions) Validate() error {
	if !o.SortOrder.IsValid() {
		return ErrInvalidSortOrder.WithContext(
			"sort_order", string(o.SortOrder),
		)
	}
	if o.TypeFilter != "" && !o.TypeFilter.IsValid() {
		return ErrInvalidTypeFilter.WithContext(
			"type_filter", string(o.TypeFilter),
		)
	}
	if o.Limit < 0 {
		return ErrInvalidLimit.WithContext(
			"limit", o.Limit,
		)
	}
	return nil
}

// ApplyActivityQuery 對帳本記錄序列套用過濾/排序/截取
//
// 契約：
// - 純讀取，無副作用；輸入序列不被修改
// - 排序依 OccurredAt；時間相同時保持插入順序（穩定排序），
//   因此輸入必須是 Ledger.EntriesFor 返回的插入順序序列
// - 結果長度恆 <= min(limit, 過濾後筆數)
func ApplyActivityQuery(entries []LedgerEntry, opts ActivityQueryOptions) ([]LedgerEntry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// 1. 過濾（複製到新切片，保持輸入不變）
	filtered := make([]LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		if opts.TypeFilter != "" && entry.Type() != opts.TypeFilter {
			continue
		}
		filtered = append(filtered, entry)
	}

	// 2. 穩定排序：時間相同的記錄保持插入順序
	if opts.SortOrder == SortNewestFirst {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].OccurredAt().After(filtered[j].OccurredAt())
		})
	} else {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].OccurredAt().Before(filtered[j].OccurredAt())
		})
	}

	// 3. 截取前 N 筆
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}

	return filtered, nil
}
