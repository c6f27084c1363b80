package loyalty

import (
	"sync"

	"github.com/luxemart/loyalty/src/internal/domain/loyalty"
)

// ===========================
// AccountLocker 帳戶鎖註冊表
// ===========================

// AccountLocker 以帳戶為單位的互斥鎖註冊表
//
// 併發紀律：
// 「讀餘額、再追加」必須以帳戶為單位原子化。兌換、累積、調整、
// 過期等寫操作在執行資格檢查與 Append 期間持有該帳戶的鎖，
// 兩筆針對同一帳戶的併發兌換因此嚴格串行化——後到者看到的是
// 前者已提交的餘額，不可能共同透支。
//
// 不同帳戶彼此獨立，使用不同的鎖，互不阻塞。
//
// 設計說明：
// - sync.Map 適合「寫一次、讀多次」的鎖註冊場景
// - 鎖永不回收：帳戶數量有限且核心永不刪除帳戶
type AccountLocker struct {
	locks sync.Map // map[string]*sync.Mutex
}

// NewAccountLocker 建構函數
func NewAccountLocker() *AccountLocker {
	return &AccountLocker{}
}

// Lock 取得指定帳戶的鎖並上鎖，返回解鎖函數
//
// 使用範例：
//   unlock := locker.Lock(accountID)
//   defer unlock()
func (l *AccountLocker) Lock(accountID loyalty.AccountID) func() {
	actual, _ := l.locks.LoadOrStore(accountID.String(), &sync.Mutex{})
	mu := actual.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
