package loyalty

import "github.com/luxemart/loyalty/src/internal/domain/shared"

// publishEvents 發布領域事件（事務提交後）
//
// 設計決策：
// 1. 事件在事務成功提交後才發布——訂閱者看到的一定是已持久化的事實
// 2. publisher 可為 nil（測試或不需要事件的組裝場景）
// 3. 發布失敗不影響 Use Case 結果：帳本已提交，事件只是通知
func publishEvents(publisher shared.EventPublisher, events ...shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	// 忽略發布錯誤：事件是 best-effort 通知，不能回滾已提交的事務
	_ = publisher.PublishBatch(events)
}
