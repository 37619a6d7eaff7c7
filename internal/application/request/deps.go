package request

import "context"

// Transactor 事务执行接口
// 设计说明:应用层依赖本接口而非*mysql.TxManager,便于Mock测试
// 生产环境注入TxManager,测试注入直通实现
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// =========================================
// 领域事件(发布到消息队列)
// =========================================

// RequestCreatedEvent 请求已创建事件
type RequestCreatedEvent struct {
	RequestID   uint `json:"request_id"`
	BookID      uint `json:"book_id"`
	RequesterID uint `json:"requester_id"`
}

// RequestAcceptedEvent 请求已接受事件(仲裁胜出)
type RequestAcceptedEvent struct {
	RequestID   uint `json:"request_id"`
	BookID      uint `json:"book_id"`
	RequesterID uint `json:"requester_id"`
}

// RequestDeclinedEvent 请求已拒绝事件(仲裁落选)
type RequestDeclinedEvent struct {
	RequestID   uint `json:"request_id"`
	BookID      uint `json:"book_id"`
	RequesterID uint `json:"requester_id"`
}
