package book

import "context"

// Transactor 事务执行接口
// 设计说明:应用层依赖本接口而非*mysql.TxManager,便于Mock测试
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OfferDeletedEvent 图书下架事件(发布到消息队列)
type OfferDeletedEvent struct {
	BookID  uint `json:"book_id"`
	OwnerID uint `json:"owner_id"`
}

// BookInfo 图书信息DTO(多个用例共用的响应单元)
type BookInfo struct {
	ID       uint     `json:"id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Category string   `json:"category"`
	OwnerID  uint     `json:"owner_id"`
}
