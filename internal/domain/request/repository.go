package request

import (
	"context"
)

// Repository 交换请求仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
// 3. SaveAll是仲裁的关键:一次事务内批量落库,保证"至多一条ACCEPTED"不变量
type Repository interface {
	// Create 创建请求
	Create(ctx context.Context, req *BookRequest) error

	// FindByID 根据ID查找请求
	// 如果不存在,返回ErrRequestNotFound
	FindByID(ctx context.Context, id uint) (*BookRequest, error)

	// FindByRequester 查询某用户发起的全部请求(按插入顺序)
	FindByRequester(ctx context.Context, requesterID uint) ([]*BookRequest, error)

	// FindByBook 查询针对某图书的全部请求(仲裁前供拥有者审阅)
	FindByBook(ctx context.Context, bookID uint) ([]*BookRequest, error)

	// FindByBookAndRequester 根据(图书,请求者)定位请求
	// 同一用户对同一图书有多条请求时返回最早一条
	// 如果不存在,返回ErrRequestNotFound
	FindByBookAndRequester(ctx context.Context, bookID, requesterID uint) (*BookRequest, error)

	// ExistsAcceptedForBookExcludingRequester 判断图书是否已被"其他人"接受
	// 可用性过滤的核心查询:status=ACCEPTED且requester≠指定用户的请求是否存在
	ExistsAcceptedForBookExcludingRequester(ctx context.Context, bookID, requesterID uint) (bool, error)

	// Update 更新单条请求
	Update(ctx context.Context, req *BookRequest) error

	// SaveAll 批量保存请求(仲裁结果:一条ACCEPTED+若干DECLINED)
	// 教学要点:必须在同一事务中执行,调用方通过TxManager传递事务context
	SaveAll(ctx context.Context, reqs []*BookRequest) error

	// Delete 删除请求
	Delete(ctx context.Context, id uint) error

	// DeleteByBook 删除某图书的全部请求(图书下架时级联清理)
	DeleteByBook(ctx context.Context, bookID uint) error
}
