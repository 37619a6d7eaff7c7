package request

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/request"
	"github.com/xiebiao/bookswap/internal/domain/user"
	"github.com/xiebiao/bookswap/pkg/metrics"
	"github.com/xiebiao/bookswap/pkg/mq"
)

// RequestBookUseCase 发起交换请求用例
// 设计说明:
//  1. 校验请求者和图书都存在
//  2. 不能请求自己提供的图书
//  3. 同一用户对同一图书重复请求是允许的(不做唯一约束),
//     仲裁时多条请求各自参与,互不影响
type RequestBookUseCase struct {
	requestRepo request.Repository
	bookRepo    book.Repository
	userRepo    user.Repository
	publisher   mq.EventPublisher
}

// NewRequestBookUseCase 创建发起请求用例
func NewRequestBookUseCase(
	requestRepo request.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	publisher mq.EventPublisher,
) *RequestBookUseCase {
	return &RequestBookUseCase{
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// RequestBookRequest 发起请求DTO
type RequestBookRequest struct {
	BookID      uint // 目标图书ID
	RequesterID uint // 请求者ID(从JWT中提取)
}

// RequestBookResponse 发起请求响应DTO
type RequestBookResponse struct {
	RequestID uint   `json:"request_id"`
	BookID    uint   `json:"book_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行发起请求
func (uc *RequestBookUseCase) Execute(ctx context.Context, req RequestBookRequest) (*RequestBookResponse, error) {
	// 1. 校验请求者存在
	if _, err := uc.userRepo.FindByID(ctx, req.RequesterID); err != nil {
		return nil, err
	}

	// 2. 校验图书存在
	b, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	// 3. 不能请求自己提供的图书
	if b.IsOwnedBy(req.RequesterID) {
		return nil, request.ErrSelfRequest
	}

	// 4. 创建PENDING状态的请求
	newReq := request.NewBookRequest(req.BookID, req.RequesterID)
	if err := uc.requestRepo.Create(ctx, newReq); err != nil {
		return nil, err
	}

	// 5. 指标与事件(落库成功后)
	metrics.IncCounter(metrics.RequestsCreatedTotal)
	_ = uc.publisher.Publish("request.created", RequestCreatedEvent{
		RequestID:   newReq.ID,
		BookID:      newReq.BookID,
		RequesterID: newReq.RequesterID,
	})

	return &RequestBookResponse{
		RequestID: newReq.ID,
		BookID:    newReq.BookID,
		Status:    newReq.Status.String(),
		CreatedAt: newReq.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
