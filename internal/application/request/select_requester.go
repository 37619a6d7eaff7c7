package request

import (
	"context"
	"time"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/request"
	"github.com/xiebiao/bookswap/pkg/metrics"
	"github.com/xiebiao/bookswap/pkg/mq"
)

// SelectRequesterUseCase 仲裁用例:图书拥有者选中一条请求
// 教学要点:这是整个项目最核心的用例之一
// 涉及:事务处理、并发控制、状态机流转
type SelectRequesterUseCase struct {
	requestRepo request.Repository
	bookRepo    book.Repository
	txManager   Transactor
	publisher   mq.EventPublisher
}

// NewSelectRequesterUseCase 创建仲裁用例
func NewSelectRequesterUseCase(
	requestRepo request.Repository,
	bookRepo book.Repository,
	txManager Transactor,
	publisher mq.EventPublisher,
) *SelectRequesterUseCase {
	return &SelectRequesterUseCase{
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// SelectRequesterRequest 仲裁请求DTO
type SelectRequesterRequest struct {
	RequestID uint // 被选中的请求ID
	OwnerID   uint // 图书拥有者ID(从JWT中提取,用于授权校验)
}

// SelectRequesterResponse 仲裁响应DTO
type SelectRequesterResponse struct {
	AcceptedRequestID uint `json:"accepted_request_id"`
	BookID            uint `json:"book_id"`
	RequesterID       uint `json:"requester_id"`
	DeclinedCount     int  `json:"declined_count"`
}

// Execute 执行仲裁
// 教学重点:保证"同一图书至多一条ACCEPTED"的完整流程
//
// 核心问题:并发仲裁
// 场景:拥有者连点两次选择不同请求,或仲裁与撤回请求并发
// 错误实现:
//  1. 查询全部请求
//  2. 逐条改状态
//     结果:两个事务交错执行,两条请求都变成ACCEPTED(不变量被破坏!)
//
// 正确实现:悲观锁按图书串行化
//  1. SELECT FOR UPDATE 锁定图书行
//  2. 在锁内读取该图书的全部请求(稳定快照)
//  3. 选中的置ACCEPTED,其余全部置DECLINED
//  4. SaveAll批量落库
//  5. COMMIT释放锁
func (uc *SelectRequesterUseCase) Execute(ctx context.Context, req SelectRequesterRequest) (*SelectRequesterResponse, error) {
	start := time.Now()

	var (
		accepted    *request.BookRequest
		declined    []*request.BookRequest
		firstAccept bool
	)

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 定位被选中的请求
		chosen, err := uc.requestRepo.FindByID(txCtx, req.RequestID)
		if err != nil {
			return err
		}

		// 2. 锁定图书行(仲裁/撤回/下架按图书串行化)
		b, err := uc.bookRepo.LockByID(txCtx, chosen.BookID)
		if err != nil {
			return err
		}

		// 3. 授权校验:只有图书拥有者能仲裁
		if !b.IsOwnedBy(req.OwnerID) {
			return book.ErrBookNotOwned
		}

		// 4. 锁内读取该图书的全部请求
		allRequests, err := uc.requestRepo.FindByBook(txCtx, chosen.BookID)
		if err != nil {
			return err
		}

		// 5. 状态机流转:选中的ACCEPTED,其余DECLINED
		// 教学要点:TransitionTo对重复仲裁是幂等的(终态自流转为无操作),
		// 但试图改变已有终态(如把DECLINED改成ACCEPTED)会返回错误
		// 只记录本次真正发生流转的请求,重复仲裁(终态自流转)不重复计数
		for _, r := range allRequests {
			if r.ID == chosen.ID {
				wasPending := r.IsPending()
				if err := r.Accept(); err != nil {
					return err
				}
				accepted = r
				firstAccept = wasPending
			} else {
				wasPending := r.IsPending()
				if err := r.Decline(); err != nil {
					return err
				}
				if wasPending {
					declined = append(declined, r)
				}
			}
		}

		// 6. 批量落库(同一事务,原子生效)
		return uc.requestRepo.SaveAll(txCtx, allRequests)
	})
	if err != nil {
		return nil, err
	}

	// 7. 指标与事件(事务提交后)
	// 幂等重放不重复发:重复选中同一条请求时请求状态没有变化,
	// 计数器与事件都只在首次接受时生效
	metrics.ObserveHistogram(metrics.ArbitrationDuration, time.Since(start).Seconds())
	if firstAccept {
		metrics.IncCounter(metrics.RequestsAcceptedTotal)
		_ = uc.publisher.Publish("request.accepted", RequestAcceptedEvent{
			RequestID:   accepted.ID,
			BookID:      accepted.BookID,
			RequesterID: accepted.RequesterID,
		})
	}
	metrics.AddCounter(metrics.RequestsDeclinedTotal, float64(len(declined)))
	for _, r := range declined {
		_ = uc.publisher.Publish("request.declined", RequestDeclinedEvent{
			RequestID:   r.ID,
			BookID:      r.BookID,
			RequesterID: r.RequesterID,
		})
	}

	return &SelectRequesterResponse{
		AcceptedRequestID: accepted.ID,
		BookID:            accepted.BookID,
		RequesterID:       accepted.RequesterID,
		DeclinedCount:     len(declined),
	}, nil
}
