package book

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/request"
	"github.com/xiebiao/bookswap/pkg/metrics"
	"github.com/xiebiao/bookswap/pkg/mq"
)

// DeleteBookOfferUseCase 下架图书用例
// 教学要点:下架是跨聚合的级联操作
// 涉及:事务处理、悲观锁、请求级联清理
type DeleteBookOfferUseCase struct {
	bookRepo    book.Repository
	requestRepo request.Repository
	txManager   Transactor
	publisher   mq.EventPublisher
}

// NewDeleteBookOfferUseCase 创建下架用例
func NewDeleteBookOfferUseCase(
	bookRepo book.Repository,
	requestRepo request.Repository,
	txManager Transactor,
	publisher mq.EventPublisher,
) *DeleteBookOfferUseCase {
	return &DeleteBookOfferUseCase{
		bookRepo:    bookRepo,
		requestRepo: requestRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// DeleteBookOfferRequest 下架请求DTO
type DeleteBookOfferRequest struct {
	BookID  uint // 图书ID
	OwnerID uint // 提供者ID(从JWT中提取)
}

// Execute 执行下架
// 流程:
//  1. SELECT FOR UPDATE 锁定图书行(与仲裁/撤回串行化)
//  2. 授权校验:只有提供者本人能下架
//  3. 级联删除该图书的全部交换请求
//  4. 删除图书
//  5. COMMIT后发布下架事件
func (uc *DeleteBookOfferUseCase) Execute(ctx context.Context, req DeleteBookOfferRequest) error {
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		if !b.IsOwnedBy(req.OwnerID) {
			return book.ErrBookNotOwned
		}

		if err := uc.requestRepo.DeleteByBook(txCtx, req.BookID); err != nil {
			return err
		}

		return uc.bookRepo.Delete(txCtx, req.BookID)
	})
	if err != nil {
		return err
	}

	metrics.IncCounter(metrics.BookOffersDeletedTotal)
	_ = uc.publisher.Publish("offer.deleted", OfferDeletedEvent{
		BookID:  req.BookID,
		OwnerID: req.OwnerID,
	})

	return nil
}
