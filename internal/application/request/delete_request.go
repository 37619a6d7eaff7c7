package request

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/request"
)

// DeleteRequestUseCase 撤回交换请求用例
// 设计说明:
//  1. 按(图书,请求者)定位请求,不存在返回ErrRequestNotFound
//  2. 撤回一条ACCEPTED请求意味着交换告吹,该图书的其余请求
//     (都已是DECLINED)一并清理,图书回到无人请求的可交换状态
//  3. 整个流程锁定图书行,与仲裁/下架串行化
type DeleteRequestUseCase struct {
	requestRepo request.Repository
	bookRepo    book.Repository
	txManager   Transactor
}

// NewDeleteRequestUseCase 创建撤回请求用例
func NewDeleteRequestUseCase(
	requestRepo request.Repository,
	bookRepo book.Repository,
	txManager Transactor,
) *DeleteRequestUseCase {
	return &DeleteRequestUseCase{
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
		txManager:   txManager,
	}
}

// DeleteRequestRequest 撤回请求DTO
type DeleteRequestRequest struct {
	BookID      uint // 目标图书ID
	RequesterID uint // 请求者ID(从JWT中提取)
}

// Execute 执行撤回
func (uc *DeleteRequestUseCase) Execute(ctx context.Context, req DeleteRequestRequest) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定图书行
		if _, err := uc.bookRepo.LockByID(txCtx, req.BookID); err != nil {
			return err
		}

		// 2. 定位请求(同一用户多条时取最早一条)
		toDelete, err := uc.requestRepo.FindByBookAndRequester(txCtx, req.BookID, req.RequesterID)
		if err != nil {
			return err
		}

		// 3. 撤回已接受的请求:连带清理该图书的全部请求
		if toDelete.IsAccepted() {
			return uc.requestRepo.DeleteByBook(txCtx, req.BookID)
		}

		// 4. 普通撤回:只删这一条
		return uc.requestRepo.Delete(txCtx, toDelete.ID)
	})
}
