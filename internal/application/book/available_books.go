package book

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
)

// AvailableBooksUseCase 查询对某用户可交换的图书
// 设计说明:
// 1. 候选集是全量图书,可用性规则由domain层的AvailabilityFilter实现
// 2. 过滤规则:排除自己提供的图书,排除已被他人接受的图书
type AvailableBooksUseCase struct {
	bookRepo book.Repository
	filter   *book.AvailabilityFilter
}

// NewAvailableBooksUseCase 创建可交换图书查询用例
func NewAvailableBooksUseCase(bookRepo book.Repository, filter *book.AvailabilityFilter) *AvailableBooksUseCase {
	return &AvailableBooksUseCase{bookRepo: bookRepo, filter: filter}
}

// Execute 执行查询
func (uc *AvailableBooksUseCase) Execute(ctx context.Context, userID uint) ([]BookInfo, error) {
	candidates, err := uc.bookRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	available, err := uc.filter.Filter(ctx, candidates, userID)
	if err != nil {
		return nil, err
	}

	return toBookInfos(available), nil
}
