package book

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
)

// ListBookOffersUseCase 查询用户提供的图书列表
type ListBookOffersUseCase struct {
	bookRepo book.Repository
}

// NewListBookOffersUseCase 创建查询用例
func NewListBookOffersUseCase(bookRepo book.Repository) *ListBookOffersUseCase {
	return &ListBookOffersUseCase{bookRepo: bookRepo}
}

// Execute 执行查询
func (uc *ListBookOffersUseCase) Execute(ctx context.Context, ownerID uint) ([]BookInfo, error) {
	books, err := uc.bookRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toBookInfos(books), nil
}

// GetBookUseCase 查询单本图书详情
type GetBookUseCase struct {
	bookRepo book.Repository
}

// NewGetBookUseCase 创建查询详情用例
func NewGetBookUseCase(bookRepo book.Repository) *GetBookUseCase {
	return &GetBookUseCase{bookRepo: bookRepo}
}

// Execute 执行查询
func (uc *GetBookUseCase) Execute(ctx context.Context, bookID uint) (*BookInfo, error) {
	b, err := uc.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	info := toBookInfo(b)
	return &info, nil
}
