package book

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/user"
)

// RecommendBooksUseCase 图书推荐用例
// 设计说明:
//  1. 两种推荐口径:按收藏的分类、按收藏的作者
//  2. 推荐结果是各分类/作者结果的并集,保留重复
//     (一本书命中多个收藏作者时出现多次,反映命中强度)
//  3. 推荐结果经过可用性过滤
type RecommendBooksUseCase struct {
	bookRepo book.Repository
	userRepo user.Repository
	filter   *book.AvailabilityFilter
}

// NewRecommendBooksUseCase 创建推荐用例
func NewRecommendBooksUseCase(
	bookRepo book.Repository,
	userRepo user.Repository,
	filter *book.AvailabilityFilter,
) *RecommendBooksUseCase {
	return &RecommendBooksUseCase{
		bookRepo: bookRepo,
		userRepo: userRepo,
		filter:   filter,
	}
}

// ByFavouriteCategories 按收藏分类推荐
func (uc *RecommendBooksUseCase) ByFavouriteCategories(ctx context.Context, userID uint) ([]BookInfo, error) {
	categoryIDs, err := uc.userRepo.ListFavouriteCategoryIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []*book.Book
	for _, id := range categoryIDs {
		books, err := uc.bookRepo.FindByCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, books...)
	}

	recommended, err := uc.filter.Filter(ctx, candidates, userID)
	if err != nil {
		return nil, err
	}
	return toBookInfos(recommended), nil
}

// ByFavouriteAuthors 按收藏作者推荐
func (uc *RecommendBooksUseCase) ByFavouriteAuthors(ctx context.Context, userID uint) ([]BookInfo, error) {
	authorIDs, err := uc.userRepo.ListFavouriteAuthorIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []*book.Book
	for _, id := range authorIDs {
		books, err := uc.bookRepo.FindByAuthor(ctx, id)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, books...)
	}

	recommended, err := uc.filter.Filter(ctx, candidates, userID)
	if err != nil {
		return nil, err
	}
	return toBookInfos(recommended), nil
}
