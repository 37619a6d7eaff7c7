package user

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/user"
)

// FavouritesUseCase 收藏管理用例
// 设计说明:
// 1. 收藏的分类/作者是推荐功能的输入
// 2. 收藏作者按姓名解析,解析失败返回ErrAuthorNotFound(不自动建档)
// 3. 重复收藏是幂等无操作,由联结表复合主键吸收
type FavouritesUseCase struct {
	userRepo   user.Repository
	authorRepo book.AuthorRepository
	catRepo    book.CategoryRepository
}

// NewFavouritesUseCase 创建收藏管理用例
func NewFavouritesUseCase(
	userRepo user.Repository,
	authorRepo book.AuthorRepository,
	catRepo book.CategoryRepository,
) *FavouritesUseCase {
	return &FavouritesUseCase{
		userRepo:   userRepo,
		authorRepo: authorRepo,
		catRepo:    catRepo,
	}
}

// AddCategory 收藏分类(按分类名)
// 只能收藏已存在的分类:分类随图书上架建档,收藏不建档
func (uc *FavouritesUseCase) AddCategory(ctx context.Context, userID uint, categoryName string) error {
	cat, err := uc.catRepo.FindByName(ctx, categoryName)
	if err != nil {
		return err
	}
	return uc.userRepo.AddFavouriteCategory(ctx, userID, cat.ID)
}

// RemoveCategory 取消收藏分类
func (uc *FavouritesUseCase) RemoveCategory(ctx context.Context, userID uint, categoryName string) error {
	cat, err := uc.catRepo.FindByName(ctx, categoryName)
	if err != nil {
		return err
	}
	return uc.userRepo.RemoveFavouriteCategory(ctx, userID, cat.ID)
}

// AddAuthor 收藏作者(按"名 姓"格式的姓名)
func (uc *FavouritesUseCase) AddAuthor(ctx context.Context, userID uint, authorName string) error {
	parsed, err := book.ParseAuthorName(authorName)
	if err != nil {
		return err
	}
	author, err := uc.authorRepo.FindByName(ctx, parsed.FirstName, parsed.LastName)
	if err != nil {
		return err
	}
	return uc.userRepo.AddFavouriteAuthor(ctx, userID, author.ID)
}

// RemoveAuthor 取消收藏作者
func (uc *FavouritesUseCase) RemoveAuthor(ctx context.Context, userID uint, authorName string) error {
	parsed, err := book.ParseAuthorName(authorName)
	if err != nil {
		return err
	}
	author, err := uc.authorRepo.FindByName(ctx, parsed.FirstName, parsed.LastName)
	if err != nil {
		return err
	}
	return uc.userRepo.RemoveFavouriteAuthor(ctx, userID, author.ID)
}
