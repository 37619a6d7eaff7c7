package user

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/user"
)

// GetProfileUseCase 查询个人资料用例
// 资料=基本信息+收藏的分类/作者(按名称展示,ID→名称由目录仓储批量回查)
type GetProfileUseCase struct {
	userRepo   user.Repository
	authorRepo book.AuthorRepository
	catRepo    book.CategoryRepository
}

// NewGetProfileUseCase 创建查询个人资料用例
func NewGetProfileUseCase(
	userRepo user.Repository,
	authorRepo book.AuthorRepository,
	catRepo book.CategoryRepository,
) *GetProfileUseCase {
	return &GetProfileUseCase{
		userRepo:   userRepo,
		authorRepo: authorRepo,
		catRepo:    catRepo,
	}
}

// ProfileResponse 个人资料响应
type ProfileResponse struct {
	ID                  uint     `json:"id"`
	Username            string   `json:"username"`
	Nickname            string   `json:"nickname"`
	FavouriteCategories []string `json:"favourite_categories"`
	FavouriteAuthors    []string `json:"favourite_authors"`
}

// Execute 查询个人资料
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	catIDs, err := uc.userRepo.ListFavouriteCategoryIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := uc.catRepo.FindByIDs(ctx, catIDs)
	if err != nil {
		return nil, err
	}

	authorIDs, err := uc.userRepo.ListFavouriteAuthorIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authors, err := uc.authorRepo.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Nickname:            u.Nickname,
		FavouriteCategories: make([]string, 0, len(categories)),
		FavouriteAuthors:    make([]string, 0, len(authors)),
	}
	for _, c := range categories {
		resp.FavouriteCategories = append(resp.FavouriteCategories, c.Name)
	}
	for _, a := range authors {
		resp.FavouriteAuthors = append(resp.FavouriteAuthors, a.FullName())
	}
	return resp, nil
}
