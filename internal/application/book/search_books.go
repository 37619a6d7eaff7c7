package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookswap/internal/domain/book"
)

// SearchBooksUseCase 搜索图书用例
// 设计说明:
//  1. 作者字段是必填项:为空直接返回空结果
//  2. 作者解析是fail-closed的:任何一个作者不在档案中,结果为空
//     (作者档案随图书上架建立,搜索不存在的作者必然无结果)
//  3. 搜索结果经过可用性过滤,只展示当前用户可请求的图书
type SearchBooksUseCase struct {
	bookRepo   book.Repository
	authorRepo book.AuthorRepository
	filter     *book.AvailabilityFilter
}

// NewSearchBooksUseCase 创建搜索用例
func NewSearchBooksUseCase(
	bookRepo book.Repository,
	authorRepo book.AuthorRepository,
	filter *book.AvailabilityFilter,
) *SearchBooksUseCase {
	return &SearchBooksUseCase{
		bookRepo:   bookRepo,
		authorRepo: authorRepo,
		filter:     filter,
	}
}

// SearchBooksRequest 搜索请求DTO
type SearchBooksRequest struct {
	UserID   uint                // 当前用户ID(用于可用性过滤)
	Keyword  string              // 书名关键字
	Authors  string              // 逗号分隔的作者列表(必填)
	Strategy book.SearchStrategy // 搜索策略:0近似/1精确
}

// Execute 执行搜索
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) ([]BookInfo, error) {
	// 1. 作者字段为空:空结果
	if req.Authors == "" {
		return []BookInfo{}, nil
	}

	// 2. 解析并归档核对作者(fail-closed)
	parsed, err := book.ParseAuthorList(req.Authors)
	if err != nil {
		return nil, err
	}

	authors := make([]book.Author, 0, len(parsed))
	for _, a := range parsed {
		resolved, err := uc.authorRepo.FindByName(ctx, a.FirstName, a.LastName)
		if err != nil {
			if errors.Is(err, book.ErrAuthorNotFound) {
				// 作者无档案,必然无结果
				return []BookInfo{}, nil
			}
			return nil, err
		}
		authors = append(authors, *resolved)
	}

	// 3. 按策略搜索
	searcher, err := book.NewSearcher(req.Strategy)
	if err != nil {
		return nil, err
	}
	results, err := searcher.Search(ctx, req.Keyword, authors, uc.bookRepo)
	if err != nil {
		return nil, err
	}

	// 4. 可用性过滤
	available, err := uc.filter.Filter(ctx, results, req.UserID)
	if err != nil {
		return nil, err
	}

	return toBookInfos(available), nil
}
