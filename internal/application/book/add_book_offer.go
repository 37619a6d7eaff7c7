package book

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/user"
	"github.com/xiebiao/bookswap/pkg/metrics"
)

// AddBookOfferUseCase 上架图书用例
// 设计说明:
// 1. 作者字段是逗号分隔的"名 姓"列表,解析后逐个归档
// 2. 作者和分类按自然键去重:已存在则复用记录,不存在则建档
// 3. 归档和建书在同一事务内,失败不留孤儿目录记录
type AddBookOfferUseCase struct {
	bookRepo   book.Repository
	authorRepo book.AuthorRepository
	catRepo    book.CategoryRepository
	userRepo   user.Repository
	txManager  Transactor
}

// NewAddBookOfferUseCase 创建上架用例
func NewAddBookOfferUseCase(
	bookRepo book.Repository,
	authorRepo book.AuthorRepository,
	catRepo book.CategoryRepository,
	userRepo user.Repository,
	txManager Transactor,
) *AddBookOfferUseCase {
	return &AddBookOfferUseCase{
		bookRepo:   bookRepo,
		authorRepo: authorRepo,
		catRepo:    catRepo,
		userRepo:   userRepo,
		txManager:  txManager,
	}
}

// AddBookOfferRequest 上架请求DTO
type AddBookOfferRequest struct {
	OwnerID  uint   // 提供者ID(从JWT中提取)
	Title    string // 书名
	Authors  string // 逗号分隔的作者列表,如"Robert Martin, Martin Fowler"
	Category string // 分类名
}

// AddBookOfferResponse 上架响应DTO
type AddBookOfferResponse struct {
	Book BookInfo `json:"book"`
}

// Execute 执行上架
func (uc *AddBookOfferUseCase) Execute(ctx context.Context, req AddBookOfferRequest) (*AddBookOfferResponse, error) {
	// 1. 参数校验
	if req.Title == "" {
		return nil, book.ErrInvalidTitle
	}
	if req.Category == "" {
		return nil, book.ErrInvalidCategory
	}

	// 2. 校验提供者存在
	if _, err := uc.userRepo.FindByID(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	// 3. 解析作者列表(同名作者在列表内也会去重)
	authors, err := book.ParseAuthorList(req.Authors)
	if err != nil {
		return nil, err
	}

	// 4. 事务内:归档作者/分类 + 建书
	var created *book.Book
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		for i := range authors {
			if err := uc.authorRepo.Upsert(txCtx, &authors[i]); err != nil {
				return err
			}
		}

		category := book.Category{Name: req.Category}
		if err := uc.catRepo.Upsert(txCtx, &category); err != nil {
			return err
		}

		created = book.NewBook(req.Title, authors, category, req.OwnerID)
		return uc.bookRepo.Create(txCtx, created)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.BookOffersTotal)

	return &AddBookOfferResponse{Book: toBookInfo(created)}, nil
}

// toBookInfo 领域实体 → DTO
func toBookInfo(b *book.Book) BookInfo {
	info := BookInfo{
		ID:       b.ID,
		Title:    b.Title,
		Category: b.Category.Name,
		OwnerID:  b.OwnerID,
	}
	for _, a := range b.Authors {
		info.Authors = append(info.Authors, a.FullName())
	}
	return info
}

// toBookInfos 批量转换
func toBookInfos(books []*book.Book) []BookInfo {
	infos := make([]BookInfo, 0, len(books))
	for _, b := range books {
		infos = append(infos, toBookInfo(b))
	}
	return infos
}
