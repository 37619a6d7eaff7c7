package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookswap/internal/domain/book"
	apperrors "github.com/xiebiao/bookswap/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 查询统一Preload作者和分类,返回完整聚合
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
// 教学要点:
// 1. 作者和分类必须已由Upsert解析为目录记录(带ID)
// 2. Omit("Authors.*")避免GORM重复插入已存在的作者,只写联结表
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Title:      b.Title,
		CategoryID: b.Category.ID,
		OwnerID:    b.OwnerID,
	}
	for _, a := range b.Authors {
		model.Authors = append(model.Authors, AuthorModel{
			ID:        a.ID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
		})
	}

	db := r.getDB(ctx)
	if err := db.Omit("Authors.*").Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).
		Preload("Authors").
		Preload("Category").
		First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindAll 查询全部在架图书
// 设计说明:交换池的候选集,可用性过滤在domain层完成,仓储不做过滤
func (r *bookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Category").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	return toBookEntities(models), nil
}

// FindByOwner 查询某用户提供的全部图书
func (r *bookRepository) FindByOwner(ctx context.Context, ownerID uint) ([]*book.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Category").
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询用户图书失败")
	}

	return toBookEntities(models), nil
}

// FindByCategory 查询某分类下的全部图书
func (r *bookRepository) FindByCategory(ctx context.Context, categoryID uint) ([]*book.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "按分类查询图书失败")
	}

	return toBookEntities(models), nil
}

// FindByAuthor 查询某作者的全部图书
// 教学要点:通过联结表book_authors做JOIN,而不是加载作者的全部关联
func (r *bookRepository) FindByAuthor(ctx context.Context, authorID uint) ([]*book.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Category").
		Joins("JOIN book_authors ON book_authors.book_id = books.id").
		Where("book_authors.author_id = ?", authorID).
		Order("books.id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "按作者查询图书失败")
	}

	return toBookEntities(models), nil
}

// Delete 删除图书(软删除)
// 教学要点:必须使用getDB(ctx)参与事务,下架与请求级联清理在同一事务内
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	result := db.Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
// 教学要点:
// 1. 必须使用getDB(ctx)从context获取事务DB,锁只在事务内有意义
// 2. 同一图书的仲裁/撤回/下架都先锁这一行,实现按图书串行化
// 3. 不Preload关联,锁路径只需要ID和OwnerID做校验
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:这是Repository支持事务的关键
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:    model.ID,
		Title: model.Title,
		Category: book.Category{
			ID:   model.Category.ID,
			Name: model.Category.Name,
		},
		OwnerID:   model.OwnerID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	// 未Preload时Category.ID为0,回退到外键列
	if b.Category.ID == 0 {
		b.Category.ID = model.CategoryID
	}
	for _, a := range model.Authors {
		b.Authors = append(b.Authors, book.Author{
			ID:        a.ID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
		})
	}
	return b
}

// toBookEntities 批量转换
func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books
}
