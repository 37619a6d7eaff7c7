package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookswap/internal/domain/book"
	apperrors "github.com/xiebiao/bookswap/pkg/errors"
)

// authorRepository 作者仓储实现(MySQL)
// 设计说明:
//  1. 作者按自然键(名+姓)去重,由idx_author_name唯一索引兜底
//  2. Upsert用INSERT IGNORE语义(OnConflict DoNothing),不做check-then-insert
//     教学要点:先查再插在并发下有竞态,两个请求可能同时判断"不存在"
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) book.AuthorRepository {
	return &authorRepository{db: db}
}

// FindByName 按自然键查找作者
func (r *authorRepository) FindByName(ctx context.Context, firstName, lastName string) (*book.Author, error) {
	var model AuthorModel
	err := r.db.WithContext(ctx).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrAuthorNotFound
		}
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	return &book.Author{ID: model.ID, FirstName: model.FirstName, LastName: model.LastName}, nil
}

// FindByIDs 批量查询作者
func (r *authorRepository) FindByIDs(ctx context.Context, ids []uint) ([]book.Author, error) {
	if len(ids) == 0 {
		return []book.Author{}, nil
	}

	var models []AuthorModel
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	authors := make([]book.Author, 0, len(models))
	for _, m := range models {
		authors = append(authors, book.Author{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName})
	}
	return authors, nil
}

// Upsert 幂等插入作者,回填author.ID
// 教学要点:
// 1. OnConflict DoNothing:唯一索引冲突时静默跳过,不报错
// 2. 冲突时GORM不回填ID(model.ID保持0),需要按自然键重查一次
func (r *authorRepository) Upsert(ctx context.Context, author *book.Author) error {
	model := &AuthorModel{
		FirstName: author.FirstName,
		LastName:  author.LastName,
	}

	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "写入作者失败")
	}

	if model.ID == 0 {
		// 冲突路径:作者已存在,重查获取ID
		var existing AuthorModel
		err = db.Where("first_name = ? AND last_name = ?", author.FirstName, author.LastName).
			First(&existing).Error
		if err != nil {
			return apperrors.Wrap(err, "查询作者失败")
		}
		model.ID = existing.ID
	}

	author.ID = model.ID
	return nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *authorRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// categoryRepository 分类仓储实现(MySQL)
// 与authorRepository相同的幂等去重语义,自然键为分类名
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) book.CategoryRepository {
	return &categoryRepository{db: db}
}

// FindByName 按分类名查找分类
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*book.Category, error) {
	var model CategoryModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "分类不存在")
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	return &book.Category{ID: model.ID, Name: model.Name}, nil
}

// FindByIDs 批量查询分类
func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]book.Category, error) {
	if len(ids) == 0 {
		return []book.Category{}, nil
	}

	var models []CategoryModel
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	categories := make([]book.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, book.Category{ID: m.ID, Name: m.Name})
	}
	return categories, nil
}

// Upsert 幂等插入分类,回填category.ID
func (r *categoryRepository) Upsert(ctx context.Context, category *book.Category) error {
	model := &CategoryModel{Name: category.Name}

	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "写入分类失败")
	}

	if model.ID == 0 {
		var existing CategoryModel
		err = db.Where("name = ?", category.Name).First(&existing).Error
		if err != nil {
			return apperrors.Wrap(err, "查询分类失败")
		}
		model.ID = existing.ID
	}

	category.ID = model.ID
	return nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *categoryRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
