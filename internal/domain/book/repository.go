package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 查询均返回带Authors/Category的完整聚合
type Repository interface {
	// Create 创建图书(作者和分类必须已解析为目录记录)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindAll 查询全部在架图书(交换池的候选集)
	FindAll(ctx context.Context) ([]*Book, error)

	// FindByOwner 查询某用户提供的全部图书(用户的交换列表)
	FindByOwner(ctx context.Context, ownerID uint) ([]*Book, error)

	// FindByCategory 查询某分类下的全部图书(按分类推荐)
	FindByCategory(ctx context.Context, categoryID uint) ([]*Book, error)

	// FindByAuthor 查询某作者的全部图书(按作者推荐)
	FindByAuthor(ctx context.Context, authorID uint) ([]*Book, error)

	// Delete 删除图书(下架,物理删除由调用方在事务里级联处理请求)
	Delete(ctx context.Context, id uint) error

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
	// 仲裁与级联删除的并发安全基础:同一图书的selectRequester/
	// deleteBookRequest/deleteBookOffer都先锁定该行,实现按图书串行化
	LockByID(ctx context.Context, id uint) (*Book, error)
}

// AuthorRepository 作者仓储接口
// 设计说明:按自然键(姓+名)去重,Upsert是幂等的"存在即复用"操作,
// 由数据库唯一索引兜底,不做check-then-insert(避免竞态)
type AuthorRepository interface {
	// FindByName 按自然键查找作者
	// 如果不存在,返回ErrAuthorNotFound
	FindByName(ctx context.Context, firstName, lastName string) (*Author, error)

	// FindByIDs 批量查询作者(收藏列表展示用,缺失的ID静默跳过)
	FindByIDs(ctx context.Context, ids []uint) ([]Author, error)

	// Upsert 幂等插入:不存在则插入,存在则复用,回填author.ID
	Upsert(ctx context.Context, author *Author) error
}

// CategoryRepository 分类仓储接口
// 与AuthorRepository相同的幂等去重语义
type CategoryRepository interface {
	// FindByName 按分类名查找分类
	// 如果不存在,返回ErrBookNotFound同族的NotFound错误
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindByIDs 批量查询分类(收藏列表展示用,缺失的ID静默跳过)
	FindByIDs(ctx context.Context, ids []uint) ([]Category, error)

	// Upsert 幂等插入:不存在则插入,存在则复用,回填category.ID
	Upsert(ctx context.Context, category *Category) error
}
