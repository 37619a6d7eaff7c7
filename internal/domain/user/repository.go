package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 收藏的分类/作者只存ID（避免跨聚合引用）,推荐引擎按ID回查目录
type Repository interface {
	// Create 创建用户
	// 注意：如果用户名已存在，应返回errors.ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error

	// AddFavouriteCategory 收藏分类（重复收藏是幂等无操作）
	AddFavouriteCategory(ctx context.Context, userID, categoryID uint) error

	// RemoveFavouriteCategory 取消收藏分类
	RemoveFavouriteCategory(ctx context.Context, userID, categoryID uint) error

	// ListFavouriteCategoryIDs 查询用户收藏的分类ID集合
	ListFavouriteCategoryIDs(ctx context.Context, userID uint) ([]uint, error)

	// AddFavouriteAuthor 收藏作者（重复收藏是幂等无操作）
	AddFavouriteAuthor(ctx context.Context, userID, authorID uint) error

	// RemoveFavouriteAuthor 取消收藏作者
	RemoveFavouriteAuthor(ctx context.Context, userID, authorID uint) error

	// ListFavouriteAuthorIDs 查询用户收藏的作者ID集合
	ListFavouriteAuthorIDs(ctx context.Context, userID uint) ([]uint, error)
}
