package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookswap/internal/domain/user"
	apperrors "github.com/xiebiao/bookswap/pkg/errors"
)

// userRepository 用户仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如用户名重复),转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Username: u.Username,
		Password: u.Password,
		Nickname: u.Nickname,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 检查是否为用户名重复错误
		if isDuplicateError(err) {
			return apperrors.ErrUsernameDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	// 回填自增ID
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	return toUserEntity(&model), nil
}

// FindByUsername 根据用户名查找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	return toUserEntity(&model), nil
}

// Update 更新用户信息
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	model := &UserModel{
		ID:       u.ID,
		Username: u.Username,
		Password: u.Password,
		Nickname: u.Nickname,
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新用户失败")
	}

	u.UpdatedAt = model.UpdatedAt
	return nil
}

// AddFavouriteCategory 收藏分类
// 教学要点:INSERT IGNORE语义(OnConflict DoNothing),重复收藏是幂等无操作
func (r *userRepository) AddFavouriteCategory(ctx context.Context, userID, categoryID uint) error {
	model := &FavouriteCategoryModel{UserID: userID, CategoryID: categoryID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "收藏分类失败")
	}
	return nil
}

// RemoveFavouriteCategory 取消收藏分类
func (r *userRepository) RemoveFavouriteCategory(ctx context.Context, userID, categoryID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Delete(&FavouriteCategoryModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "取消收藏分类失败")
	}
	return nil
}

// ListFavouriteCategoryIDs 查询用户收藏的分类ID集合
func (r *userRepository) ListFavouriteCategoryIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&FavouriteCategoryModel{}).
		Where("user_id = ?", userID).
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询收藏分类失败")
	}
	return ids, nil
}

// AddFavouriteAuthor 收藏作者
func (r *userRepository) AddFavouriteAuthor(ctx context.Context, userID, authorID uint) error {
	model := &FavouriteAuthorModel{UserID: userID, AuthorID: authorID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "收藏作者失败")
	}
	return nil
}

// RemoveFavouriteAuthor 取消收藏作者
func (r *userRepository) RemoveFavouriteAuthor(ctx context.Context, userID, authorID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&FavouriteAuthorModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "取消收藏作者失败")
	}
	return nil
}

// ListFavouriteAuthorIDs 查询用户收藏的作者ID集合
func (r *userRepository) ListFavouriteAuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&FavouriteAuthorModel{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询收藏作者失败")
	}
	return ids, nil
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Username:  model.Username,
		Password:  model.Password,
		Nickname:  model.Nickname,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
