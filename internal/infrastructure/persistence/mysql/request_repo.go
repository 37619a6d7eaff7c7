package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookswap/internal/domain/request"
	apperrors "github.com/xiebiao/bookswap/pkg/errors"
)

// requestRepository 交换请求仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/request/repository.go定义的接口
// 2. 所有方法都通过getDB(ctx)取DB,仲裁/级联删除在事务中调用
// 3. 请求是硬删除:撤回或图书下架后不保留痕迹
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository 创建交换请求仓储
func NewRequestRepository(db *gorm.DB) request.Repository {
	return &requestRepository{db: db}
}

// Create 创建请求
func (r *requestRepository) Create(ctx context.Context, req *request.BookRequest) error {
	model := &BookRequestModel{
		BookID:      req.BookID,
		RequesterID: req.RequesterID,
		Status:      int(req.Status),
	}

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建交换请求失败")
	}

	req.ID = model.ID
	req.CreatedAt = model.CreatedAt
	req.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找请求
func (r *requestRepository) FindByID(ctx context.Context, id uint) (*request.BookRequest, error) {
	var model BookRequestModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "查询交换请求失败")
	}

	return toRequestEntity(&model), nil
}

// FindByRequester 查询某用户发起的全部请求(按插入顺序)
func (r *requestRepository) FindByRequester(ctx context.Context, requesterID uint) ([]*request.BookRequest, error) {
	var models []BookRequestModel
	err := r.getDB(ctx).
		Where("requester_id = ?", requesterID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询用户请求失败")
	}

	return toRequestEntities(models), nil
}

// FindByBook 查询针对某图书的全部请求(按插入顺序)
// 教学要点:仲裁时在事务中调用,锁定图书行后本查询看到的是稳定快照
func (r *requestRepository) FindByBook(ctx context.Context, bookID uint) ([]*request.BookRequest, error) {
	var models []BookRequestModel
	err := r.getDB(ctx).
		Where("book_id = ?", bookID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书请求失败")
	}

	return toRequestEntities(models), nil
}

// FindByBookAndRequester 根据(图书,请求者)定位请求
// 同一用户对同一图书有多条请求时返回最早一条(id最小)
func (r *requestRepository) FindByBookAndRequester(ctx context.Context, bookID, requesterID uint) (*request.BookRequest, error) {
	var model BookRequestModel
	err := r.getDB(ctx).
		Where("book_id = ? AND requester_id = ?", bookID, requesterID).
		Order("id ASC").
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "查询交换请求失败")
	}

	return toRequestEntity(&model), nil
}

// ExistsAcceptedForBookExcludingRequester 判断图书是否已被"其他人"接受
// 可用性过滤的核心查询:同时满足book.AcceptedRequestChecker接口
func (r *requestRepository) ExistsAcceptedForBookExcludingRequester(ctx context.Context, bookID, requesterID uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).
		Model(&BookRequestModel{}).
		Where("book_id = ? AND status = ? AND requester_id <> ?",
			bookID, int(request.StatusAccepted), requesterID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询图书接受状态失败")
	}

	return count > 0, nil
}

// Update 更新单条请求
func (r *requestRepository) Update(ctx context.Context, req *request.BookRequest) error {
	db := r.getDB(ctx)
	result := db.Model(&BookRequestModel{}).
		Where("id = ?", req.ID).
		Update("status", int(req.Status))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新交换请求失败")
	}
	if result.RowsAffected == 0 {
		return request.ErrRequestNotFound
	}
	return nil
}

// SaveAll 批量保存请求(仲裁结果落库)
// 教学要点:
// 1. 必须在同一事务中执行,调用方通过TxManager传递事务context
// 2. 一条UPDATE语句写一行,循环覆盖全部仲裁结果,事务保证原子性
func (r *requestRepository) SaveAll(ctx context.Context, reqs []*request.BookRequest) error {
	db := r.getDB(ctx)
	for _, req := range reqs {
		err := db.Model(&BookRequestModel{}).
			Where("id = ?", req.ID).
			Update("status", int(req.Status)).Error
		if err != nil {
			return apperrors.Wrap(err, "批量保存仲裁结果失败")
		}
	}
	return nil
}

// Delete 删除请求(硬删除)
func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	result := db.Unscoped().Delete(&BookRequestModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除交换请求失败")
	}
	if result.RowsAffected == 0 {
		return request.ErrRequestNotFound
	}
	return nil
}

// DeleteByBook 删除某图书的全部请求(图书下架时级联清理)
func (r *requestRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	db := r.getDB(ctx)
	err := db.Unscoped().
		Where("book_id = ?", bookID).
		Delete(&BookRequestModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "级联删除图书请求失败")
	}
	return nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:这是Repository支持事务的关键
func (r *requestRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// toRequestEntity GORM模型 → 领域实体
func toRequestEntity(model *BookRequestModel) *request.BookRequest {
	return &request.BookRequest{
		ID:          model.ID,
		BookID:      model.BookID,
		RequesterID: model.RequesterID,
		Status:      request.Status(model.Status),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// toRequestEntities 批量转换
func toRequestEntities(models []BookRequestModel) []*request.BookRequest {
	reqs := make([]*request.BookRequest, 0, len(models))
	for i := range models {
		reqs = append(reqs, toRequestEntity(&models[i]))
	}
	return reqs
}
