package request

import (
	"time"
)

// Status 交换请求状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为类型别名,便于添加方法
// 3. PENDING是唯一的非终态,仲裁后只能是ACCEPTED/DECLINED之一
type Status int

const (
	StatusPending  Status = 1 // 待仲裁
	StatusAccepted Status = 2 // 已接受(图书拥有者选中了该请求者)
	StatusDeclined Status = 3 // 已拒绝(兄弟请求被接受时自动拒绝)
)

// String 实现Stringer接口(API响应与日志输出)
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusAccepted:
		return "ACCEPTED"
	case StatusDeclined:
		return "DECLINED"
	default:
		return "UNKNOWN"
	}
}

// BookRequest 交换请求实体(聚合根)
// 教学要点:
//  1. 不直接关联Book/User对象,只保存BookID/RequesterID(避免跨聚合引用)
//  2. 同一用户对同一图书允许存在多条PENDING请求(保留原始产品行为)
//  3. 核心不变量:同一图书任意时刻至多一条ACCEPTED请求,
//     该不变量由仲裁用例在图书行锁内维护,实体只负责单条请求的状态流转
type BookRequest struct {
	ID          uint
	BookID      uint // 被请求的图书ID
	RequesterID uint // 请求者用户ID
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBookRequest 创建新请求(工厂方法)
// 初始状态为Pending(待仲裁)
func NewBookRequest(bookID, requesterID uint) *BookRequest {
	now := time.Now()
	return &BookRequest{
		BookID:      bookID,
		RequesterID: requesterID,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机设计,防止非法状态跳转
// 规则:PENDING→ACCEPTED/DECLINED;ACCEPTED/DECLINED是终态,
// 只允许幂等的自转换(重复仲裁同一请求是无操作,不是错误)
func (r *BookRequest) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:  {StatusAccepted, StatusDeclined}, // 待仲裁→已接受/已拒绝
		StatusAccepted: {StatusAccepted},                 // 终态,仅幂等自转换
		StatusDeclined: {StatusDeclined},                 // 终态,仅幂等自转换
	}

	allowedTargets, exists := transitions[r.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 自转换直接返回nil且不更新UpdatedAt(幂等无操作)
func (r *BookRequest) TransitionTo(target Status) error {
	if r.Status == target {
		return nil
	}
	if !r.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	r.Status = target
	r.UpdatedAt = time.Now()
	return nil
}

// Accept 接受请求(领域行为,仅由仲裁用例调用)
func (r *BookRequest) Accept() error {
	return r.TransitionTo(StatusAccepted)
}

// Decline 拒绝请求(领域行为,兄弟请求被接受时调用)
func (r *BookRequest) Decline() error {
	return r.TransitionTo(StatusDeclined)
}

// IsAccepted 是否已被接受
func (r *BookRequest) IsAccepted() bool {
	return r.Status == StatusAccepted
}

// IsPending 是否待仲裁
func (r *BookRequest) IsPending() bool {
	return r.Status == StatusPending
}

// IsMadeBy 检查请求是否由指定用户发起
// 教学要点:权限校验,防止用户操作他人请求
func (r *BookRequest) IsMadeBy(userID uint) bool {
	return r.RequesterID == userID
}
