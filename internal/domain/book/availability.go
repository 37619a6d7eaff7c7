package book

import (
	"context"
)

// AcceptedRequestChecker 已接受请求的存在性查询
// 设计说明:
//  1. 在book包定义最小接口(Go惯例:接口定义在使用方),
//     由infrastructure层的交换请求仓储实现,避免domain包互相依赖
//  2. 语义:针对某图书是否存在status=ACCEPTED且requester≠指定用户的请求
type AcceptedRequestChecker interface {
	ExistsAcceptedForBookExcludingRequester(ctx context.Context, bookID, requesterID uint) (bool, error)
}

// AvailabilityFilter 可用性过滤器
// 业务规则(所有列表接口共用的唯一闸门):
//  1. 过滤掉用户自己提供的图书(不能请求自己的书)
//  2. 过滤掉已被"其他人"接受的图书(已承诺给别人的书隐藏);
//     持有ACCEPTED请求的用户本人仍然可见(便于其管理该请求)
type AvailabilityFilter struct {
	requests AcceptedRequestChecker
}

// NewAvailabilityFilter 创建可用性过滤器
func NewAvailabilityFilter(requests AcceptedRequestChecker) *AvailabilityFilter {
	return &AvailabilityFilter{requests: requests}
}

// Filter 对候选集应用两条过滤规则,返回对该用户可见的图书
// 教学要点:
// 1. 纯查询转换,无副作用,不修改输入切片
// 2. 规则顺序:先剔除自有图书(无需查库),再查已接受请求
// 3. 保持候选集原有顺序,不去重(推荐并集的重复项按原始行为保留)
func (f *AvailabilityFilter) Filter(ctx context.Context, candidates []*Book, userID uint) ([]*Book, error) {
	visible := make([]*Book, 0, len(candidates))

	for _, b := range candidates {
		// 规则1:用户自己提供的图书不可见
		if b.IsOwnedBy(userID) {
			continue
		}

		// 规则2:已被其他人接受的图书不可见
		taken, err := f.requests.ExistsAcceptedForBookExcludingRequester(ctx, b.ID, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		visible = append(visible, b)
	}

	return visible, nil
}
