package request

import (
	"context"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/request"
	"github.com/xiebiao/bookswap/internal/domain/user"
)

// ListUserRequestsUseCase 查询用户发起的全部请求
type ListUserRequestsUseCase struct {
	requestRepo request.Repository
	bookRepo    book.Repository
}

// NewListUserRequestsUseCase 创建查询用户请求用例
func NewListUserRequestsUseCase(requestRepo request.Repository, bookRepo book.Repository) *ListUserRequestsUseCase {
	return &ListUserRequestsUseCase{requestRepo: requestRepo, bookRepo: bookRepo}
}

// RequestInfo 请求信息DTO
type RequestInfo struct {
	RequestID   uint   `json:"request_id"`
	BookID      uint   `json:"book_id"`
	BookTitle   string `json:"book_title,omitempty"`
	RequesterID uint   `json:"requester_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Execute 执行查询(按发起顺序返回)
func (uc *ListUserRequestsUseCase) Execute(ctx context.Context, requesterID uint) ([]RequestInfo, error) {
	reqs, err := uc.requestRepo.FindByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	infos := make([]RequestInfo, 0, len(reqs))
	for _, r := range reqs {
		info := toRequestInfo(r)
		// 补充书名,图书已下架的请求不应存在(级联删除),查不到时留空
		if b, err := uc.bookRepo.FindByID(ctx, r.BookID); err == nil {
			info.BookTitle = b.Title
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ListBookRequestsUseCase 查询某图书收到的全部请求(供拥有者仲裁前审阅)
type ListBookRequestsUseCase struct {
	requestRepo request.Repository
	bookRepo    book.Repository
	userRepo    user.Repository
}

// NewListBookRequestsUseCase 创建查询图书请求用例
func NewListBookRequestsUseCase(
	requestRepo request.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
) *ListBookRequestsUseCase {
	return &ListBookRequestsUseCase{
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
		userRepo:    userRepo,
	}
}

// RequestingUserInfo 请求者信息DTO
type RequestingUserInfo struct {
	RequestID   uint   `json:"request_id"`
	RequesterID uint   `json:"requester_id"`
	Nickname    string `json:"nickname"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Execute 执行查询
// 教学要点:只有图书拥有者能查看请求列表
func (uc *ListBookRequestsUseCase) Execute(ctx context.Context, bookID, ownerID uint) ([]RequestingUserInfo, error) {
	b, err := uc.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(ownerID) {
		return nil, book.ErrBookNotOwned
	}

	reqs, err := uc.requestRepo.FindByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	infos := make([]RequestingUserInfo, 0, len(reqs))
	for _, r := range reqs {
		info := RequestingUserInfo{
			RequestID:   r.ID,
			RequesterID: r.RequesterID,
			Status:      r.Status.String(),
			CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if u, err := uc.userRepo.FindByID(ctx, r.RequesterID); err == nil {
			info.Nickname = u.Nickname
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// toRequestInfo 领域实体 → DTO
func toRequestInfo(r *request.BookRequest) RequestInfo {
	return RequestInfo{
		RequestID:   r.ID,
		BookID:      r.BookID,
		RequesterID: r.RequesterID,
		Status:      r.Status.String(),
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
