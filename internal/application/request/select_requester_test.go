package request

import (
	"context"
	"errors"
	"testing"

	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/request"
)

// passthroughTx 直通事务：测试时直接执行回调，不碰数据库
type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRequestRepo 内存请求仓储，按插入顺序保存
type memRequestRepo struct {
	reqs []*request.BookRequest
}

func (m *memRequestRepo) Create(ctx context.Context, r *request.BookRequest) error {
	r.ID = uint(len(m.reqs) + 1)
	m.reqs = append(m.reqs, r)
	return nil
}

func (m *memRequestRepo) FindByID(ctx context.Context, id uint) (*request.BookRequest, error) {
	for _, r := range m.reqs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, request.ErrRequestNotFound
}

func (m *memRequestRepo) FindByRequester(ctx context.Context, requesterID uint) ([]*request.BookRequest, error) {
	var out []*request.BookRequest
	for _, r := range m.reqs {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRequestRepo) FindByBook(ctx context.Context, bookID uint) ([]*request.BookRequest, error) {
	var out []*request.BookRequest
	for _, r := range m.reqs {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRequestRepo) FindByBookAndRequester(ctx context.Context, bookID, requesterID uint) (*request.BookRequest, error) {
	for _, r := range m.reqs {
		if r.BookID == bookID && r.RequesterID == requesterID {
			return r, nil
		}
	}
	return nil, request.ErrRequestNotFound
}

func (m *memRequestRepo) ExistsAcceptedForBookExcludingRequester(ctx context.Context, bookID, requesterID uint) (bool, error) {
	for _, r := range m.reqs {
		if r.BookID == bookID && r.Status == request.StatusAccepted && r.RequesterID != requesterID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRequestRepo) Update(ctx context.Context, r *request.BookRequest) error { return nil }

func (m *memRequestRepo) SaveAll(ctx context.Context, reqs []*request.BookRequest) error { return nil }

func (m *memRequestRepo) Delete(ctx context.Context, id uint) error {
	kept := m.reqs[:0]
	for _, r := range m.reqs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.reqs = kept
	return nil
}

func (m *memRequestRepo) DeleteByBook(ctx context.Context, bookID uint) error {
	kept := m.reqs[:0]
	for _, r := range m.reqs {
		if r.BookID != bookID {
			kept = append(kept, r)
		}
	}
	m.reqs = kept
	return nil
}

// stubBookRepo 只托管一本书的仓储桩
type stubBookRepo struct {
	b *book.Book
}

func (s *stubBookRepo) Create(ctx context.Context, b *book.Book) error { return nil }
func (s *stubBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	if s.b != nil && s.b.ID == id {
		return s.b, nil
	}
	return nil, book.ErrBookNotFound
}
func (s *stubBookRepo) FindAll(ctx context.Context) ([]*book.Book, error) { return nil, nil }
func (s *stubBookRepo) FindByOwner(ctx context.Context, ownerID uint) ([]*book.Book, error) {
	return nil, nil
}
func (s *stubBookRepo) FindByCategory(ctx context.Context, categoryID uint) ([]*book.Book, error) {
	return nil, nil
}
func (s *stubBookRepo) FindByAuthor(ctx context.Context, authorID uint) ([]*book.Book, error) {
	return nil, nil
}
func (s *stubBookRepo) Delete(ctx context.Context, id uint) error { return nil }
func (s *stubBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return s.FindByID(ctx, id)
}

// recordingPublisher 记录发布的路由键
type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(routingKey string, message interface{}) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

// arbitrationFixture 一本书+三条待仲裁请求
func arbitrationFixture() (*SelectRequesterUseCase, *memRequestRepo, *recordingPublisher) {
	bookRepo := &stubBookRepo{b: &book.Book{ID: 10, Title: "Go程序设计语言", OwnerID: 1}}
	requestRepo := &memRequestRepo{}
	for _, requesterID := range []uint{2, 3, 4} {
		_ = requestRepo.Create(context.Background(), request.NewBookRequest(10, requesterID))
	}
	publisher := &recordingPublisher{}
	uc := NewSelectRequesterUseCase(requestRepo, bookRepo, passthroughTx{}, publisher)
	return uc, requestRepo, publisher
}

func countKeys(keys []string, want string) int {
	n := 0
	for _, k := range keys {
		if k == want {
			n++
		}
	}
	return n
}

// TestSelectRequester_Arbitrate 测试首次仲裁
//
// 规则：选中的请求变ACCEPTED，其余全部DECLINED，
// 每条发生流转的请求各发布一条事件
func TestSelectRequester_Arbitrate(t *testing.T) {
	uc, repo, publisher := arbitrationFixture()

	resp, err := uc.Execute(context.Background(), SelectRequesterRequest{RequestID: 1, OwnerID: 1})
	if err != nil {
		t.Fatalf("仲裁失败: %v", err)
	}

	if resp.AcceptedRequestID != 1 {
		t.Errorf("期望接受请求1，实际: %d", resp.AcceptedRequestID)
	}
	if resp.DeclinedCount != 2 {
		t.Errorf("期望拒绝2条，实际: %d", resp.DeclinedCount)
	}

	for _, r := range repo.reqs {
		want := request.StatusDeclined
		if r.ID == 1 {
			want = request.StatusAccepted
		}
		if r.Status != want {
			t.Errorf("请求%d状态期望%v，实际%v", r.ID, want, r.Status)
		}
	}

	if n := countKeys(publisher.keys, "request.accepted"); n != 1 {
		t.Errorf("期望发布1条request.accepted，实际%d条", n)
	}
	if n := countKeys(publisher.keys, "request.declined"); n != 2 {
		t.Errorf("期望发布2条request.declined，实际%d条", n)
	}
}

// TestSelectRequester_ReplayPublishesNothing 测试幂等重放
//
// 重复选中同一条请求是无操作：调用成功，但没有请求发生流转，
// 不重复发布事件，也不重复计入拒绝数
func TestSelectRequester_ReplayPublishesNothing(t *testing.T) {
	uc, _, publisher := arbitrationFixture()
	ctx := context.Background()

	if _, err := uc.Execute(ctx, SelectRequesterRequest{RequestID: 1, OwnerID: 1}); err != nil {
		t.Fatalf("首次仲裁失败: %v", err)
	}

	publisher.keys = nil
	resp, err := uc.Execute(ctx, SelectRequesterRequest{RequestID: 1, OwnerID: 1})
	if err != nil {
		t.Fatalf("重放仲裁应该成功: %v", err)
	}

	if resp.AcceptedRequestID != 1 {
		t.Errorf("重放应该返回同一条被接受的请求，实际: %d", resp.AcceptedRequestID)
	}
	if resp.DeclinedCount != 0 {
		t.Errorf("重放不应该新增拒绝，实际: %d", resp.DeclinedCount)
	}
	if len(publisher.keys) != 0 {
		t.Errorf("重放不应该发布事件，实际发布了: %v", publisher.keys)
	}
}

// TestSelectRequester_RepickFails 测试改选
func TestSelectRequester_RepickFails(t *testing.T) {
	uc, _, _ := arbitrationFixture()
	ctx := context.Background()

	if _, err := uc.Execute(ctx, SelectRequesterRequest{RequestID: 1, OwnerID: 1}); err != nil {
		t.Fatalf("首次仲裁失败: %v", err)
	}

	if _, err := uc.Execute(ctx, SelectRequesterRequest{RequestID: 2, OwnerID: 1}); !errors.Is(err, request.ErrInvalidTransition) {
		t.Errorf("改选已拒绝的请求应该返回ErrInvalidTransition，实际: %v", err)
	}
}

// TestSelectRequester_NotOwner 测试授权校验
func TestSelectRequester_NotOwner(t *testing.T) {
	uc, _, publisher := arbitrationFixture()

	_, err := uc.Execute(context.Background(), SelectRequesterRequest{RequestID: 1, OwnerID: 99})
	if !errors.Is(err, book.ErrBookNotOwned) {
		t.Errorf("非书主仲裁应该返回ErrBookNotOwned，实际: %v", err)
	}
	if len(publisher.keys) != 0 {
		t.Errorf("仲裁失败不应该发布事件，实际: %v", publisher.keys)
	}
}
