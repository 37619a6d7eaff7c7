package book

import (
	"context"
	"errors"
	"testing"
)

// stubCatalog 内存目录，只实现搜索需要的FindAll
type stubCatalog struct {
	books []*Book
}

func (s *stubCatalog) Create(ctx context.Context, b *Book) error { return nil }
func (s *stubCatalog) FindByID(ctx context.Context, id uint) (*Book, error) {
	return nil, ErrBookNotFound
}
func (s *stubCatalog) FindAll(ctx context.Context) ([]*Book, error) { return s.books, nil }
func (s *stubCatalog) FindByOwner(ctx context.Context, ownerID uint) ([]*Book, error) {
	return nil, nil
}
func (s *stubCatalog) FindByCategory(ctx context.Context, categoryID uint) ([]*Book, error) {
	return nil, nil
}
func (s *stubCatalog) FindByAuthor(ctx context.Context, authorID uint) ([]*Book, error) {
	return nil, nil
}
func (s *stubCatalog) Delete(ctx context.Context, id uint) error { return nil }
func (s *stubCatalog) LockByID(ctx context.Context, id uint) (*Book, error) {
	return nil, ErrBookNotFound
}

var (
	evans  = Author{ID: 1, FirstName: "Eric", LastName: "Evans"}
	martin = Author{ID: 2, FirstName: "Robert", LastName: "Martin"}
	fowler = Author{ID: 3, FirstName: "Martin", LastName: "Fowler"}
)

func testCatalog() *stubCatalog {
	return &stubCatalog{books: []*Book{
		{ID: 1, Title: "Domain-Driven Design", Authors: []Author{evans}, OwnerID: 1},
		{ID: 2, Title: "Clean Code", Authors: []Author{martin}, OwnerID: 2},
		{ID: 3, Title: "Refactoring", Authors: []Author{fowler}, OwnerID: 3},
		{ID: 4, Title: "Clean Architecture", Authors: []Author{martin, fowler}, OwnerID: 2},
	}}
}

// TestNewSearcher 测试策略工厂
func TestNewSearcher(t *testing.T) {
	if _, err := NewSearcher(SearchExact); err != nil {
		t.Errorf("精确策略应该可用: %v", err)
	}
	if _, err := NewSearcher(SearchApproximate); err != nil {
		t.Errorf("模糊策略应该可用: %v", err)
	}
	if _, err := NewSearcher(SearchStrategy(7)); !errors.Is(err, ErrUnknownSearchStrategy) {
		t.Errorf("未知策略应该返回ErrUnknownSearchStrategy，实际: %v", err)
	}
}

// TestExactSearch 测试精确搜索
//
// 匹配规则：书名完全相等 + 作者集合完全相等
func TestExactSearch(t *testing.T) {
	ctx := context.Background()
	catalog := testCatalog()
	searcher, _ := NewSearcher(SearchExact)

	t.Run("书名与作者完全匹配", func(t *testing.T) {
		books, err := searcher.Search(ctx, "Clean Code", []Author{martin}, catalog)
		if err != nil {
			t.Fatalf("搜索失败: %v", err)
		}
		if len(books) != 1 || books[0].ID != 2 {
			t.Errorf("期望命中图书2，实际: %v", books)
		}
	})

	t.Run("部分书名不命中", func(t *testing.T) {
		books, err := searcher.Search(ctx, "Clean", []Author{martin}, catalog)
		if err != nil {
			t.Fatalf("搜索失败: %v", err)
		}
		if len(books) != 0 {
			t.Errorf("部分书名不应该命中，实际: %v", books)
		}
	})

	t.Run("作者集合必须完全相等", func(t *testing.T) {
		// 图书4有两位作者，只给一位不算精确匹配
		books, err := searcher.Search(ctx, "Clean Architecture", []Author{martin}, catalog)
		if err != nil {
			t.Fatalf("搜索失败: %v", err)
		}
		if len(books) != 0 {
			t.Errorf("作者集合不相等不应该命中，实际: %v", books)
		}

		books, err = searcher.Search(ctx, "Clean Architecture", []Author{fowler, martin}, catalog)
		if err != nil {
			t.Fatalf("搜索失败: %v", err)
		}
		if len(books) != 1 || books[0].ID != 4 {
			t.Errorf("作者集合相等(顺序无关)应该命中，实际: %v", books)
		}
	})

	t.Run("空关键词只按作者匹配", func(t *testing.T) {
		books, err := searcher.Search(ctx, "", []Author{evans}, catalog)
		if err != nil {
			t.Fatalf("搜索失败: %v", err)
		}
		if len(books) != 1 || books[0].ID != 1 {
			t.Errorf("期望命中图书1，实际: %v", books)
		}
	})
}

// TestApproximateSearch 测试模糊搜索
//
// 匹配规则：书名包含关键词(不区分大小写) + 作者集合有交集
func TestApproximateSearch(t *testing.T) {
	ctx := context.Background()
	catalog := testCatalog()
	searcher, _ := NewSearcher(SearchApproximate)

	t.Run("子串命中", func(t *testing.T) {
		books, err := searcher.Search(ctx, "clean", []Author{martin}, catalog)
		if err != nil {
			t.Fatalf("搜索失败: %v", err)
		}
		if len(books) != 2 {
			t.Errorf("期望命中2本(Clean Code与Clean Architecture)，实际: %d", len(books))
		}
	})

	t.Run("作者交集即可命中", func(t *testing.T) {
		// fowler只是图书4的作者之一
		books, err := searcher.Search(ctx, "", []Author{fowler}, catalog)
		if err != nil {
			t.Fatalf("搜索失败: %v", err)
		}
		if len(books) != 2 {
			t.Errorf("期望命中2本(Refactoring与Clean Architecture)，实际: %d", len(books))
		}
	})

	t.Run("空作者集合视为无交集", func(t *testing.T) {
		books, err := searcher.Search(ctx, "clean", nil, catalog)
		if err != nil {
			t.Fatalf("搜索失败: %v", err)
		}
		if len(books) != 0 {
			t.Errorf("空作者集合不应该命中任何图书，实际: %v", books)
		}
	})
}
