package book

import (
	"context"
	"strings"
)

// SearchStrategy 搜索策略标识
// 设计说明:显式枚举选择策略,不做运行时类型推断
// 取值即API的strategy查询参数:0=模糊,1=精确
type SearchStrategy int

const (
	SearchApproximate SearchStrategy = 0 // 模糊匹配(子串/同名包含)
	SearchExact       SearchStrategy = 1 // 精确匹配(书名与作者集合完全相等)
)

// Searcher 搜索策略接口
// 策略多态:每种匹配方式一个实现,输入输出完全一致
type Searcher interface {
	// Search 在目录中检索同时满足关键词与作者条件的图书
	// authors必须是已解析到目录的作者记录(调用方负责按姓名解析,
	// 解析失败时按"无结果"处理而不是调用本方法)
	Search(ctx context.Context, keyword string, authors []Author, catalog Repository) ([]*Book, error)
}

// NewSearcher 根据策略标识创建搜索器
func NewSearcher(strategy SearchStrategy) (Searcher, error) {
	switch strategy {
	case SearchExact:
		return &exactSearcher{}, nil
	case SearchApproximate:
		return &approximateSearcher{}, nil
	default:
		return nil, ErrUnknownSearchStrategy
	}
}

// exactSearcher 精确搜索
// 匹配规则:
// 1. 关键词非空时,书名必须与关键词完全相等
// 2. 图书的作者集合必须与给定作者集合完全相等(按自然键)
type exactSearcher struct{}

func (s *exactSearcher) Search(ctx context.Context, keyword string, authors []Author, catalog Repository) ([]*Book, error) {
	all, err := catalog.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*Book, 0)
	for _, b := range all {
		if keyword != "" && b.Title != keyword {
			continue
		}
		if !authorSetsEqual(b.Authors, authors) {
			continue
		}
		matched = append(matched, b)
	}
	return matched, nil
}

// approximateSearcher 模糊搜索
// 匹配规则:
// 1. 关键词非空时,书名须包含关键词(不区分大小写)
// 2. 图书作者集合与给定作者集合有交集即可(按自然键)
// 说明:匹配算法本身是可插拔策略,语言学质量不在目标范围内,
// 子串+交集足以覆盖"近似"语义
type approximateSearcher struct{}

func (s *approximateSearcher) Search(ctx context.Context, keyword string, authors []Author, catalog Repository) ([]*Book, error) {
	all, err := catalog.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	loweredKeyword := strings.ToLower(keyword)
	matched := make([]*Book, 0)
	for _, b := range all {
		if keyword != "" && !strings.Contains(strings.ToLower(b.Title), loweredKeyword) {
			continue
		}
		if !authorSetsIntersect(b.Authors, authors) {
			continue
		}
		matched = append(matched, b)
	}
	return matched, nil
}

// authorSetsEqual 按自然键判断两个作者集合是否完全相等
func authorSetsEqual(a, b []Author) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.SameName(y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// authorSetsIntersect 按自然键判断两个作者集合是否有交集
// 给定集合为空时视为无交集(搜索必须指定作者)
func authorSetsIntersect(a, b []Author) bool {
	for _, x := range a {
		for _, y := range b {
			if x.SameName(y) {
				return true
			}
		}
	}
	return false
}
