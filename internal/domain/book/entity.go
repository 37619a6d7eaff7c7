package book

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,Author/Category是按自然键去重的共享实体
// 2. OwnerID关联提供图书的用户(同一时刻一本书只属于一个用户的交换列表)
// 3. Authors是集合语义:同名作者在目录中复用同一条记录
type Book struct {
	ID        uint
	Title     string   // 书名
	Authors   []Author // 作者集合(自然键:姓+名)
	Category  Category // 图书分类(自然键:分类名)
	OwnerID   uint     // 提供者用户ID(关联User表)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// 调用方必须先通过AuthorRepository/CategoryRepository把作者和分类
// 解析成目录中已有的记录(带ID),再组装Book
func NewBook(title string, authors []Author, category Category, ownerID uint) *Book {
	now := time.Now()
	return &Book{
		Title:     title,
		Authors:   authors,
		Category:  category,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOwnedBy 检查图书是否由指定用户提供
// 可用性过滤的第一道规则:用户看不到自己提供的图书
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.OwnerID == userID
}

// HasAuthor 检查图书作者集合是否包含指定作者(按自然键)
func (b *Book) HasAuthor(author Author) bool {
	for _, a := range b.Authors {
		if a.SameName(author) {
			return true
		}
	}
	return false
}

// Author 作者实体
// 自然键:FirstName+LastName,数据库层用唯一索引保证去重
type Author struct {
	ID        uint
	FirstName string
	LastName  string
}

// FullName 返回"名 姓"格式的完整姓名
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// SameName 按自然键比较两个作者
func (a Author) SameName(other Author) bool {
	return a.FirstName == other.FirstName && a.LastName == other.LastName
}

// ParseAuthorName 解析"First Last"格式的作者姓名
// 多余的空白会被忽略;少于两段视为非法
func ParseAuthorName(raw string) (Author, error) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return Author{}, ErrInvalidAuthorName
	}
	// 姓可能由多个词组成(如"Le Guin"),第一个词之后全部归入姓
	return Author{
		FirstName: fields[0],
		LastName:  strings.Join(fields[1:], " "),
	}, nil
}

// ParseAuthorList 解析逗号分隔的作者列表("Jane Doe, John Roe")
// 按自然键去重:同名作者只保留一个
func ParseAuthorList(raw string) ([]Author, error) {
	parts := strings.Split(raw, ",")
	authors := make([]Author, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		author, err := ParseAuthorName(part)
		if err != nil {
			return nil, err
		}
		duplicate := false
		for _, existing := range authors {
			if existing.SameName(author) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			authors = append(authors, author)
		}
	}
	if len(authors) == 0 {
		return nil, ErrInvalidAuthorName
	}
	return authors, nil
}

// Category 图书分类实体
// 自然键:Name,数据库层用唯一索引保证去重
type Category struct {
	ID   uint
	Name string
}
