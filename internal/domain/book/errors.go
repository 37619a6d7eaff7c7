package book

import (
	apperrors "github.com/xiebiao/bookswap/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrBookNotOwned 图书不属于该用户(下架他人图书)
	ErrBookNotOwned = apperrors.New(apperrors.ErrCodeBookNotOwned, "图书不属于该用户")

	// ErrAuthorNotFound 作者不存在(搜索时按姓名解析失败)
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")

	// ErrInvalidAuthorName 作者姓名格式非法(需要"名 姓"两段)
	ErrInvalidAuthorName = apperrors.New(apperrors.ErrCodeInvalidParams, "作者姓名格式非法")

	// ErrInvalidTitle 书名为空
	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrInvalidCategory 分类名为空
	ErrInvalidCategory = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名不能为空")

	// ErrUnknownSearchStrategy 未知的搜索策略
	ErrUnknownSearchStrategy = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的搜索策略")
)
