package request

import (
	apperrors "github.com/xiebiao/bookswap/pkg/errors"
)

// 交换请求领域错误定义
var (
	// ErrRequestNotFound 交换请求不存在
	ErrRequestNotFound = apperrors.New(apperrors.ErrCodeRequestNotFound, "交换请求不存在")

	// ErrSelfRequest 不能请求自己提供的图书
	ErrSelfRequest = apperrors.New(apperrors.ErrCodeSelfRequest, "不能请求自己提供的图书")

	// ErrInvalidTransition 请求状态流转非法
	ErrInvalidTransition = apperrors.New(apperrors.ErrCodeInvalidTransition, "请求状态流转非法")
)
