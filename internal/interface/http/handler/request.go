package handler

import (
	"github.com/gin-gonic/gin"

	apprequest "github.com/xiebiao/bookswap/internal/application/request"
	"github.com/xiebiao/bookswap/internal/interface/http/dto"
	"github.com/xiebiao/bookswap/internal/interface/http/middleware"
	"github.com/xiebiao/bookswap/pkg/response"
)

// RequestHandler 交换请求HTTP处理器
type RequestHandler struct {
	requestUseCase  *apprequest.RequestBookUseCase
	deleteUseCase   *apprequest.DeleteRequestUseCase
	selectUseCase   *apprequest.SelectRequesterUseCase
	listMineUseCase *apprequest.ListUserRequestsUseCase
	listBookUseCase *apprequest.ListBookRequestsUseCase
}

// NewRequestHandler 创建交换请求处理器
func NewRequestHandler(
	requestUseCase *apprequest.RequestBookUseCase,
	deleteUseCase *apprequest.DeleteRequestUseCase,
	selectUseCase *apprequest.SelectRequesterUseCase,
	listMineUseCase *apprequest.ListUserRequestsUseCase,
	listBookUseCase *apprequest.ListBookRequestsUseCase,
) *RequestHandler {
	return &RequestHandler{
		requestUseCase:  requestUseCase,
		deleteUseCase:   deleteUseCase,
		selectUseCase:   selectUseCase,
		listMineUseCase: listMineUseCase,
		listBookUseCase: listBookUseCase,
	}
}

// RequestBook 发起交换请求
// @Summary      发起交换请求
// @Description  对一本他人提供的图书发起交换请求
// @Tags         交换请求
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RequestBookRequest true "目标图书"
// @Success      200 {object} response.Response{data=dto.RequestResponse} "请求成功"
// @Failure      400 {object} response.Response "不能请求自己提供的图书"
// @Router       /api/v1/requests [post]
func (h *RequestHandler) RequestBook(c *gin.Context) {
	var req dto.RequestBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	result, err := h.requestUseCase.Execute(c.Request.Context(), apprequest.RequestBookRequest{
		BookID:      req.BookID,
		RequesterID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.RequestResponse{
		RequestID: result.RequestID,
		BookID:    result.BookID,
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
	})
}

// DeleteRequest 撤回交换请求
// @Summary      撤回交换请求
// @Description  撤回自己对某图书的请求;撤回已接受的请求会清空该图书的全部请求
// @Tags         交换请求
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response "撤回成功"
// @Failure      404 {object} response.Response "交换请求不存在"
// @Router       /api/v1/requests/books/{bookId} [delete]
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	bookID, err := parseIDParam(c, "bookId")
	if err != nil {
		response.ErrorWithCode(c, 40900, "图书ID格式错误")
		return
	}

	userID := middleware.MustGetUserID(c)
	err = h.deleteUseCase.Execute(c.Request.Context(), apprequest.DeleteRequestRequest{
		BookID:      bookID,
		RequesterID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// SelectRequester 仲裁:选中一条交换请求
// @Summary      选中交换请求
// @Description  图书拥有者选中一条请求,其余请求全部拒绝
// @Tags         交换请求
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SelectRequesterRequest true "被选中的请求"
// @Success      200 {object} response.Response{data=dto.SelectRequesterResponse} "仲裁成功"
// @Failure      403 {object} response.Response "图书不属于该用户"
// @Router       /api/v1/requests/select [post]
func (h *RequestHandler) SelectRequester(c *gin.Context) {
	var req dto.SelectRequesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	result, err := h.selectUseCase.Execute(c.Request.Context(), apprequest.SelectRequesterRequest{
		RequestID: req.RequestID,
		OwnerID:   userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.SelectRequesterResponse{
		AcceptedRequestID: result.AcceptedRequestID,
		BookID:            result.BookID,
		RequesterID:       result.RequesterID,
		DeclinedCount:     result.DeclinedCount,
	})
}

// ListMyRequests 查询自己发起的请求
// @Summary      我发起的交换请求
// @Tags         交换请求
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData} "查询成功"
// @Router       /api/v1/requests/mine [get]
func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	reqs, err := h.listMineUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithList(c, reqs, len(reqs))
}

// ListBookRequests 查询某图书收到的请求
// @Summary      图书收到的交换请求
// @Description  仅图书拥有者可见,用于仲裁前审阅
// @Tags         交换请求
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=response.ListData} "查询成功"
// @Failure      403 {object} response.Response "图书不属于该用户"
// @Router       /api/v1/requests/books/{bookId} [get]
func (h *RequestHandler) ListBookRequests(c *gin.Context) {
	bookID, err := parseIDParam(c, "bookId")
	if err != nil {
		response.ErrorWithCode(c, 40900, "图书ID格式错误")
		return
	}

	userID := middleware.MustGetUserID(c)
	reqs, err := h.listBookUseCase.Execute(c.Request.Context(), bookID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithList(c, reqs, len(reqs))
}
