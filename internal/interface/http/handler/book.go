package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookswap/internal/application/book"
	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/interface/http/dto"
	"github.com/xiebiao/bookswap/internal/interface/http/middleware"
	"github.com/xiebiao/bookswap/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	addUseCase       *appbook.AddBookOfferUseCase
	deleteUseCase    *appbook.DeleteBookOfferUseCase
	listUseCase      *appbook.ListBookOffersUseCase
	getUseCase       *appbook.GetBookUseCase
	availableUseCase *appbook.AvailableBooksUseCase
	searchUseCase    *appbook.SearchBooksUseCase
	recommendUseCase *appbook.RecommendBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	addUseCase *appbook.AddBookOfferUseCase,
	deleteUseCase *appbook.DeleteBookOfferUseCase,
	listUseCase *appbook.ListBookOffersUseCase,
	getUseCase *appbook.GetBookUseCase,
	availableUseCase *appbook.AvailableBooksUseCase,
	searchUseCase *appbook.SearchBooksUseCase,
	recommendUseCase *appbook.RecommendBooksUseCase,
) *BookHandler {
	return &BookHandler{
		addUseCase:       addUseCase,
		deleteUseCase:    deleteUseCase,
		listUseCase:      listUseCase,
		getUseCase:       getUseCase,
		availableUseCase: availableUseCase,
		searchUseCase:    searchUseCase,
		recommendUseCase: recommendUseCase,
	}
}

// AddBookOffer 上架图书
// @Summary      上架图书
// @Description  把一本书挂到自己的交换列表
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddBookOfferRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse} "上架成功"
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [post]
func (h *BookHandler) AddBookOffer(c *gin.Context) {
	var req dto.AddBookOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	result, err := h.addUseCase.Execute(c.Request.Context(), appbook.AddBookOfferRequest{
		OwnerID:  userID,
		Title:    req.Title,
		Authors:  req.Authors,
		Category: req.Category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result.Book))
}

// DeleteBookOffer 下架图书
// @Summary      下架图书
// @Description  从交换列表移除自己的图书,级联删除全部交换请求
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "下架成功"
// @Failure      403 {object} response.Response "图书不属于该用户"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBookOffer(c *gin.Context) {
	bookID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "图书ID格式错误")
		return
	}

	userID := middleware.MustGetUserID(c)
	err = h.deleteUseCase.Execute(c.Request.Context(), appbook.DeleteBookOfferRequest{
		BookID:  bookID,
		OwnerID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ListMyBookOffers 查询自己提供的图书
// @Summary      我的交换列表
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData} "查询成功"
// @Router       /api/v1/books/mine [get]
func (h *BookHandler) ListMyBookOffers(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	books, err := h.listUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithList(c, toBookResponses(books), len(books))
}

// GetBook 查询图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse} "查询成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "图书ID格式错误")
		return
	}

	info, err := h.getUseCase.Execute(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(*info))
}

// AvailableBooks 查询可交换的图书
// @Summary      可交换图书列表
// @Description  排除自己提供的和已被他人接受的图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData} "查询成功"
// @Router       /api/v1/books/available [get]
func (h *BookHandler) AvailableBooks(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	books, err := h.availableUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithList(c, toBookResponses(books), len(books))
}

// SearchBooks 搜索图书
// @Summary      搜索图书
// @Description  strategy=0近似搜索,strategy=1精确搜索;作者必填
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        keyword query string false "书名关键字"
// @Param        authors query string true "逗号分隔的作者列表"
// @Param        strategy query int false "搜索策略(0近似/1精确)"
// @Success      200 {object} response.Response{data=response.ListData} "查询成功"
// @Router       /api/v1/books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	var req dto.SearchBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	books, err := h.searchUseCase.Execute(c.Request.Context(), appbook.SearchBooksRequest{
		UserID:   userID,
		Keyword:  req.Keyword,
		Authors:  req.Authors,
		Strategy: book.SearchStrategy(req.Strategy),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithList(c, toBookResponses(books), len(books))
}

// RecommendByCategories 按收藏分类推荐
// @Summary      按收藏分类推荐图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData} "查询成功"
// @Router       /api/v1/books/recommendations/categories [get]
func (h *BookHandler) RecommendByCategories(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	books, err := h.recommendUseCase.ByFavouriteCategories(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithList(c, toBookResponses(books), len(books))
}

// RecommendByAuthors 按收藏作者推荐
// @Summary      按收藏作者推荐图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData} "查询成功"
// @Router       /api/v1/books/recommendations/authors [get]
func (h *BookHandler) RecommendByAuthors(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	books, err := h.recommendUseCase.ByFavouriteAuthors(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithList(c, toBookResponses(books), len(books))
}

// parseIDParam 解析路径中的数字ID
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// toBookResponse 应用层DTO → HTTP层DTO
func toBookResponse(info appbook.BookInfo) *dto.BookResponse {
	return &dto.BookResponse{
		ID:       info.ID,
		Title:    info.Title,
		Authors:  info.Authors,
		Category: info.Category,
		OwnerID:  info.OwnerID,
	}
}

// toBookResponses 批量转换
func toBookResponses(infos []appbook.BookInfo) []*dto.BookResponse {
	resps := make([]*dto.BookResponse, 0, len(infos))
	for _, info := range infos {
		resps = append(resps, toBookResponse(info))
	}
	return resps
}
