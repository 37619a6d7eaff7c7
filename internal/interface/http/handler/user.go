package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookswap/internal/application/user"
	"github.com/xiebiao/bookswap/internal/interface/http/dto"
	"github.com/xiebiao/bookswap/internal/interface/http/middleware"
	"github.com/xiebiao/bookswap/pkg/response"
)

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
// 3. 使用依赖注入，便于测试
type UserHandler struct {
	registerUseCase   *appuser.RegisterUseCase
	loginUseCase      *appuser.LoginUseCase
	logoutUseCase     *appuser.LogoutUseCase
	profileUseCase    *appuser.GetProfileUseCase
	favouritesUseCase *appuser.FavouritesUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	profileUseCase *appuser.GetProfileUseCase,
	favouritesUseCase *appuser.FavouritesUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase:   registerUseCase,
		loginUseCase:      loginUseCase,
		logoutUseCase:     logoutUseCase,
		profileUseCase:    profileUseCase,
		favouritesUseCase: favouritesUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建新用户账号
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.UserResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "用户名已存在"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数
	// 学习要点：Gin的ShouldBindJSON会自动校验binding tag
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	// 学习要点：Handler不直接调用domain层，而是通过application层
	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应
	response.Success(c, &dto.UserResponse{
		ID:       result.ID,
		Username: result.Username,
		Nickname: result.Nickname,
	})
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证用户名密码，返回JWT Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResponse{
		User: dto.UserInfo{
			ID:       result.User.ID,
			Username: result.User.Username,
			Nickname: result.User.Nickname,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话并将Token加入黑名单
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	token := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), userID, token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetProfile 查询个人资料
// @Summary      查询个人资料
// @Description  返回基本信息与收藏的分类/作者
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileResponse} "查询成功"
// @Router       /api/v1/users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.profileUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddFavouriteCategory 收藏分类
// @Summary      收藏分类
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.FavouriteCategoryRequest true "分类名"
// @Success      200 {object} response.Response "收藏成功"
// @Router       /api/v1/users/favourites/categories [post]
func (h *UserHandler) AddFavouriteCategory(c *gin.Context) {
	var req dto.FavouriteCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.favouritesUseCase.AddCategory(c.Request.Context(), userID, req.Category); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RemoveFavouriteCategory 取消收藏分类
// @Summary      取消收藏分类
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.FavouriteCategoryRequest true "分类名"
// @Success      200 {object} response.Response "取消成功"
// @Router       /api/v1/users/favourites/categories [delete]
func (h *UserHandler) RemoveFavouriteCategory(c *gin.Context) {
	var req dto.FavouriteCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.favouritesUseCase.RemoveCategory(c.Request.Context(), userID, req.Category); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// AddFavouriteAuthor 收藏作者
// @Summary      收藏作者
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.FavouriteAuthorRequest true "作者姓名"
// @Success      200 {object} response.Response "收藏成功"
// @Router       /api/v1/users/favourites/authors [post]
func (h *UserHandler) AddFavouriteAuthor(c *gin.Context) {
	var req dto.FavouriteAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.favouritesUseCase.AddAuthor(c.Request.Context(), userID, req.Author); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RemoveFavouriteAuthor 取消收藏作者
// @Summary      取消收藏作者
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.FavouriteAuthorRequest true "作者姓名"
// @Success      200 {object} response.Response "取消成功"
// @Router       /api/v1/users/favourites/authors [delete]
func (h *UserHandler) RemoveFavouriteAuthor(c *gin.Context) {
	var req dto.FavouriteAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.favouritesUseCase.RemoveAuthor(c.Request.Context(), userID, req.Author); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
