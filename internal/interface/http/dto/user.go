package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30" example:"gopher"`
	Password string `json:"password" binding:"required,min=8,max=20"`
	Nickname string `json:"nickname" binding:"required,min=2,max=50" example:"Gopher"`
}

// UserResponse 用户响应（不包含密码）
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"gopher"`
	Nickname string `json:"nickname" example:"Gopher"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"gopher"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse HTTP层登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in" example:"7200"` // Access Token过期时间（秒）
}

// UserInfo 用户信息
type UserInfo struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"gopher"`
	Nickname string `json:"nickname" example:"Gopher"`
}

// FavouriteCategoryRequest 收藏/取消收藏分类请求
type FavouriteCategoryRequest struct {
	Category string `json:"category" binding:"required,max=100" example:"Software Engineering"`
}

// FavouriteAuthorRequest 收藏/取消收藏作者请求
// 作者姓名格式:"名 姓",如"Robert Martin"
type FavouriteAuthorRequest struct {
	Author string `json:"author" binding:"required,max=100" example:"Robert Martin"`
}
