package dto

// AddBookOfferRequest HTTP上架请求
// validator tag说明:
// - required: 必填字段
// - max: 长度上限校验
// authors是逗号分隔的"名 姓"列表,解析规则在domain层
type AddBookOfferRequest struct {
	Title    string `json:"title" binding:"required,max=200" example:"Clean Code"`
	Authors  string `json:"authors" binding:"required,max=500" example:"Robert Martin"`
	Category string `json:"category" binding:"required,max=100" example:"Software Engineering"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID       uint     `json:"id" example:"1"`
	Title    string   `json:"title" example:"Clean Code"`
	Authors  []string `json:"authors" example:"Robert Martin"`
	Category string   `json:"category" example:"Software Engineering"`
	OwnerID  uint     `json:"owner_id" example:"1"`
}

// SearchBooksRequest HTTP搜索请求
// strategy: 0=近似搜索(书名子串+作者交集), 1=精确搜索(书名相等+作者集合相等)
type SearchBooksRequest struct {
	Keyword  string `form:"keyword" binding:"omitempty,max=200" example:"Clean"`
	Authors  string `form:"authors" binding:"required,max=500" example:"Robert Martin"`
	Strategy int    `form:"strategy" binding:"omitempty,oneof=0 1" example:"0"`
}
