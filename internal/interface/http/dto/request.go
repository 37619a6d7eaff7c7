package dto

// RequestBookRequest HTTP发起交换请求
type RequestBookRequest struct {
	BookID uint `json:"book_id" binding:"required" example:"1"`
}

// RequestResponse HTTP交换请求响应
type RequestResponse struct {
	RequestID uint   `json:"request_id" example:"1"`
	BookID    uint   `json:"book_id" example:"1"`
	Status    string `json:"status" example:"PENDING"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// SelectRequesterRequest HTTP仲裁请求:图书拥有者选中一条交换请求
type SelectRequesterRequest struct {
	RequestID uint `json:"request_id" binding:"required" example:"1"`
}

// SelectRequesterResponse HTTP仲裁响应
type SelectRequesterResponse struct {
	AcceptedRequestID uint `json:"accepted_request_id" example:"1"`
	BookID            uint `json:"book_id" example:"1"`
	RequesterID       uint `json:"requester_id" example:"2"`
	DeclinedCount     int  `json:"declined_count" example:"3"`
}
