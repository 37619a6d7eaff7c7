package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID       uint     `json:"id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Category string   `json:"category"`
	OwnerID  uint     `json:"owner_id"`
}

// ListData 列表响应数据
type ListData struct {
	List  json.RawMessage `json:"list"`
	Total int             `json:"total"`
}

// RequestData 交换请求响应数据
type RequestData struct {
	RequestID uint   `json:"request_id"`
	BookID    uint   `json:"book_id"`
	Status    string `json:"status"`
}

// SelectData 仲裁响应数据
type SelectData struct {
	AcceptedRequestID uint `json:"accepted_request_id"`
	BookID            uint `json:"book_id"`
	RequesterID       uint `json:"requester_id"`
	DeclinedCount     int  `json:"declined_count"`
}

// doJSON 发送带JSON体的请求并解析响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(respBody, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(respBody))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPost, url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodDelete, url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodGet, url, nil, token)
}

// GenerateTestUsername 生成唯一的测试用户名
//
// 教学说明：
// 使用时间戳确保用户名唯一性，避免测试重复运行时冲突
// 用户名规则：字母开头，字母数字下划线
func GenerateTestUsername(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano()%1000000000)
}

// RegisterTestUser 注册测试用户并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func RegisterTestUser(t *testing.T, nickname string) (username string, token string) {
	// 1. 注册
	username = GenerateTestUsername("user")
	registerReq := map[string]string{
		"username": username,
		"password": "Test1234",
		"nickname": nickname,
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	// 2. 登录
	loginReq := map[string]string{
		"username": username,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return username, loginData.AccessToken
}

// AddTestBookOffer 上架测试图书并返回图书ID
//
// 教学说明：
// 封装了图书上架流程，返回bookID供后续测试使用
func AddTestBookOffer(t *testing.T, token, title, authors, category string) uint {
	req := map[string]string{
		"title":    title,
		"authors":  authors,
		"category": category,
	}

	resp := PostJSON(t, BaseURL+"/books", req, token)
	require.Equal(t, 0, resp.Code, "上架失败: %s", resp.Message)

	var data BookData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析上架响应失败")
	require.NotZero(t, data.ID, "图书ID应该大于0")

	return data.ID
}

// RequestTestBook 发起交换请求并返回请求ID
func RequestTestBook(t *testing.T, token string, bookID uint) uint {
	resp := PostJSON(t, BaseURL+"/requests", map[string]uint{"book_id": bookID}, token)
	require.Equal(t, 0, resp.Code, "发起请求失败: %s", resp.Message)

	var data RequestData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析请求响应失败")
	require.Equal(t, "PENDING", data.Status, "新请求应为PENDING状态")

	return data.RequestID
}
