package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：用户模块集成测试
//
// 集成测试 vs 单元测试：
// - 单元测试：Mock外部依赖（数据库、Redis），测试单个函数的逻辑
// - 集成测试：使用真实的数据库和Redis，测试完整的API流程
//
// 集成测试的价值：
// 1. 验证各组件协同工作（Handler → UseCase → Service → Repository → Database）
// 2. 发现配置错误（如数据库连接、Wire依赖注入）
// 3. 验证业务流程的完整性
//
// 运行方式：
//   make test-integration   # 需要先启动Docker环境
//   go test -v ./test/integration/...

// TestUserRegister 测试用户注册功能
//
// 测试场景：
// 1. 正常注册
// 2. 重复用户名注册（应失败）
// 3. 密码格式校验
// 4. 用户名长度校验
func TestUserRegister(t *testing.T) {
	// 教学说明：使用t.Run()组织子测试
	// 好处：
	// 1. 测试结果更清晰（可以看到每个子场景的结果）
	// 2. 子测试失败不影响其他子测试
	// 3. 可以使用 go test -run=TestUserRegister/正常注册 运行单个子测试

	t.Run("正常注册", func(t *testing.T) {
		username := GenerateTestUsername("normal")
		registerReq := map[string]string{
			"username": username,
			"password": "Test1234",
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")

		assert.Equal(t, 0, resp.Code, "注册应该成功")

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "用户ID应该大于0")
		assert.Equal(t, username, data.Username, "返回的用户名应该与请求一致")
		assert.Equal(t, "测试用户", data.Nickname, "返回的昵称应该与请求一致")

		t.Logf("✓ 注册成功，用户ID: %d", data.ID)
	})

	t.Run("重复用户名注册应失败", func(t *testing.T) {
		// 第一次注册
		username := GenerateTestUsername("dup")
		registerReq := map[string]string{
			"username": username,
			"password": "Test1234",
			"nickname": "测试用户1",
		}

		resp1 := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		require.Equal(t, 0, resp1.Code, "第一次注册应该成功")

		// 第二次注册（相同用户名）
		registerReq["nickname"] = "测试用户2"
		resp2 := PostJSON(t, BaseURL+"/users/register", registerReq, "")

		// 教学说明：错误码定义
		// 40901: 用户名已存在（409 Conflict + 01自定义业务码）
		assert.NotEqual(t, 0, resp2.Code, "重复用户名注册应该失败")
		assert.Contains(t, resp2.Message, "用户名", "错误信息应该提示用户名相关")

		t.Logf("✓ 重复用户名注册正确返回错误: %s", resp2.Message)
	})

	t.Run("密码过短应失败", func(t *testing.T) {
		registerReq := map[string]string{
			"username": GenerateTestUsername("short"),
			"password": "123", // 太短（<8位）
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")

		assert.NotEqual(t, 0, resp.Code, "密码过短应该失败")

		t.Logf("✓ 密码过短正确返回错误: %s", resp.Message)
	})

	t.Run("用户名过短应失败", func(t *testing.T) {
		registerReq := map[string]string{
			"username": "ab", // 太短（<3位）
			"password": "Test1234",
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")

		assert.NotEqual(t, 0, resp.Code, "用户名过短应该失败")

		t.Logf("✓ 用户名过短正确返回错误: %s", resp.Message)
	})
}

// TestUserLogin 测试用户登录功能
//
// 测试场景：
// 1. 正常登录
// 2. 密码错误
// 3. 用户不存在
// 4. Token有效性
func TestUserLogin(t *testing.T) {
	// 准备测试数据：先注册一个用户
	username := GenerateTestUsername("login")
	password := "Test1234"
	registerReq := map[string]string{
		"username": username,
		"password": password,
		"nickname": "登录测试用户",
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "准备测试数据：注册用户")

	t.Run("正常登录", func(t *testing.T) {
		loginReq := map[string]string{
			"username": username,
			"password": password,
		}

		resp := PostJSON(t, BaseURL+"/users/login", loginReq, "")

		assert.Equal(t, 0, resp.Code, "登录应该成功")

		var data LoginData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotEmpty(t, data.AccessToken, "应该返回access_token")
		assert.NotEmpty(t, data.RefreshToken, "应该返回refresh_token")

		// JWT由三部分组成：header.payload.signature
		assert.Contains(t, data.AccessToken, ".", "JWT Token应该包含点号分隔符")

		t.Logf("✓ 登录成功，Access Token长度: %d", len(data.AccessToken))
	})

	t.Run("密码错误应失败", func(t *testing.T) {
		loginReq := map[string]string{
			"username": username,
			"password": "WrongPassword",
		}

		resp := PostJSON(t, BaseURL+"/users/login", loginReq, "")

		assert.NotEqual(t, 0, resp.Code, "密码错误应该失败")

		t.Logf("✓ 密码错误正确返回错误: %s", resp.Message)
	})

	t.Run("用户不存在应失败", func(t *testing.T) {
		loginReq := map[string]string{
			"username": "nonexistent_user_zzz",
			"password": "Test1234",
		}

		resp := PostJSON(t, BaseURL+"/users/login", loginReq, "")

		// 安全考虑：不应该明确提示"用户不存在"，而是统一返回"用户名或密码错误"
		// 防止攻击者枚举用户名
		assert.NotEqual(t, 0, resp.Code, "用户不存在应该失败")

		t.Logf("✓ 用户不存在正确返回错误: %s", resp.Message)
	})

	t.Run("Token可以访问受保护接口", func(t *testing.T) {
		_, token := RegisterTestUser(t, "Token测试用户")

		// 使用Token访问需要认证的接口（上架图书）
		bookID := AddTestBookOffer(t, token, "《深入理解计算机系统》", "Randal Bryant", "计算机")
		assert.NotZero(t, bookID, "使用有效Token应该可以上架图书")

		t.Logf("✓ Token验证通过，可以访问受保护接口")
	})

	t.Run("无效Token应被拒绝", func(t *testing.T) {
		bookReq := map[string]string{
			"title":    "《测试图书》",
			"authors":  "测试作者",
			"category": "测试分类",
		}

		resp := PostJSON(t, BaseURL+"/books", bookReq, "invalid.token.here")

		assert.NotEqual(t, 0, resp.Code, "无效Token应该被拒绝")

		t.Logf("✓ 无效Token正确被拒绝: %s", resp.Message)
	})
}

// TestUserFavourites 测试收藏功能
//
// 测试场景：
// 1. 收藏已建档的分类/作者
// 2. 收藏不存在的分类应失败（分类随图书上架建档）
// 3. 取消收藏
func TestUserFavourites(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "收藏测试书主")
	_, token := RegisterTestUser(t, "收藏测试用户")

	// 先上架一本书，让分类和作者建档
	AddTestBookOffer(t, ownerToken, "《收藏测试》", "Fav Author", "收藏分类")

	t.Run("收藏分类", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/favourites/categories",
			map[string]string{"category": "收藏分类"}, token)
		assert.Equal(t, 0, resp.Code, "收藏已建档的分类应该成功: %s", resp.Message)

		t.Logf("✓ 收藏分类成功")
	})

	t.Run("收藏不存在的分类应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/favourites/categories",
			map[string]string{"category": "从未出现过的分类zzz"}, token)
		assert.NotEqual(t, 0, resp.Code, "收藏不存在的分类应该失败")

		t.Logf("✓ 收藏不存在的分类正确返回错误: %s", resp.Message)
	})

	t.Run("收藏作者", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/favourites/authors",
			map[string]string{"author": "Fav Author"}, token)
		assert.Equal(t, 0, resp.Code, "收藏已建档的作者应该成功: %s", resp.Message)

		t.Logf("✓ 收藏作者成功")
	})

	t.Run("个人资料包含收藏", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/users/profile", token)
		require.Equal(t, 0, resp.Code, "查询个人资料应该成功: %s", resp.Message)

		var profile struct {
			Username            string   `json:"username"`
			FavouriteCategories []string `json:"favourite_categories"`
			FavouriteAuthors    []string `json:"favourite_authors"`
		}
		err := json.Unmarshal(resp.Data, &profile)
		require.NoError(t, err, "解析个人资料失败")

		assert.Contains(t, profile.FavouriteCategories, "收藏分类", "资料应该包含收藏的分类")
		assert.Contains(t, profile.FavouriteAuthors, "Fav Author", "资料应该包含收藏的作者")

		t.Logf("✓ 个人资料命中收藏: %v / %v", profile.FavouriteCategories, profile.FavouriteAuthors)
	})

	t.Run("取消收藏分类", func(t *testing.T) {
		resp := DeleteJSON(t, BaseURL+"/users/favourites/categories",
			map[string]string{"category": "收藏分类"}, token)
		assert.Equal(t, 0, resp.Code, "取消收藏应该成功: %s", resp.Message)

		t.Logf("✓ 取消收藏分类成功")
	})
}
