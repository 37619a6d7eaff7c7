package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：交换请求模块集成测试
//
// 交换请求模块是本项目的核心，包含以下关键技术点：
// 1. 数据库事务（Transaction）
// 2. 悲观锁保证仲裁串行化（SELECT FOR UPDATE）
// 3. 并发控制
// 4. 请求状态机（PENDING → ACCEPTED/DECLINED）
//
// 这个测试文件验证了这些核心功能的正确性

// TestRequestCreate 测试发起交换请求
func TestRequestCreate(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "请求测试书主")
	_, token := RegisterTestUser(t, "请求测试用户")

	t.Run("正常发起请求", func(t *testing.T) {
		bookID := AddTestBookOffer(t, ownerToken, "《请求测试图书》", "Req Author", "请求分类")

		resp := PostJSON(t, BaseURL+"/requests", map[string]uint{"book_id": bookID}, token)

		assert.Equal(t, 0, resp.Code, "发起请求应该成功")

		var data RequestData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.RequestID, "请求ID应该大于0")
		assert.Equal(t, bookID, data.BookID, "图书ID应该一致")
		assert.Equal(t, "PENDING", data.Status, "新请求应为PENDING状态")

		t.Logf("✓ 请求创建成功，请求ID: %d", data.RequestID)
	})

	t.Run("不能请求自己的书", func(t *testing.T) {
		bookID := AddTestBookOffer(t, ownerToken, "《自己的书》", "Req Author", "请求分类")

		resp := PostJSON(t, BaseURL+"/requests", map[string]uint{"book_id": bookID}, ownerToken)

		assert.NotEqual(t, 0, resp.Code, "请求自己的书应该失败")

		t.Logf("✓ 请求自己的书正确返回错误: %s", resp.Message)
	})

	t.Run("图书不存在应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/requests", map[string]uint{"book_id": 999999}, token)

		assert.NotEqual(t, 0, resp.Code, "图书不存在应该失败")

		t.Logf("✓ 图书不存在正确返回错误: %s", resp.Message)
	})

	t.Run("未登录不能发起请求", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/requests", map[string]uint{"book_id": 1}, "")

		assert.NotEqual(t, 0, resp.Code, "未登录应该失败")

		t.Logf("✓ 未登录正确被拒绝: %s", resp.Message)
	})
}

// TestSelectRequester 测试仲裁功能
//
// 仲裁规则：
// - 书主从待处理请求中选中一条，该请求变为ACCEPTED，其余全部变为DECLINED
// - 每本书最多只有一条ACCEPTED请求
// - 重复选中同一条请求是幂等的；改选其他请求应失败
func TestSelectRequester(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "仲裁测试书主")
	_, aliceToken := RegisterTestUser(t, "仲裁Alice")
	_, bobToken := RegisterTestUser(t, "仲裁Bob")

	bookID := AddTestBookOffer(t, ownerToken, "《仲裁测试图书》", "Sel Author", "仲裁分类")

	aliceReqID := RequestTestBook(t, aliceToken, bookID)
	bobReqID := RequestTestBook(t, bobToken, bookID)

	t.Run("非书主不能仲裁", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/requests/select",
			map[string]uint{"request_id": aliceReqID}, bobToken)

		assert.NotEqual(t, 0, resp.Code, "非书主仲裁应该失败")

		t.Logf("✓ 非书主仲裁正确返回错误: %s", resp.Message)
	})

	t.Run("书主仲裁成功", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/requests/select",
			map[string]uint{"request_id": aliceReqID}, ownerToken)

		require.Equal(t, 0, resp.Code, "仲裁应该成功: %s", resp.Message)

		var data SelectData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析仲裁响应失败")

		assert.Equal(t, aliceReqID, data.AcceptedRequestID, "被接受的请求应该是选中的那条")
		assert.Equal(t, bookID, data.BookID, "图书ID应该一致")
		assert.Equal(t, 1, data.DeclinedCount, "其余1条请求应该被拒绝")

		t.Logf("✓ 仲裁成功，接受请求%d，拒绝%d条", data.AcceptedRequestID, data.DeclinedCount)
	})

	t.Run("重复选中同一请求是幂等的", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/requests/select",
			map[string]uint{"request_id": aliceReqID}, ownerToken)

		assert.Equal(t, 0, resp.Code, "重复选中同一请求应该成功（幂等）: %s", resp.Message)

		t.Logf("✓ 重复仲裁幂等")
	})

	t.Run("仲裁后改选其他请求应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/requests/select",
			map[string]uint{"request_id": bobReqID}, ownerToken)

		assert.NotEqual(t, 0, resp.Code, "改选已拒绝的请求应该失败")

		t.Logf("✓ 改选正确返回错误: %s", resp.Message)
	})

	t.Run("被接受的书对第三方不可见", func(t *testing.T) {
		_, carolToken := RegisterTestUser(t, "仲裁Carol")

		resp := GetJSON(t, BaseURL+"/books/available", carolToken)
		require.Equal(t, 0, resp.Code, "查询应该成功")

		assert.False(t, containsBook(t, resp, bookID), "已被接受的书不应该出现在第三方的可交换列表")

		t.Logf("✓ 已被接受的书正确被过滤")
	})

	t.Run("被接受的书对被选中者仍可见", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books/available", aliceToken)
		require.Equal(t, 0, resp.Code, "查询应该成功")

		assert.True(t, containsBook(t, resp, bookID), "被选中者应该仍能看到这本书")

		t.Logf("✓ 被选中者可见性正确")
	})
}

// TestRequestWithdraw 测试撤回请求
//
// 撤回规则：
// - 撤回待处理/被拒绝的请求：只删除自己的请求
// - 撤回已被接受的请求：交换告吹，清空该书的全部请求，图书重新可交换
func TestRequestWithdraw(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "撤回测试书主")
	_, aliceToken := RegisterTestUser(t, "撤回Alice")
	_, bobToken := RegisterTestUser(t, "撤回Bob")

	t.Run("撤回待处理请求", func(t *testing.T) {
		bookID := AddTestBookOffer(t, ownerToken, "《撤回测试1》", "Wd Author", "撤回分类")
		RequestTestBook(t, aliceToken, bookID)

		resp := DeleteJSON(t, fmt.Sprintf("%s/requests/books/%d", BaseURL, bookID), nil, aliceToken)
		assert.Equal(t, 0, resp.Code, "撤回应该成功: %s", resp.Message)

		// 撤回后我的请求列表中不应再有该书
		mineResp := GetJSON(t, BaseURL+"/requests/mine", aliceToken)
		require.Equal(t, 0, mineResp.Code)

		t.Logf("✓ 撤回待处理请求成功")
	})

	t.Run("撤回已被接受的请求清空全部请求", func(t *testing.T) {
		bookID := AddTestBookOffer(t, ownerToken, "《撤回测试2》", "Wd Author", "撤回分类")
		aliceReqID := RequestTestBook(t, aliceToken, bookID)
		RequestTestBook(t, bobToken, bookID)

		// 书主选中Alice
		selResp := PostJSON(t, BaseURL+"/requests/select",
			map[string]uint{"request_id": aliceReqID}, ownerToken)
		require.Equal(t, 0, selResp.Code, "仲裁失败: %s", selResp.Message)

		// Alice撤回已被接受的请求
		resp := DeleteJSON(t, fmt.Sprintf("%s/requests/books/%d", BaseURL, bookID), nil, aliceToken)
		assert.Equal(t, 0, resp.Code, "撤回应该成功: %s", resp.Message)

		// 该书的请求列表应该被清空
		listResp := GetJSON(t, fmt.Sprintf("%s/requests/books/%d", BaseURL, bookID), ownerToken)
		require.Equal(t, 0, listResp.Code, "查询请求列表应该成功")

		var listData ListData
		err := json.Unmarshal(listResp.Data, &listData)
		require.NoError(t, err)
		var reqs []json.RawMessage
		err = json.Unmarshal(listData.List, &reqs)
		require.NoError(t, err)
		assert.Empty(t, reqs, "撤回已接受请求后，该书的全部请求应该被清空")

		// 图书对第三方重新可交换
		_, carolToken := RegisterTestUser(t, "撤回Carol")
		availResp := GetJSON(t, BaseURL+"/books/available", carolToken)
		require.Equal(t, 0, availResp.Code)
		assert.True(t, containsBook(t, availResp, bookID), "交换告吹后图书应该重新可交换")

		t.Logf("✓ 撤回已接受请求，图书重新可交换")
	})

	t.Run("撤回不存在的请求应失败", func(t *testing.T) {
		bookID := AddTestBookOffer(t, ownerToken, "《撤回测试3》", "Wd Author", "撤回分类")

		resp := DeleteJSON(t, fmt.Sprintf("%s/requests/books/%d", BaseURL, bookID), nil, aliceToken)
		assert.NotEqual(t, 0, resp.Code, "没有请求可撤回应该失败")

		t.Logf("✓ 撤回不存在的请求正确返回错误: %s", resp.Message)
	})
}

// TestSelectConcurrency 测试并发仲裁
//
// 教学说明：并发测试要点
// - 使用 sync.WaitGroup 等待所有goroutine完成
// - 使用 sync.Mutex 保护共享变量（成功/失败计数）
// - SELECT FOR UPDATE 确保同一时刻只有一个事务能获取图书锁
// - 无论并发多少次仲裁，每本书最终只有一条ACCEPTED请求
func TestSelectConcurrency(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "并发仲裁书主")

	t.Run("并发仲裁只产生一条ACCEPTED（10请求者，10并发仲裁）", func(t *testing.T) {
		bookID := AddTestBookOffer(t, ownerToken, "《并发仲裁图书》", "Conc Author", "并发分类")

		// 10个用户各发起一条请求
		requestIDs := make([]uint, 0, 10)
		for i := 0; i < 10; i++ {
			_, reqToken := RegisterTestUser(t, fmt.Sprintf("并发请求者%d", i))
			requestIDs = append(requestIDs, RequestTestBook(t, reqToken, bookID))
		}

		t.Logf("\n========================================")
		t.Logf("开始并发测试：10条请求，10个并发仲裁")
		t.Logf("========================================")

		var (
			wg           sync.WaitGroup
			mu           sync.Mutex
			successCount int
			failCount    int
		)

		// 并发对不同请求发起仲裁，只有第一个获得行锁的事务应该成功
		for _, reqID := range requestIDs {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()

				resp := PostJSON(t, BaseURL+"/requests/select",
					map[string]uint{"request_id": id}, ownerToken)

				mu.Lock()
				if resp.Code == 0 {
					successCount++
				} else {
					failCount++
				}
				mu.Unlock()
			}(reqID)
		}

		wg.Wait()

		t.Logf("并发仲裁结果：成功 %d，失败 %d", successCount, failCount)

		// 只有一次仲裁成功，其余因请求已进入终态而失败
		assert.Equal(t, 1, successCount, "应该只有一次仲裁成功")
		assert.Equal(t, 9, failCount, "其余仲裁应该失败")

		// 验证最终状态：请求列表中恰好一条ACCEPTED
		listResp := GetJSON(t, fmt.Sprintf("%s/requests/books/%d", BaseURL, bookID), ownerToken)
		require.Equal(t, 0, listResp.Code, "查询请求列表应该成功")

		var listData ListData
		err := json.Unmarshal(listResp.Data, &listData)
		require.NoError(t, err)

		var reqs []struct {
			Status string `json:"status"`
		}
		err = json.Unmarshal(listData.List, &reqs)
		require.NoError(t, err)

		accepted := 0
		for _, r := range reqs {
			if r.Status == "ACCEPTED" {
				accepted++
			}
		}
		assert.Equal(t, 1, accepted, "每本书最终应该只有一条ACCEPTED请求")

		t.Logf("✓ 并发仲裁通过：恰好一条ACCEPTED")
	})
}
