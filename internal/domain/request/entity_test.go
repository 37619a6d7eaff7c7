package request

import (
	"errors"
	"testing"
)

// TestNewBookRequest 测试请求创建
func TestNewBookRequest(t *testing.T) {
	r := NewBookRequest(10, 20)

	if r.BookID != 10 {
		t.Errorf("期望BookID=10，实际: %d", r.BookID)
	}
	if r.RequesterID != 20 {
		t.Errorf("期望RequesterID=20，实际: %d", r.RequesterID)
	}
	if r.Status != StatusPending {
		t.Errorf("新请求应为PENDING状态，实际: %s", r.Status)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt不应该为零值")
	}
}

// TestStatusString 测试状态文本
func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusPending, "PENDING"},
		{StatusAccepted, "ACCEPTED"},
		{StatusDeclined, "DECLINED"},
		{Status(99), "UNKNOWN"},
	}

	for _, c := range cases {
		if got := c.status.String(); got != c.want {
			t.Errorf("Status(%d).String() = %s，期望: %s", c.status, got, c.want)
		}
	}
}

// TestTransition_PendingToTerminal 测试待仲裁→终态
func TestTransition_PendingToTerminal(t *testing.T) {
	t.Run("接受待仲裁请求", func(t *testing.T) {
		r := NewBookRequest(1, 2)

		if err := r.Accept(); err != nil {
			t.Fatalf("接受待仲裁请求应该成功: %v", err)
		}
		if !r.IsAccepted() {
			t.Error("请求应为ACCEPTED状态")
		}
	})

	t.Run("拒绝待仲裁请求", func(t *testing.T) {
		r := NewBookRequest(1, 2)

		if err := r.Decline(); err != nil {
			t.Fatalf("拒绝待仲裁请求应该成功: %v", err)
		}
		if r.Status != StatusDeclined {
			t.Errorf("请求应为DECLINED状态，实际: %s", r.Status)
		}
	})
}

// TestTransition_TerminalIdempotent 测试终态幂等自转换
//
// 仲裁幂等性的基础：重复选中同一请求是无操作，不是错误
func TestTransition_TerminalIdempotent(t *testing.T) {
	r := NewBookRequest(1, 2)
	if err := r.Accept(); err != nil {
		t.Fatalf("首次接受失败: %v", err)
	}

	updatedAt := r.UpdatedAt

	// 重复接受应该是无操作
	if err := r.Accept(); err != nil {
		t.Fatalf("重复接受应该幂等成功: %v", err)
	}
	if !r.UpdatedAt.Equal(updatedAt) {
		t.Error("幂等自转换不应该更新UpdatedAt")
	}
}

// TestTransition_TerminalIsFinal 测试终态不可改变
//
// 单一接受不变量的基础：仲裁后改选其他请求必须失败
func TestTransition_TerminalIsFinal(t *testing.T) {
	t.Run("已接受不能再拒绝", func(t *testing.T) {
		r := NewBookRequest(1, 2)
		r.Accept()

		if err := r.Decline(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("期望ErrInvalidTransition，实际: %v", err)
		}
		if !r.IsAccepted() {
			t.Error("非法转换后状态不应该改变")
		}
	})

	t.Run("已拒绝不能再接受", func(t *testing.T) {
		r := NewBookRequest(1, 2)
		r.Decline()

		if err := r.Accept(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("期望ErrInvalidTransition，实际: %v", err)
		}
	})

	t.Run("终态不能回到待仲裁", func(t *testing.T) {
		r := NewBookRequest(1, 2)
		r.Accept()

		if r.CanTransitionTo(StatusPending) {
			t.Error("终态不应该允许回到PENDING")
		}
	})
}

// TestIsMadeBy 测试请求归属校验
func TestIsMadeBy(t *testing.T) {
	r := NewBookRequest(1, 42)

	if !r.IsMadeBy(42) {
		t.Error("请求者本人应该通过归属校验")
	}
	if r.IsMadeBy(43) {
		t.Error("其他用户不应该通过归属校验")
	}
}
