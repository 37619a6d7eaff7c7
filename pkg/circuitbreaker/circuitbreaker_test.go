package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

// 测试说明：熔断器在本项目中保护MQ事件发布
// （见 pkg/mq 的 BreakerPublisher），测试按该场景展开：
// Broker连续不可用时熔断，事件发布快速失败而不阻塞仲裁主流程，
// Broker恢复后熔断器经半开探测回到关闭状态。

var errBrokerDown = errors.New("broker unavailable")

// flakyBroker 模拟不稳定的消息Broker：前failures次发布失败
type flakyBroker struct {
	failures  int
	published int // 真正到达Broker的调用次数(含失败)
}

func (b *flakyBroker) publish(routingKey string) error {
	b.published++
	if b.published <= b.failures {
		return errBrokerDown
	}
	return nil
}

// newPublishBreaker 与 pkg/mq 生产配置一致的熔断器
// 可注入更短的Timeout方便测试半开转换
func newPublishBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("mq-publisher", Config{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.Requests >= 5 && counts.FailureRate() >= 0.5
		},
	})
}

// TestPublishBreaker_StaysClosedOnHealthyBroker Broker健康时熔断器保持关闭
func TestPublishBreaker_StaysClosedOnHealthyBroker(t *testing.T) {
	broker := &flakyBroker{failures: 0}
	cb := newPublishBreaker(10 * time.Second)

	for i := 0; i < 20; i++ {
		if err := cb.Execute(func() error { return broker.publish("request.created") }); err != nil {
			t.Fatalf("发布#%d期望成功，实际: %v", i+1, err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望保持CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 20 {
		t.Errorf("期望成功20次，实际%d次", counts.TotalSuccesses)
	}
}

// TestPublishBreaker_TripsOnBrokerOutage Broker持续不可用时触发熔断
//
// 生产阈值：样本>=5 且 失败率>=50%
func TestPublishBreaker_TripsOnBrokerOutage(t *testing.T) {
	broker := &flakyBroker{failures: 100}
	cb := newPublishBreaker(10 * time.Second)

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return broker.publish("request.accepted") })
	}

	if cb.State() != StateOpen {
		t.Fatalf("连续5次失败后期望OPEN，实际%s", cb.State())
	}

	// 熔断后发布必须快速失败，不再触达Broker
	before := broker.published
	err := cb.Execute(func() error { return broker.publish("request.accepted") })
	if err != ErrOpenState {
		t.Errorf("期望ErrOpenState，实际: %v", err)
	}
	if broker.published != before {
		t.Errorf("熔断打开时不应该触达Broker，调用次数从%d变为%d", before, broker.published)
	}
}

// TestPublishBreaker_FailureRateBelowThreshold 偶发失败不熔断
func TestPublishBreaker_FailureRateBelowThreshold(t *testing.T) {
	cb := newPublishBreaker(10 * time.Second)

	// 10次发布只失败4次(失败率40% < 50%)
	failures := []bool{true, false, false, true, false, false, true, false, true, false}
	for _, fail := range failures {
		_ = cb.Execute(func() error {
			if fail {
				return errBrokerDown
			}
			return nil
		})
	}

	if cb.State() != StateClosed {
		t.Errorf("失败率未达阈值期望CLOSED，实际%s", cb.State())
	}
}

// TestPublishBreaker_RecoversAfterTimeout Broker恢复后经半开探测回到关闭
func TestPublishBreaker_RecoversAfterTimeout(t *testing.T) {
	broker := &flakyBroker{failures: 5}
	cb := newPublishBreaker(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return broker.publish("request.declined") })
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望OPEN，实际%s", cb.State())
	}

	// 超时后进入半开，探测发布成功则关闭
	time.Sleep(150 * time.Millisecond)

	if err := cb.Execute(func() error { return broker.publish("request.declined") }); err != nil {
		t.Fatalf("半开探测期望成功，实际: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("探测成功后期望CLOSED，实际%s", cb.State())
	}

	// 恢复后正常发布
	if err := cb.Execute(func() error { return broker.publish("request.declined") }); err != nil {
		t.Errorf("恢复后发布期望成功，实际: %v", err)
	}
}

// TestPublishBreaker_ReopensWhenBrokerStillDown 半开探测失败立即回到打开
func TestPublishBreaker_ReopensWhenBrokerStillDown(t *testing.T) {
	broker := &flakyBroker{failures: 100} // Broker一直没恢复
	cb := newPublishBreaker(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return broker.publish("offer.deleted") })
	}

	time.Sleep(150 * time.Millisecond)

	_ = cb.Execute(func() error { return broker.publish("offer.deleted") })

	if cb.State() != StateOpen {
		t.Errorf("探测失败后期望回到OPEN，实际%s", cb.State())
	}
}

// TestPublishBreaker_StateChangeSequence 完整故障-恢复周期的状态序列
//
// 生产环境用这个回调写日志并更新CircuitBreakerState指标，
// 这里验证回调按 CLOSED→OPEN→HALF_OPEN→CLOSED 的顺序触发
func TestPublishBreaker_StateChangeSequence(t *testing.T) {
	broker := &flakyBroker{failures: 5}
	cb := newPublishBreaker(100 * time.Millisecond)

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		if name != "mq-publisher" {
			t.Errorf("回调中的名称期望mq-publisher，实际%s", name)
		}
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return broker.publish("request.created") })
	}
	time.Sleep(150 * time.Millisecond)
	_ = cb.Execute(func() error { return broker.publish("request.created") })

	want := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("期望%d次状态变化，实际%d次: %v", len(want), len(transitions), transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("第%d次状态变化期望%s，实际%s", i+1, want[i], transitions[i])
		}
	}
}

// BenchmarkPublishBreaker 关闭状态下的发布开销
func BenchmarkPublishBreaker(b *testing.B) {
	cb := newPublishBreaker(10 * time.Second)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(func() error { return nil })
	}
}
