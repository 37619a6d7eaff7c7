// Package metrics 提供基于Prometheus的指标收集框架
//
// Metrics是可观测性三支柱之一（Tracing、Metrics、Logging）：
// - **Metrics（指标）**: 回答"有多少？多快？"（本模块）
// - **Logging（日志）**: 回答"发生了什么？"
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、交换请求总数、错误总数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的HTTP请求数
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、仲裁事务耗时
//   - 特点：自动计算分位数（P50、P90、P99）
//
// # 使用示例
//
//	// 1. 初始化Metrics
//	metrics.InitMetrics()
//
//	// 2. 在HTTP服务中暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 在业务代码中记录指标
//	metrics.IncCounter(metrics.RequestsAcceptedTotal)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/books）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 图书交换业务指标

	// BookOffersTotal 图书上架总数（Counter）
	BookOffersTotal prometheus.Counter

	// BookOffersDeletedTotal 图书下架总数（Counter）
	BookOffersDeletedTotal prometheus.Counter

	// RequestsCreatedTotal 交换请求创建总数（Counter）
	RequestsCreatedTotal prometheus.Counter

	// RequestsAcceptedTotal 交换请求被接受总数（Counter）
	RequestsAcceptedTotal prometheus.Counter

	// RequestsDeclinedTotal 交换请求被拒绝总数（Counter）
	// 说明：一次仲裁可能一次性拒绝多个兄弟请求，按请求条数累计
	RequestsDeclinedTotal prometheus.Counter

	// ArbitrationDuration 仲裁事务耗时（Histogram）
	// 说明：selectRequester从锁定图书行到批量落库的完整耗时
	ArbitrationDuration prometheus.Histogram

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"}, // 标签：方法、路径、状态码
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"}, // 标签：方法、路径
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 图书交换业务指标
	BookOffersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_offers_total",
			Help: "图书上架总数",
		},
	)

	BookOffersDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_offers_deleted_total",
			Help: "图书下架总数",
		},
	)

	RequestsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swap_requests_created_total",
			Help: "交换请求创建总数",
		},
	)

	RequestsAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swap_requests_accepted_total",
			Help: "交换请求被接受总数",
		},
	)

	RequestsDeclinedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swap_requests_declined_total",
			Help: "交换请求被拒绝总数",
		},
	)

	ArbitrationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "swap_arbitration_duration_seconds",
			Help: "请求仲裁事务耗时（秒）",
			// 仲裁涉及行锁+批量更新，通常在100ms以内
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"}, // 标签：熔断器名称
	)
}

// =========================================
// 辅助函数（nil安全，未初始化时不记录）
// =========================================

// IncCounter 递增计数器
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// AddCounter 计数器累加
func AddCounter(counter prometheus.Counter, delta float64) {
	if counter != nil {
		counter.Add(delta)
	}
}

// IncCounterVec 递增带标签的计数器
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// IncGauge 递增仪表盘
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减仪表盘
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// SetGauge 设置仪表盘值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge != nil {
		gauge.Set(value)
	}
}

// SetGaugeVec 设置带标签的仪表盘值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录直方图观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录带标签的直方图观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
