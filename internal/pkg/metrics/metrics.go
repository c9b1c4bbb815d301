package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "game_portal_cms"

var (
	// HTTPRequests 按路由模板与状态码统计请求数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// CascadeDeletes 级联删除次数，result 为 ok 或 error
	CascadeDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deletes_total",
		Help:      "Cascade deletions by entity and result.",
	}, []string{"entity", "result"})

	// OutboundCalls 外部调用(AI、目录导入)的尝试次数
	OutboundCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbound_calls_total",
		Help:      "Outbound HTTP/AI call attempts by target and result.",
	}, []string{"target", "result"})
)

// Result 将 error 映射为指标标签
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
