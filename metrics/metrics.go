package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics 应用指标，使用独立的 Registry，测试中可重复创建
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	HabitToggles       *prometheus.CounterVec
	RecurringGenerated prometheus.Counter
	RecurringRunErrors prometheus.Counter
	BudgetAlertsSent   prometheus.Counter
}

// New 创建并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP 请求总数",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "planner",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HabitToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "habit_toggles_total",
			Help:      "习惯打卡切换次数",
		}, []string{"action"}),
		RecurringGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "recurring_expenses_generated_total",
			Help:      "周期性支出自动生成的支出笔数",
		}),
		RecurringRunErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "recurring_run_errors_total",
			Help:      "周期性支出生成失败次数",
		}),
		BudgetAlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "budget_alerts_sent_total",
			Help:      "预算超支提醒邮件发送次数",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.HabitToggles,
		m.RecurringGenerated,
		m.RecurringRunErrors,
		m.BudgetAlertsSent,
	)
	return m
}

// HabitToggled 记录一次打卡切换，m 为 nil 时忽略
func (m *Metrics) HabitToggled(action string) {
	if m == nil {
		return
	}
	m.HabitToggles.WithLabelValues(action).Inc()
}

// RecurringRun 记录一次周期性支出生成
func (m *Metrics) RecurringRun(generated int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RecurringRunErrors.Inc()
	}
	m.RecurringGenerated.Add(float64(generated))
}

// BudgetAlert 记录一封预算提醒邮件
func (m *Metrics) BudgetAlert() {
	if m == nil {
		return
	}
	m.BudgetAlertsSent.Inc()
}
