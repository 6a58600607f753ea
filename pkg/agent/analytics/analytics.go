// Package analytics aggregates process-wide counters updated as a side
// effect of tool calls. All counters are monotonic; derived metrics are
// recomputed from them on each snapshot with zero-denominator guards.
package analytics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ViewCount is one catalog id with its accumulated view count.
type ViewCount struct {
	ID    string `json:"id"`
	Views int    `json:"views"`
}

// Snapshot is a point-in-time read of the aggregator.
type Snapshot struct {
	TotalConversations int
	TotalOrders        int
	TotalRevenue       float64
	AvgOrderValue      float64
	ConversionRate     float64
	CartAbandonment    int
	AvgSatisfaction    float64
	TopProducts        []ViewCount
	AgentCalls         map[string]int
}

// Metrics is the display-formatted read interface (currency and percentage
// formatting is presentation, not core).
type Metrics struct {
	TotalConversations int            `json:"total_conversations"`
	TotalOrders        int            `json:"total_orders"`
	TotalRevenue       string         `json:"total_revenue"`
	AvgOrderValue      string         `json:"avg_order_value"`
	ConversionRate     string         `json:"conversion_rate"`
	AvgSatisfaction    string         `json:"avg_satisfaction"`
	TopProducts        []ViewCount    `json:"top_products"`
	AgentCalls         map[string]int `json:"agent_performance"`
}

// Tracker is safe for concurrent use by tool handlers.
type Tracker struct {
	mu            sync.Mutex
	conversations int
	orders        int
	revenue       float64
	abandonment   int
	ratings       []int
	views         map[string]int
	viewOrder     []string
	agentCalls    map[string]int

	promConversations prometheus.Counter
	promOrders        prometheus.Counter
	promRevenue       prometheus.Counter
	promAgentCalls    *prometheus.CounterVec
}

// NewTracker builds a tracker and registers its Prometheus counters on reg.
// A nil registry skips exporting; the in-process counters work either way.
func NewTracker(reg prometheus.Registerer) *Tracker {
	t := &Tracker{
		views:      make(map[string]int),
		agentCalls: make(map[string]int),
		promConversations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dialmate_conversations_total",
			Help: "Conversations started.",
		}),
		promOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dialmate_orders_total",
			Help: "Orders or applications completed.",
		}),
		promRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dialmate_revenue_total",
			Help: "Accumulated order value in rupees.",
		}),
		promAgentCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dialmate_agent_calls_total",
			Help: "Tool invocations by capability group.",
		}, []string{"agent"}),
	}
	if reg != nil {
		reg.MustRegister(t.promConversations, t.promOrders, t.promRevenue, t.promAgentCalls)
	}
	return t
}

// TrackConversationStart counts a new conversation.
func (t *Tracker) TrackConversationStart() {
	t.mu.Lock()
	t.conversations++
	t.mu.Unlock()
	t.promConversations.Inc()
}

// TrackOrder counts one completed order with its value.
func (t *Tracker) TrackOrder(value float64) {
	t.mu.Lock()
	t.orders++
	t.revenue += value
	t.mu.Unlock()
	t.promOrders.Inc()
	if value > 0 {
		t.promRevenue.Add(value)
	}
}

// TrackProductView counts one catalog view. First-seen order is retained for
// the top-5 tie break.
func (t *Tracker) TrackProductView(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.views[id]; !seen {
		t.viewOrder = append(t.viewOrder, id)
	}
	t.views[id]++
}

// TrackAgentCall counts a tool invocation under its capability group.
func (t *Tracker) TrackAgentCall(agent string) {
	t.mu.Lock()
	t.agentCalls[agent]++
	t.mu.Unlock()
	t.promAgentCalls.WithLabelValues(agent).Inc()
}

// TrackCartAbandonment counts one abandoned cart.
func (t *Tracker) TrackCartAbandonment() {
	t.mu.Lock()
	t.abandonment++
	t.mu.Unlock()
}

// TrackSatisfaction records a 1-5 rating; out-of-range values are dropped.
func (t *Tracker) TrackSatisfaction(rating int) {
	if rating < 1 || rating > 5 {
		return
	}
	t.mu.Lock()
	t.ratings = append(t.ratings, rating)
	t.mu.Unlock()
}

// Snapshot recomputes derived metrics. Divisions guard zero denominators and
// return 0 instead of faulting.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		TotalConversations: t.conversations,
		TotalOrders:        t.orders,
		TotalRevenue:       t.revenue,
		CartAbandonment:    t.abandonment,
		AgentCalls:         make(map[string]int, len(t.agentCalls)),
	}
	for k, v := range t.agentCalls {
		s.AgentCalls[k] = v
	}
	if t.orders > 0 {
		s.AvgOrderValue = t.revenue / float64(t.orders)
	}
	if t.conversations > 0 {
		s.ConversionRate = float64(t.orders) / float64(t.conversations) * 100
	}
	if len(t.ratings) > 0 {
		sum := 0
		for _, r := range t.ratings {
			sum += r
		}
		s.AvgSatisfaction = float64(sum) / float64(len(t.ratings))
	}
	s.TopProducts = t.topViewsLocked(5)
	return s
}

// topViewsLocked sorts by view count descending; ties keep first-seen order.
func (t *Tracker) topViewsLocked(n int) []ViewCount {
	out := make([]ViewCount, 0, len(t.viewOrder))
	for _, id := range t.viewOrder {
		out = append(out, ViewCount{ID: id, Views: t.views[id]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// GetMetrics returns the display-formatted snapshot.
func (t *Tracker) GetMetrics() Metrics {
	s := t.Snapshot()
	return Metrics{
		TotalConversations: s.TotalConversations,
		TotalOrders:        s.TotalOrders,
		TotalRevenue:       fmt.Sprintf("₹%.2f", s.TotalRevenue),
		AvgOrderValue:      fmt.Sprintf("₹%.2f", s.AvgOrderValue),
		ConversionRate:     fmt.Sprintf("%.2f%%", s.ConversionRate),
		AvgSatisfaction:    fmt.Sprintf("%.2f/5", s.AvgSatisfaction),
		TopProducts:        s.TopProducts,
		AgentCalls:         s.AgentCalls,
	}
}
