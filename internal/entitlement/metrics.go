package entitlement

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

var decisionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "entitlement_decisions_total",
		Help: "Количество решений о доступе по исходу и причине отказа.",
	},
	[]string{"outcome", "reason"},
)

func init() {
	prometheus.MustRegister(decisionsTotal)
}

// ObserveDecision учитывает решение в метриках. Вызывается сервисным слоем,
// сам резолвер остаётся чистой функцией.
func ObserveDecision(d models.Decision) {
	if d.Allowed {
		decisionsTotal.WithLabelValues("allow", "").Inc()
		return
	}
	decisionsTotal.WithLabelValues("deny", string(d.Reason)).Inc()
}
