package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provisioning counts the outcomes of the charge-to-entitlement
// workflow. All methods are nil-safe so tests can pass a zero value.
type Provisioning struct {
	provisioned          prometheus.Counter
	replays              prometheus.Counter
	reconcileFailures    prometheus.Counter
	notificationFailures prometheus.Counter
}

// NewProvisioning registers the workflow counters on reg.
func NewProvisioning(reg prometheus.Registerer) *Provisioning {
	if reg == nil {
		return &Provisioning{}
	}
	p := &Provisioning{
		provisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "subscriptions_provisioned_total",
			Help: "Entitlement records created from successful charges.",
		}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "subscriptions_provision_replays_total",
			Help: "Charge confirmations that matched an existing payment reference.",
		}),
		reconcileFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "subscriptions_reconcile_failures_total",
			Help: "Charges captured without a persisted record; needs operator action.",
		}),
		notificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "subscriptions_notification_failures_total",
			Help: "Confirmation emails that could not be delivered.",
		}),
	}
	reg.MustRegister(p.provisioned, p.replays, p.reconcileFailures, p.notificationFailures)
	return p
}

func (p *Provisioning) IncProvisioned() {
	if p == nil || p.provisioned == nil {
		return
	}
	p.provisioned.Inc()
}

func (p *Provisioning) IncReplay() {
	if p == nil || p.replays == nil {
		return
	}
	p.replays.Inc()
}

func (p *Provisioning) IncReconcileFailure() {
	if p == nil || p.reconcileFailures == nil {
		return
	}
	p.reconcileFailures.Inc()
}

func (p *Provisioning) IncNotificationFailure() {
	if p == nil || p.notificationFailures == nil {
		return
	}
	p.notificationFailures.Inc()
}
