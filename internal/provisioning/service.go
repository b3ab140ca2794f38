package provisioning

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"iptv-app/internal/domain/plans"
	"iptv-app/internal/domain/subscriptions"
	"iptv-app/internal/infra/mail"
	"iptv-app/internal/metrics"

	"github.com/rs/zerolog"
)

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Store is the durable side of the workflow.
type Store interface {
	Create(ctx context.Context, sub *subscriptions.Subscription) error
	FindByPaymentRef(ctx context.Context, ref string) (*subscriptions.Subscription, error)
}

// PlanSource resolves a plan id to its configured row at charge time.
type PlanSource interface {
	Get(ctx context.Context, id string) (*plans.Plan, error)
}

// Charge is a confirmed payment signal, already verified against the
// gateway (webhook signature or server-side transaction verify).
type Charge struct {
	Reference string
	Email     string
	PlanID    string
	Amount    int64 // kobo, as reported by the gateway; 0 when unknown
}

// Result is what the caller gets back. The stream URL is always in the
// record so the buyer never depends on email delivery.
type Result struct {
	Subscription       *subscriptions.Subscription
	AlreadyProvisioned bool
}

// ReconcileError means money moved but no entitlement exists. The
// payment reference rides along so support can locate the charge.
type ReconcileError struct {
	PaymentRef string
	Err        error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("charge %s captured but no subscription was saved: %v", e.PaymentRef, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// Params groups the service dependencies.
type Params struct {
	Store         Store
	Plans         PlanSource
	Notifier      mail.Notifier
	Tokens        *TokenGenerator
	BaseURL       string
	Log           zerolog.Logger
	Metrics       *metrics.Provisioning
	Now           func() time.Time
	NotifyTimeout time.Duration
}

// Service turns confirmed charges into durable entitlements.
type Service struct {
	store         Store
	plans         PlanSource
	notifier      mail.Notifier
	tokens        *TokenGenerator
	baseURL       string
	log           zerolog.Logger
	metrics       *metrics.Provisioning
	now           func() time.Time
	notifyTimeout time.Duration

	wg sync.WaitGroup
}

func NewService(p Params) (*Service, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if p.Plans == nil {
		return nil, fmt.Errorf("plan source required")
	}
	if p.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if p.Tokens == nil {
		return nil, fmt.Errorf("token generator required")
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.NotifyTimeout <= 0 {
		p.NotifyTimeout = 10 * time.Second
	}
	return &Service{
		store:         p.Store,
		plans:         p.Plans,
		notifier:      p.Notifier,
		tokens:        p.Tokens,
		baseURL:       strings.TrimRight(p.BaseURL, "/"),
		log:           p.Log,
		metrics:       p.Metrics,
		now:           p.Now,
		notifyTimeout: p.NotifyTimeout,
	}, nil
}

// Provision is idempotent on the payment reference: a retried
// confirmation for a known reference returns the existing record and
// never creates a second one. Once the record is persisted the outcome
// is success; the confirmation email is best-effort and can never roll
// the record back.
func (s *Service) Provision(ctx context.Context, charge Charge) (*Result, error) {
	ref := strings.TrimSpace(charge.Reference)
	if ref == "" {
		return nil, fmt.Errorf("missing payment reference")
	}

	existing, err := s.store.FindByPaymentRef(ctx, ref)
	if err != nil {
		return nil, &ReconcileError{PaymentRef: ref, Err: err}
	}
	if existing != nil {
		s.metrics.IncReplay()
		s.log.Info().Str("payment_ref", ref).Msg("charge already provisioned, returning existing subscription")
		return &Result{Subscription: existing, AlreadyProvisioned: true}, nil
	}

	// The charge has been captured at this point, so a bad email or an
	// unknown plan is a reconciliation problem, not a user error.
	email := strings.TrimSpace(strings.ToLower(charge.Email))
	if !emailRx.MatchString(email) {
		return nil, &ReconcileError{PaymentRef: ref, Err: fmt.Errorf("invalid customer email %q", charge.Email)}
	}
	plan, err := s.plans.Get(ctx, charge.PlanID)
	if err != nil {
		return nil, &ReconcileError{PaymentRef: ref, Err: fmt.Errorf("unknown plan %q: %w", charge.PlanID, err)}
	}
	if charge.Amount != 0 && charge.Amount != plan.Price*100 {
		s.log.Warn().
			Str("payment_ref", ref).
			Int64("charged_kobo", charge.Amount).
			Int64("plan_price_ngn", plan.Price).
			Msg("charge amount does not match configured plan price")
	}

	now := s.now()
	token := s.tokens.Generate(email, plan.ID, now.UnixNano())

	sub := &subscriptions.Subscription{
		Email:          email,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		Amount:         plan.Price,
		PaymentRef:     ref,
		StreamURL:      s.baseURL + "/stream/" + token,
		ExpirationDate: subscriptions.ExpiresFrom(now),
		Status:         subscriptions.StatusActive,
		CreatedAt:      now,
	}

	if err := s.store.Create(ctx, sub); err != nil {
		if errors.Is(err, subscriptions.ErrDuplicatePaymentRef) {
			// lost the race against a concurrent retry for the same ref
			if winner, ferr := s.store.FindByPaymentRef(ctx, ref); ferr == nil && winner != nil {
				s.metrics.IncReplay()
				return &Result{Subscription: winner, AlreadyProvisioned: true}, nil
			}
		}
		s.metrics.IncReconcileFailure()
		s.log.Error().Err(err).
			Str("payment_ref", ref).
			Str("email", email).
			Msg("subscription not persisted after successful charge, manual reconciliation needed")
		return nil, &ReconcileError{PaymentRef: ref, Err: err}
	}

	s.metrics.IncProvisioned()
	s.log.Info().
		Str("payment_ref", ref).
		Str("plan", plan.ID).
		Str("stream_url", sub.StreamURL).
		Time("expires", sub.ExpirationDate).
		Msg("subscription provisioned")

	s.notifyAsync(sub)

	return &Result{Subscription: sub}, nil
}

func (s *Service) notifyAsync(sub *subscriptions.Subscription) {
	msg := ConfirmationEmail(sub)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.metrics.IncNotificationFailure()
			s.log.Warn().Err(err).
				Str("payment_ref", sub.PaymentRef).
				Str("email", sub.Email).
				Msg("confirmation email failed, subscription stands")
		}
	}()
}

// Flush waits for in-flight notifications. Called on shutdown.
func (s *Service) Flush() {
	s.wg.Wait()
}
