package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/gateway"
)

// ScriptedGateway is a deterministic gateway.Gateway. Everything succeeds
// unless an account or method has been scripted to decline or fail.
type ScriptedGateway struct {
	mu              sync.Mutex
	clock           gateway.Clock
	declineAccounts map[string]string
	declineMethods  map[string]string
	failAccounts    map[string]bool
	declineRefunds  bool
	charges         []gateway.ChargeRequest
	refunds         []gateway.RefundRequest
	seq             int
	hold            chan struct{}
	entered         chan string
}

var _ gateway.Gateway = (*ScriptedGateway)(nil)

func NewScriptedGateway(clock gateway.Clock) *ScriptedGateway {
	return &ScriptedGateway{
		clock:           clock,
		declineAccounts: make(map[string]string),
		declineMethods:  make(map[string]string),
		failAccounts:    make(map[string]bool),
	}
}

// DeclineAccount makes every charge against accountID decline
func (g *ScriptedGateway) DeclineAccount(accountID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declineAccounts[accountID] = gateway.DeclineReasonCardDeclined
}

// DeclineMethod makes every charge against methodID decline
func (g *ScriptedGateway) DeclineMethod(methodID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declineMethods[methodID] = gateway.DeclineReasonCardDeclined
}

// FailAccount makes calls for accountID return a transport error
func (g *ScriptedGateway) FailAccount(accountID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failAccounts[accountID] = true
}

func (g *ScriptedGateway) DeclineRefunds() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declineRefunds = true
}

// Hold blocks every call until release is called. entered receives the
// account id of each call as it starts waiting.
func (g *ScriptedGateway) Hold() (entered <-chan string, release func()) {
	hold := make(chan struct{})
	enteredCh := make(chan string, 64)

	g.mu.Lock()
	g.hold = hold
	g.entered = enteredCh
	g.mu.Unlock()

	var once sync.Once
	return enteredCh, func() {
		once.Do(func() {
			g.mu.Lock()
			g.hold = nil
			g.mu.Unlock()
			close(hold)
		})
	}
}

func (g *ScriptedGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.Result, error) {
	g.mu.Lock()
	g.charges = append(g.charges, req)
	g.mu.Unlock()

	if err := g.wait(ctx, req.AccountID); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failAccounts[req.AccountID] {
		return nil, g.unavailable(req.AccountID)
	}
	if req.Method == nil {
		return g.decline(gateway.DeclineReasonNoPaymentMethod), nil
	}
	if reason, ok := g.declineAccounts[req.AccountID]; ok {
		return g.decline(reason), nil
	}
	if reason, ok := g.declineMethods[req.Method.ID]; ok {
		return g.decline(reason), nil
	}
	return g.succeed("TX_"), nil
}

func (g *ScriptedGateway) Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.Result, error) {
	g.mu.Lock()
	g.refunds = append(g.refunds, req)
	g.mu.Unlock()

	if err := g.wait(ctx, req.AccountID); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failAccounts[req.AccountID] {
		return nil, g.unavailable(req.AccountID)
	}
	if req.Method == nil {
		return g.decline(gateway.DeclineReasonNoPaymentMethod), nil
	}
	if g.declineRefunds {
		return g.decline(gateway.DeclineReasonRefundFailed), nil
	}
	return g.succeed("RE_"), nil
}

func (g *ScriptedGateway) Charges() []gateway.ChargeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gateway.ChargeRequest(nil), g.charges...)
}

func (g *ScriptedGateway) Refunds() []gateway.RefundRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gateway.RefundRequest(nil), g.refunds...)
}

func (g *ScriptedGateway) wait(ctx context.Context, accountID string) error {
	g.mu.Lock()
	hold, entered := g.hold, g.entered
	g.mu.Unlock()

	if hold == nil {
		return nil
	}

	entered <- accountID
	select {
	case <-hold:
		return nil
	case <-ctx.Done():
		return ierr.WithError(ctx.Err()).
			WithHint("Payment processor did not answer").
			Mark(ierr.ErrGatewayUnavailable)
	}
}

func (g *ScriptedGateway) unavailable(accountID string) error {
	return ierr.NewError("gateway unreachable").
		WithHint("Payment processor is unavailable").
		WithReportableDetails(map[string]any{"account_id": accountID}).
		Mark(ierr.ErrGatewayUnavailable)
}

func (g *ScriptedGateway) decline(reason string) *gateway.Result {
	return &gateway.Result{
		Success:       false,
		DeclineReason: reason,
		ProcessedAt:   g.now(),
	}
}

func (g *ScriptedGateway) succeed(prefix string) *gateway.Result {
	g.seq++
	return &gateway.Result{
		Success:        true,
		TransactionRef: fmt.Sprintf("%sTEST%04d", prefix, g.seq),
		ProcessedAt:    g.now(),
	}
}

func (g *ScriptedGateway) now() time.Time {
	if g.clock == nil {
		return time.Now().UTC()
	}
	return g.clock.Now()
}
