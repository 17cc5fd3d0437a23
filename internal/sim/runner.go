package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/vending-machine-simulator/internal/coin"
	"github.com/fairyhunter13/vending-machine-simulator/internal/metrics"
	"github.com/fairyhunter13/vending-machine-simulator/internal/obs"
	"github.com/fairyhunter13/vending-machine-simulator/internal/vending"
)

// ErrIllegalStep marks a select or reset attempted while the machine is idle.
var ErrIllegalStep = errors.New("illegal step for current state")

// StepResult records what one step did.
type StepResult struct {
	Index     int
	Action    Action
	State     vending.State
	ProductID string
	Change    coin.Coins
	Refund    coin.Coins
	Err       error
}

// Outcome is a short label for logs and metrics.
func (r StepResult) Outcome() string {
	var perr *vending.PurchaseError
	switch {
	case r.Err == nil && r.Action == ActionSelect:
		return metrics.OutcomeCommitted
	case r.Err == nil:
		return "ok"
	case errors.As(r.Err, &perr):
		return perr.Kind.String()
	case errors.Is(r.Err, ErrIllegalStep):
		return "illegal_step"
	default:
		return "error"
	}
}

// Report summarises a replay.
type Report struct {
	Steps         []StepResult
	Final         vending.Session
	ReserveBefore coin.Amount
	ReserveAfter  coin.Amount
	// Committed is the value of every pouch folded into the reserve.
	Committed coin.Amount
	// Dispensed is the value of all change handed out.
	Dispensed coin.Amount
	Refunded  coin.Amount
}

// Conserved reports whether the reserve moved exactly by committed pouches
// minus dispensed change.
func (r Report) Conserved() bool {
	return r.ReserveAfter+r.Dispensed == r.ReserveBefore+r.Committed
}

// Runner applies scripts to a machine.
type Runner struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// NewRunner returns a Runner logging to obs.Logger.
func NewRunner(m *metrics.Metrics) *Runner {
	return &Runner{Logger: obs.Logger, Metrics: m}
}

// Run replays script starting from start. Purchase failures are outcomes of
// their step, not errors of the run. Run stops early only when ctx is done or
// the script is invalid; the returned report covers the steps applied.
func (r *Runner) Run(ctx context.Context, start vending.Idle, script Script) (Report, error) {
	if err := script.Validate(); err != nil {
		return Report{}, err
	}
	log := r.Logger
	if log == nil {
		log = obs.Logger
	}

	rep := Report{ReserveBefore: start.Reserve().Total()}
	var current vending.Session = start
	r.Metrics.SetReserve(rep.ReserveBefore)

	for i, st := range script.Steps {
		if err := ctx.Err(); err != nil {
			rep.finish(current)
			return rep, fmt.Errorf("replay stopped at step %d: %w", i, err)
		}
		action, _ := st.Action()
		res := StepResult{Index: i, Action: action}

		switch action {
		case ActionInsert:
			coins, _ := st.Coins()
			current = insert(current, coins)
			if s, ok := current.(vending.InProcess); ok {
				log.Info("coins_inserted", "step", i, "session_id", s.ID().String(), "coins", coins.String(), "pouch_total", uint64(s.Pouch().Total()))
			}

		case ActionSelect:
			res.ProductID = st.Select
			s, ok := current.(vending.InProcess)
			if !ok {
				res.Err = fmt.Errorf("%w: select %s while %s", ErrIllegalStep, st.Select, current.State())
				log.Warn("step_rejected", "step", i, "action", string(action), "state", current.State().String())
				break
			}
			purchase, err := s.SelectProduct(st.Select)
			if err != nil {
				var perr *vending.PurchaseError
				if !errors.As(err, &perr) {
					return rep, err
				}
				res.Err = err
				current = perr.Session
				r.Metrics.RecordPurchase(perr.Kind.String())
				log.Warn("purchase_failed", "step", i, "session_id", s.ID().String(), "product_id", st.Select, "reason", perr.Kind.String(), "error", err.Error())
				break
			}
			res.Change = purchase.Change
			rep.Committed += purchase.Paid.Total()
			rep.Dispensed += purchase.Change.Total()
			current = purchase.Machine
			r.Metrics.RecordPurchase(metrics.OutcomeCommitted)
			r.Metrics.RecordChange(purchase.Change)
			r.Metrics.SetReserve(purchase.Machine.Reserve().Total())
			log.Info("purchase_committed",
				"step", i,
				"session_id", purchase.SessionID.String(),
				"product_id", purchase.Product.ID,
				"price", uint64(purchase.Product.Price),
				"paid", uint64(purchase.Paid.Total()),
				"change", purchase.Change.String(),
				"stock_left", purchase.Product.Stock,
			)

		case ActionReset:
			s, ok := current.(vending.InProcess)
			if !ok {
				res.Err = fmt.Errorf("%w: reset while %s", ErrIllegalStep, current.State())
				log.Warn("step_rejected", "step", i, "action", string(action), "state", current.State().String())
				break
			}
			idle, refund := s.Reset()
			res.Refund = refund
			rep.Refunded += refund.Total()
			current = idle
			r.Metrics.RecordRefund()
			log.Info("session_reset", "step", i, "session_id", s.ID().String(), "refund", refund.String())
		}

		res.State = current.State()
		rep.Steps = append(rep.Steps, res)
	}
	rep.finish(current)
	return rep, nil
}

func (r *Report) finish(current vending.Session) {
	r.Final = current
	r.ReserveAfter = current.Reserve().Total()
}

func insert(s vending.Session, coins coin.Coins) vending.Session {
	switch m := s.(type) {
	case vending.Idle:
		return m.InsertCoins(coins)
	case vending.InProcess:
		return m.InsertCoins(coins)
	default:
		panic(fmt.Sprintf("sim: unexpected session type %T", s))
	}
}
