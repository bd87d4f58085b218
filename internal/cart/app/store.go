package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quickbites/cartsync/internal/cart/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Store keeps a locally responsive view of the server-side cart. Mutations
// are optimistic: the local state is patched first, the server is confirmed
// asynchronously, and a failed confirmation restores the pre-mutation
// snapshot. Periodic full fetches are the correction mechanism against any
// drift between overlapping mutations.
type Store struct {
	svc    CartService
	notify Notifier
	log    *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    State
	fetchSeq uint64
	subs     map[int]func(State)
	nextSub  int
}

func NewStore(svc CartService, notify Notifier, log *slog.Logger) *Store {
	if notify == nil {
		notify = NopNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		svc:    svc,
		notify: notify,
		log:    log,
		now:    time.Now,
		state:  emptyState(),
		subs:   map[int]func(State){},
	}
}

// Subscribe registers fn to receive a state copy after every change. The
// returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// ItemCount is the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.state.Items {
		n += l.Quantity
	}
	return n
}

// Toggle flips the cart panel visibility. UI-only, no server interaction.
func (s *Store) Toggle() {
	s.commit(func(st *State) { st.Open = !st.Open })
}

// commit is the single write gate: it applies the mutation under the lock,
// then delivers a state copy to subscribers outside of it.
func (s *Store) commit(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	st := s.state.clone()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

// mutation is one optimistic operation: a synchronous local patch, the server
// confirmation, and what to do on success.
type mutation struct {
	apply   func(*State)
	call    func(context.Context) error
	refetch bool
	failMsg string
}

// run drives the three phases: snapshot and tentative-apply, confirm against
// the server, then commit (optionally via a full refetch) or revert to the
// snapshot with a user-facing notification.
func (s *Store) run(ctx context.Context, m mutation) error {
	var before State
	s.commit(func(st *State) {
		before = st.clone()
		m.apply(st)
	})

	if err := m.call(ctx); err != nil {
		s.commit(func(st *State) {
			open := st.Open
			*st = before
			st.Open = open
		})
		s.notify.Error(userMessage(err, m.failMsg))
		return err
	}

	if m.refetch {
		s.Fetch(ctx)
	}
	return nil
}

// Fetch loads the authoritative cart and billing summary and rebuilds the
// whole state from them. A failed cart fetch degrades to an empty cart (an
// unauthenticated user is expected, not a fault); a failed billing fetch
// degrades to zero billing fields. Each fetch carries a sequence token and
// a round-trip that finishes after a newer fetch was issued is discarded.
func (s *Store) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()
	s.commit(func(st *State) { st.Loading = true })

	var (
		cart    RemoteCart
		bill    Bill
		cartErr error
		billErr error
	)
	g := new(errgroup.Group)
	g.Go(func() error { cart, cartErr = s.svc.GetCart(ctx); return nil })
	g.Go(func() error { bill, billErr = s.svc.GetBill(ctx); return nil })
	_ = g.Wait()

	s.mu.Lock()
	stale := seq != s.fetchSeq
	s.mu.Unlock()
	if stale {
		s.log.Debug("discarding stale cart fetch", slog.Uint64("seq", seq))
		return
	}

	if cartErr != nil {
		s.log.Debug("cart fetch failed, treating as empty cart", slog.Any("err", cartErr))
		s.commit(func(st *State) {
			open := st.Open
			*st = emptyState()
			st.Open = open
		})
		return
	}
	if billErr != nil {
		s.log.Debug("billing fetch failed, using zero billing fields", slog.Any("err", billErr))
		bill = Bill{
			DeliveryFee: decimal.Zero,
			Tax:         decimal.Zero,
			Discount:    decimal.Zero,
		}
	}

	now := s.now()
	items := make([]domain.CartLine, 0, len(cart.Lines))
	for _, rl := range cart.Lines {
		items = append(items, resolveLine(rl, now))
	}

	subtotal := domain.Subtotal(items)
	coupon := bill.Coupon
	if coupon == nil {
		coupon = cart.Coupon
	}

	s.commit(func(st *State) {
		st.Items = items
		st.Subtotal = subtotal
		st.DeliveryFee = bill.DeliveryFee
		st.Tax = bill.Tax
		st.Discount = bill.Discount
		st.FinalTotal = subtotal.Add(bill.DeliveryFee).Sub(bill.Discount)
		st.Coupon = coupon
		st.Loading = false
	})
}

// resolveLine maps a server cart line to the local model, re-deriving the
// unit price from the embedded product so a stale persisted price is never
// displayed. Without the product payload the stored price is all there is.
func resolveLine(rl RemoteLine, now time.Time) domain.CartLine {
	line := domain.CartLine{
		ProductID: rl.ProductID,
		LineID:    rl.ID,
		Name:      rl.Name,
		ImageURL:  rl.ImageURL,
		UnitPrice: rl.Price,
		Quantity:  rl.Quantity,
		Variant:   rl.Variant,
		Dietary:   rl.Dietary,
	}
	if p := rl.Product; p != nil {
		line.UnitPrice = domain.EffectivePrice(*p, rl.Variant, now)
		if line.ProductID == "" {
			line.ProductID = p.ID
		}
		if line.Name == "" {
			line.Name = p.Name
		}
		if line.ImageURL == "" {
			line.ImageURL = p.ImageURL
		}
		if line.Dietary == "" {
			line.Dietary = p.Dietary
		}
	}
	return line
}

// AddItem adds one unit of the product/variant to the cart. An existing line
// is incremented and its price refreshed to the product's current price; a
// new line starts at quantity 1 with no LineID until the refetch confirms it.
func (s *Store) AddItem(ctx context.Context, product domain.Product, variant string) error {
	price := domain.EffectivePrice(product, variant, s.now())
	key := domain.LineKey{ProductID: product.ID, Variant: variant}

	return s.run(ctx, mutation{
		apply: func(st *State) {
			for i := range st.Items {
				if st.Items[i].Key() == key {
					st.Items[i].Quantity++
					st.Items[i].UnitPrice = price
					recomputeLocal(st)
					return
				}
			}
			st.Items = append(st.Items, domain.CartLine{
				ProductID: product.ID,
				Name:      product.Name,
				ImageURL:  product.ImageURL,
				UnitPrice: price,
				Quantity:  1,
				Variant:   variant,
				Dietary:   product.Dietary,
			})
			recomputeLocal(st)
		},
		call: func(ctx context.Context) error {
			return s.svc.AddItem(ctx, product.ID, 1)
		},
		refetch: true,
		failMsg: "Could not add item to cart",
	})
}

// IncrementItem raises the line's quantity by one. Unknown lineIDs no-op.
func (s *Store) IncrementItem(ctx context.Context, lineID string) error {
	return s.adjustQuantity(ctx, lineID, +1)
}

// DecrementItem lowers the line's quantity by one; at quantity 1 the line is
// removed instead, so a quantity of 0 never exists. Unknown lineIDs no-op.
func (s *Store) DecrementItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	qty := 0
	for _, l := range s.state.Items {
		if l.LineID == lineID {
			qty = l.Quantity
			break
		}
	}
	s.mu.Unlock()

	switch {
	case qty == 0:
		return nil
	case qty == 1:
		return s.RemoveItem(ctx, lineID)
	default:
		return s.adjustQuantity(ctx, lineID, -1)
	}
}

func (s *Store) adjustQuantity(ctx context.Context, lineID string, delta int) error {
	var newQty int
	found := false

	return s.run(ctx, mutation{
		apply: func(st *State) {
			for i := range st.Items {
				if st.Items[i].LineID == lineID {
					found = true
					st.Items[i].Quantity += delta
					newQty = st.Items[i].Quantity
					recomputeLocal(st)
					return
				}
			}
		},
		call: func(ctx context.Context) error {
			if !found {
				return nil
			}
			return s.svc.SetQuantity(ctx, lineID, newQty)
		},
		refetch: false,
		failMsg: "Could not update quantity",
	})
}

// RemoveItem drops the line. Totals are not recomputed in the optimistic
// window; the refetch after server confirmation rebuilds them.
func (s *Store) RemoveItem(ctx context.Context, lineID string) error {
	found := false

	return s.run(ctx, mutation{
		apply: func(st *State) {
			kept := st.Items[:0]
			for _, l := range st.Items {
				if l.LineID == lineID {
					found = true
					continue
				}
				kept = append(kept, l)
			}
			st.Items = kept
		},
		call: func(ctx context.Context) error {
			if !found {
				return nil
			}
			return s.svc.RemoveItem(ctx, lineID)
		},
		refetch: true,
		failMsg: "Could not remove item",
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.run(ctx, mutation{
		apply: func(st *State) {
			open := st.Open
			*st = emptyState()
			st.Open = open
		},
		call:    s.svc.Clear,
		refetch: false,
		failMsg: "Could not clear cart",
	})
}

// ApplyCoupon applies the code server-side and refreshes billing. There is
// no optimistic patch, so nothing to roll back. The error is always returned
// to the caller on top of the notification, so UI can drive its own
// attention feedback.
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	if err := s.svc.ApplyCoupon(ctx, code); err != nil {
		var minErr *MinOrderError
		if errors.As(err, &minErr) {
			s.mu.Lock()
			subtotal := s.state.Subtotal
			s.mu.Unlock()
			shortfall := minErr.Required.Sub(subtotal)
			if shortfall.IsPositive() {
				s.notify.Warn(fmt.Sprintf("Add items worth ₹%s more to use coupon %s", shortfall, code))
				return err
			}
		}
		s.notify.Error(userMessage(err, "Could not apply coupon"))
		return err
	}

	s.Fetch(ctx)

	saved := decimal.Zero
	s.mu.Lock()
	if s.state.Coupon != nil {
		saved = s.state.Coupon.Discount
	}
	s.mu.Unlock()
	s.notify.Success(fmt.Sprintf("Coupon %s applied, you saved ₹%s", code, saved))
	return nil
}

// RemoveCoupon drops the applied coupon and refreshes billing. No optimistic
// mutation is made, so failure needs no rollback.
func (s *Store) RemoveCoupon(ctx context.Context) error {
	if err := s.svc.RemoveCoupon(ctx); err != nil {
		s.notify.Error(userMessage(err, "Could not remove coupon"))
		return err
	}
	s.Fetch(ctx)
	s.notify.Success("Coupon removed")
	return nil
}
