// Package unlock implements the credit-gated contact reveal flow: balance
// check, confirmed spend, merge of the revealed fields, and the
// insufficient-credits branch, with a session-scoped idempotency cache so
// a contact is never paid for twice.
package unlock

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
	"github.com/jobdeck/jobdeck-cli/internal/client/services"
	"github.com/jobdeck/jobdeck-cli/internal/logging"
)

// Phase is the per-contact state of the flow.
type Phase int

const (
	// PhaseMasked is the initial state: contact details hidden.
	PhaseMasked Phase = iota
	// PhaseCheckingBalance means the read-only status call is running.
	PhaseCheckingBalance
	// PhaseAwaitingConfirm means the user has enough credits and the
	// spend waits for an explicit confirmation.
	PhaseAwaitingConfirm
	// PhaseUnlocking means the spend call is in flight.
	PhaseUnlocking
	// PhaseRevealed is terminal: full details available.
	PhaseRevealed
	// PhaseInsufficientCredits is terminal for this flow: no credits
	// were spent, nothing was revealed. Not an error.
	PhaseInsufficientCredits
)

func (p Phase) String() string {
	switch p {
	case PhaseCheckingBalance:
		return "checking-balance"
	case PhaseAwaitingConfirm:
		return "awaiting-confirm"
	case PhaseUnlocking:
		return "unlocking"
	case PhaseRevealed:
		return "revealed"
	case PhaseInsufficientCredits:
		return "insufficient-credits"
	default:
		return "masked"
	}
}

var (
	// ErrAuthRequired means the flow was entered without a session; the
	// caller must redirect to authentication instead of proceeding.
	ErrAuthRequired = errors.New("unlock: authentication required")
	// ErrNotConfirmable means Confirm was called outside
	// PhaseAwaitingConfirm.
	ErrNotConfirmable = errors.New("unlock: no pending confirmation")
)

// Unlocker is the slice of the contact service the flow needs.
type Unlocker interface {
	Get(ctx context.Context, contactID string) (models.Contact, error)
	Status(ctx context.Context, contactID string) (services.UnlockStatus, error)
	Unlock(ctx context.Context, contactID, idempotencyKey string) (services.UnlockResult, error)
}

// Session is the slice of the session store the flow needs.
type Session interface {
	IsAuthenticated() bool
	Current() (models.User, bool)
	UpdateUser(ctx context.Context, user models.User)
}

// Cache persists contacts already revealed in this session.
type Cache interface {
	Get(ctx context.Context, id string) (*models.Contact, error)
	Put(ctx context.Context, c models.Contact) error
}

// Snapshot is a point-in-time view for rendering. Contact is masked
// unless the phase is Revealed.
type Snapshot struct {
	Phase   Phase
	Contact models.Contact
	Credits int
}

// Workflow drives the unlock flow for one contact.
type Workflow struct {
	contacts Unlocker
	sess     Session
	cache    Cache
	log      logging.Logger
	newKey   func() string

	mu      sync.Mutex
	phase   Phase
	contact models.Contact
	credits int
}

// New builds a workflow for the given (possibly masked) contact as it
// appeared in a listing.
func New(contact models.Contact, contacts Unlocker, sess Session, cache Cache, log logging.Logger) *Workflow {
	if log == nil {
		log = logging.Nop()
	}
	return &Workflow{
		contacts: contacts,
		sess:     sess,
		cache:    cache,
		log:      log,
		newKey:   uuid.NewString,
		phase:    PhaseMasked,
		contact:  contact,
	}
}

// Snapshot returns the current view. A locked contact is always masked.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := w.contact
	if w.phase != PhaseRevealed {
		c = c.Masked()
	}
	return Snapshot{Phase: w.phase, Contact: c, Credits: w.credits}
}

// Begin enters the flow: it requires an authenticated session, then
// short-circuits to Revealed from the cache when this contact was already
// paid for, and otherwise runs the read-only balance check. Safe to call
// repeatedly.
func (w *Workflow) Begin(ctx context.Context) error {
	if !w.sess.IsAuthenticated() {
		return ErrAuthRequired
	}

	w.mu.Lock()
	if w.phase == PhaseRevealed {
		w.mu.Unlock()
		return nil
	}
	id := w.contact.ID
	w.phase = PhaseCheckingBalance
	w.mu.Unlock()

	if cached, err := w.cache.Get(ctx, id); err != nil {
		w.log.Warn(ctx, "unlock cache read failed", "contact", id, "err", err)
	} else if cached != nil {
		w.mu.Lock()
		w.contact = w.contact.Merge(*cached)
		w.phase = PhaseRevealed
		w.mu.Unlock()
		return nil
	}

	st, err := w.contacts.Status(ctx, id)
	if err != nil {
		w.mu.Lock()
		w.phase = PhaseMasked
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	w.credits = st.UserCredits
	if st.IsUnlocked {
		w.mu.Unlock()
		// paid for in another session; the row on hand may still carry
		// masked listing fields
		return w.adoptUnlocked(ctx, id)
	}
	if st.UserCredits >= 1 {
		w.phase = PhaseAwaitingConfirm
	} else {
		w.phase = PhaseInsufficientCredits
	}
	w.mu.Unlock()
	return nil
}

// Confirm issues the spend. Only reachable from PhaseAwaitingConfirm; a
// revealed contact short-circuits without a network call, so the flow can
// never charge twice within a session.
func (w *Workflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	if w.phase == PhaseRevealed {
		w.mu.Unlock()
		return nil
	}
	if w.phase != PhaseAwaitingConfirm {
		w.mu.Unlock()
		return ErrNotConfirmable
	}
	id := w.contact.ID
	w.phase = PhaseUnlocking
	w.mu.Unlock()

	res, err := w.contacts.Unlock(ctx, id, w.newKey())

	if errors.Is(err, services.ErrAlreadyUnlocked) {
		// stale client cache lost a race; the server refused a second
		// spend, nothing was charged. The fields on hand are still the
		// masked ones, so the real record comes from the server.
		return w.adoptUnlocked(ctx, id)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var insufficient *services.InsufficientCreditsError
	switch {
	case err == nil:
		w.contact = w.contact.Merge(res.Contact)
		w.phase = PhaseRevealed
		w.credits = res.CreditsRemaining
		w.cachePut(ctx, w.contact)
		w.syncCredits(ctx, res.CreditsRemaining)
	case errors.As(err, &insufficient):
		w.phase = PhaseInsufficientCredits
		w.credits = insufficient.Credits
		w.syncCredits(ctx, insufficient.Credits)
	default:
		w.phase = PhaseAwaitingConfirm
		return err
	}
	return nil
}

// adoptUnlocked resolves a contact the server reports as already paid for.
// Revealed fields must come from the server; a masked listing row is never
// presented or cached as the revealed record. A failed fetch drops back to
// Masked so Begin can retry.
func (w *Workflow) adoptUnlocked(ctx context.Context, id string) error {
	full, err := w.contacts.Get(ctx, id)
	if err != nil {
		w.mu.Lock()
		w.phase = PhaseMasked
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.contact = w.contact.Merge(full)
	w.phase = PhaseRevealed
	w.cachePut(ctx, w.contact)
	return nil
}

// cachePut is best-effort; a failed cache write only risks a handled
// "already unlocked" rejection later, never a double charge.
func (w *Workflow) cachePut(ctx context.Context, c models.Contact) {
	if err := w.cache.Put(ctx, c); err != nil {
		w.log.Warn(ctx, "unlock cache write failed", "contact", c.ID, "err", err)
	}
}

// syncCredits propagates the server-reported balance into the session.
// The server value is authoritative; the client never decrements locally.
func (w *Workflow) syncCredits(ctx context.Context, remaining int) {
	if user, ok := w.sess.Current(); ok {
		user.Credits = remaining
		w.sess.UpdateUser(ctx, user)
	}
}
