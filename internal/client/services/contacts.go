package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jobdeck/jobdeck-cli/internal/client/api"
	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

// ErrAlreadyUnlocked is returned by Unlock when the backend rejects a spend
// because the contact was already unlocked for this user (e.g. a stale
// client cache after a race with another session). No credit is charged.
var ErrAlreadyUnlocked = errors.New("contact already unlocked")

// InsufficientCreditsError is the 402 branch of an unlock attempt. It is a
// business outcome, not a transport failure: no credit was spent and the
// server reports the user's actual balance.
type InsufficientCreditsError struct {
	Credits int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits (balance %d)", e.Credits)
}

// UnlockStatus is the read-only pre-flight result for a contact.
type UnlockStatus struct {
	IsUnlocked  bool `json:"isUnlocked"`
	UserCredits int  `json:"userCredits"`
}

// UnlockResult carries the revealed contact and the server-reported balance
// after a successful spend. CreditsRemaining is authoritative; the client
// never decrements locally.
type UnlockResult struct {
	Contact          models.Contact `json:"contact"`
	CreditsRemaining int            `json:"creditsRemaining"`
}

// ContactService wraps the public /contacts listing, the credit-spend
// unlock endpoints, and the admin CRUD.
type ContactService struct {
	gw Gateway
}

func NewContactService(gw Gateway) *ContactService {
	return &ContactService{gw: gw}
}

func (s *ContactService) List(ctx context.Context, q models.Query) (models.Page[models.Contact], error) {
	return list[models.Contact](ctx, s.gw, "/contacts", q)
}

// Get fetches a single contact. The server reveals the real fields only
// when the requesting user has already unlocked the contact; otherwise the
// masked representation comes back.
func (s *ContactService) Get(ctx context.Context, id string) (models.Contact, error) {
	var out models.Contact
	if _, err := s.gw.Get(ctx, "/contacts/"+id, nil, &out); err != nil {
		return models.Contact{}, err
	}
	return out, nil
}

// Status is idempotent and mutates nothing; safe to call repeatedly.
func (s *ContactService) Status(ctx context.Context, contactID string) (UnlockStatus, error) {
	q := url.Values{}
	q.Set("contactId", contactID)
	var out UnlockStatus
	if _, err := s.gw.Get(ctx, "/contacts/status", q, &out); err != nil {
		return UnlockStatus{}, err
	}
	return out, nil
}

// Unlock spends one credit to reveal a contact. The idempotency key lets
// the backend collapse an accidental duplicate submission of the same
// attempt into a single spend.
func (s *ContactService) Unlock(ctx context.Context, contactID, idempotencyKey string) (UnlockResult, error) {
	body := map[string]string{
		"contactId":      contactID,
		"idempotencyKey": idempotencyKey,
	}
	var out UnlockResult
	if err := s.gw.Post(ctx, "/contacts/unlock", body, &out); err != nil {
		return UnlockResult{}, mapUnlockError(err)
	}
	return out, nil
}

// mapUnlockError translates the endpoint's reason-coded rejections into
// typed outcomes callers can branch on.
func mapUnlockError(err error) error {
	var ae *api.Error
	if !errors.As(err, &ae) {
		return err
	}
	switch ae.Status {
	case http.StatusPaymentRequired:
		var reason struct {
			UserCredits int `json:"userCredits"`
		}
		_ = json.Unmarshal(ae.Body, &reason)
		return &InsufficientCreditsError{Credits: reason.UserCredits}
	case http.StatusConflict:
		return ErrAlreadyUnlocked
	}
	return err
}

// ContactInput is the admin create/update payload.
type ContactInput struct {
	Name      string   `json:"name" validate:"required"`
	CompanyID string   `json:"companyId" validate:"required"`
	Position  string   `json:"position,omitempty"`
	Email     string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string   `json:"phone,omitempty"`
	Locations []string `json:"locations" validate:"required,min=1"`
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (models.Contact, error) {
	var out models.Contact
	if err := s.gw.Post(ctx, "/admin/contacts", in, &out); err != nil {
		return models.Contact{}, err
	}
	return out, nil
}

func (s *ContactService) Update(ctx context.Context, id string, in ContactInput) (models.Contact, error) {
	var out models.Contact
	if err := s.gw.Put(ctx, "/admin/contacts/"+id, in, &out); err != nil {
		return models.Contact{}, err
	}
	return out, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/admin/contacts/"+id)
}
