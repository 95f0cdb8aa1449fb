package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
	"github.com/jobdeck/jobdeck-cli/internal/client/unlock"
)

// Unlock runs the credit-spend flow for a contact addressed either by its
// row number in the last contacts render or by raw id.
func (a *App) Unlock(ctx context.Context, arg string) error {
	contact, ok := a.resolveContact(arg)
	if !ok {
		printlnFn("No such contact:", arg)
		return nil
	}

	flow := unlock.New(contact, a.contacts, a.session, a.db.Contacts, a.log)

	if err := flow.Begin(ctx); err != nil {
		if errors.Is(err, unlock.ErrAuthRequired) {
			printlnFn("Please login first")
			return nil
		}
		printlnFn("Unlock failed:", err.Error())
		return err
	}

	snap := flow.Snapshot()
	switch snap.Phase {
	case unlock.PhaseRevealed:
		a.printRevealed(snap.Contact)
		return nil

	case unlock.PhaseInsufficientCredits:
		printlnFn(fmt.Sprintf("Not enough credits (balance %d)", snap.Credits))
		return nil

	case unlock.PhaseAwaitingConfirm:
		ok, err := Confirm(a.reader, fmt.Sprintf("Unlocking costs 1 credit (balance %d). Proceed?", snap.Credits), a.out)
		if err != nil {
			return err
		}
		if !ok {
			printlnFn("Cancelled, nothing charged")
			return nil
		}
	}

	if err := flow.Confirm(ctx); err != nil {
		printlnFn("Unlock failed:", err.Error())
		return err
	}

	snap = flow.Snapshot()
	if snap.Phase == unlock.PhaseInsufficientCredits {
		printlnFn(fmt.Sprintf("Not enough credits (balance %d)", snap.Credits))
		return nil
	}
	a.printRevealed(snap.Contact)
	printlnFn(fmt.Sprintf("Credits remaining: %d", snap.Credits))
	return nil
}

// resolveContact maps a row number from the last contacts render, or a raw
// id, to a contact value the flow can start from.
func (a *App) resolveContact(arg string) (models.Contact, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(a.lastContacts) {
			return models.Contact{}, false
		}
		return a.lastContacts[n-1], true
	}
	for _, c := range a.lastContacts {
		if c.ID == arg {
			return c, true
		}
	}
	if arg == "" {
		return models.Contact{}, false
	}
	return models.Contact{ID: arg}, true
}

func (a *App) printRevealed(c models.Contact) {
	printlnFn(fmt.Sprintf("%s, %s", c.Name, c.Position))
	if c.Email != "" {
		printlnFn("  email:", c.Email)
	}
	if c.Phone != "" {
		printlnFn("  phone:", c.Phone)
	}
}
