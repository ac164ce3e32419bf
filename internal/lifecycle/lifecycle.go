package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
)

// Phase is the effective state of an auction, combining the owner-set status
// with settlement.
type Phase string

const (
	PhaseOpen    Phase = "open"
	PhaseClosed  Phase = "closed"
	PhaseSettled Phase = "settled"
)

var validNext = map[models.Status]map[models.Status]bool{
	models.StatusOpen:   {models.StatusOpen: true, models.StatusClosed: true},
	models.StatusClosed: {models.StatusClosed: true},
}

// CanTransition reports whether an owner may move the status from one value to another
func CanTransition(from, to models.Status) bool {
	return validNext[from][to]
}

// ParseStatus accepts the two owner-settable statuses, case-insensitively
func ParseStatus(s string) (models.Status, error) {
	switch {
	case strings.EqualFold(s, string(models.StatusOpen)):
		return models.StatusOpen, nil
	case strings.EqualFold(s, string(models.StatusClosed)):
		return models.StatusClosed, nil
	default:
		return "", fmt.Errorf("lifecycle: %w - unknown status %q", auctionerrors.ErrInvalidAuctionState, s)
	}
}

// PhaseOf derives the effective phase of the auction
func PhaseOf(a models.Auction) Phase {
	switch {
	case a.IsSettled():
		return PhaseSettled
	case a.Status == models.StatusClosed:
		return PhaseClosed
	default:
		return PhaseOpen
	}
}

// DueForSettlement reports whether the end time has passed on an auction that
// has not been settled yet.
func DueForSettlement(a models.Auction, now time.Time) bool {
	return !a.IsSettled() && !a.IsDeleted && a.Ended(now)
}

// NewAuction validates owner input and builds the auction to be stored
func NewAuction(ownerID int64, in models.NewAuction, now time.Time) (models.Auction, error) {
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)
	if description == "" {
		return models.Auction{}, fmt.Errorf("lifecycle: %w - description is required", auctionerrors.ErrInvalidAuction)
	}
	if category == "" {
		return models.Auction{}, fmt.Errorf("lifecycle: %w - category is required", auctionerrors.ErrInvalidAuction)
	}
	if in.InitialPrice.LessThan(models.MinInitialPrice) {
		return models.Auction{}, fmt.Errorf("lifecycle: %w - initial price must be at least %s", auctionerrors.ErrInvalidAuction, models.MinInitialPrice)
	}
	if in.InitialPrice.GreaterThan(models.MaxAmount) {
		return models.Auction{}, fmt.Errorf("lifecycle: %w - initial price must be at most %s", auctionerrors.ErrInvalidAuction, models.MaxAmount)
	}

	status := models.StatusOpen
	if in.Closed {
		status = models.StatusClosed
	}

	return models.Auction{
		OwnerID:      ownerID,
		Description:  description,
		Category:     category,
		Image:        in.Image,
		InitialPrice: in.InitialPrice.Round(2),
		DateListed:   now,
		AuctionEnd:   in.AuctionEnd,
		Status:       status,
	}, nil
}

// ApplyPatch applies an owner edit and reports whether the edit puts the end
// time at or before now, which must trigger settlement.
func ApplyPatch(a models.Auction, callerID int64, patch models.AuctionPatch, now time.Time) (models.Auction, bool, error) {
	if a.OwnerID != callerID {
		return a, false, fmt.Errorf("lifecycle: %w - auction %d belongs to another user", auctionerrors.ErrNotAuthorized, a.ID)
	}

	touchesBidding := patch.InitialPrice != nil || patch.Status != nil || patch.AuctionEndSet
	if a.IsSettled() && touchesBidding {
		return a, false, fmt.Errorf("lifecycle: %w - auction %d", auctionerrors.ErrAuctionSettled, a.ID)
	}

	if patch.Description != nil {
		d := strings.TrimSpace(*patch.Description)
		if d == "" {
			return a, false, fmt.Errorf("lifecycle: %w - description is required", auctionerrors.ErrInvalidAuction)
		}
		a.Description = d
	}
	if patch.Category != nil {
		c := strings.TrimSpace(*patch.Category)
		if c == "" {
			return a, false, fmt.Errorf("lifecycle: %w - category is required", auctionerrors.ErrInvalidAuction)
		}
		a.Category = c
	}
	if patch.Image != nil {
		a.Image = *patch.Image
	}
	if patch.InitialPrice != nil {
		if patch.InitialPrice.LessThan(models.MinInitialPrice) {
			return a, false, fmt.Errorf("lifecycle: %w - initial price must be at least %s", auctionerrors.ErrInvalidAuction, models.MinInitialPrice)
		}
		if patch.InitialPrice.GreaterThan(models.MaxAmount) {
			return a, false, fmt.Errorf("lifecycle: %w - initial price must be at most %s", auctionerrors.ErrInvalidAuction, models.MaxAmount)
		}
		a.InitialPrice = patch.InitialPrice.Round(2)
	}
	if patch.Status != nil {
		if !CanTransition(a.Status, *patch.Status) {
			return a, false, fmt.Errorf("lifecycle: %w - %s to %s", auctionerrors.ErrInvalidTransition, a.Status, *patch.Status)
		}
		a.Status = *patch.Status
	}
	if patch.IsDeleted != nil {
		a.IsDeleted = *patch.IsDeleted
	}

	settle := false
	if patch.AuctionEndSet {
		a.AuctionEnd = patch.AuctionEnd
		settle = a.Ended(now)
	}

	return a, settle, nil
}
