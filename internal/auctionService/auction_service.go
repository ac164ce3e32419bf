package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/lifecycle"
	"auction-house/internal/locks"
	"auction-house/internal/models"
	"auction-house/internal/notify"
	"auction-house/internal/repository"
	"auction-house/internal/settlement"
	"auction-house/utils"
)

// AuctionService holds the business logic for listings, bidding and settlement
type AuctionService struct {
	store    repository.Store
	users    repository.UserStore
	locker   locks.Locker
	notifier *notify.Notifier
	now      func() time.Time
}

// Option customizes an AuctionService
type Option func(*AuctionService)

// WithClock replaces the wall clock, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *AuctionService) { s.now = now }
}

// WithUserStore resolves users somewhere other than the main store
func WithUserStore(users repository.UserStore) Option {
	return func(s *AuctionService) { s.users = users }
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(store repository.Store, locker locks.Locker, notifier *notify.Notifier, opts ...Option) *AuctionService {
	s := &AuctionService{
		store:    store,
		users:    store,
		locker:   locker,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadAuction returns a live auction; soft-deleted ones are treated as missing
func (s *AuctionService) loadAuction(ctx context.Context, auctionID int64) (models.Auction, error) {
	a, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to load auction %d: %w", auctionID, err)
	}
	if a.IsDeleted {
		return models.Auction{}, fmt.Errorf("service: %w - auction %d is deleted", auctionerrors.ErrAuctionNotFound, auctionID)
	}
	return a, nil
}

// CreateAuction lists a new auction and tells the owner's followers about it
func (s *AuctionService) CreateAuction(ctx context.Context, ownerID int64, in models.NewAuction) (models.Auction, error) {
	owner, err := s.users.FindUser(ctx, ownerID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to resolve owner %d: %w", ownerID, err)
	}

	a, err := lifecycle.NewAuction(ownerID, in, s.now())
	if err != nil {
		return models.Auction{}, err
	}

	created, err := s.store.CreateAuction(ctx, a)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction for user %d: %w", ownerID, err)
	}

	followers, err := s.store.FollowersOf(ctx, ownerID)
	if err != nil {
		utils.Warn("could not load followers for new auction", map[string]any{"auction_id": created.ID, "owner_id": ownerID, "error": err.Error()})
		return created, nil
	}
	s.notifier.AuctionCreated(ctx, created, owner, followers)

	return created, nil
}

// GetAuction returns a single live auction
func (s *AuctionService) GetAuction(ctx context.Context, auctionID int64) (models.Auction, error) {
	return s.loadAuction(ctx, auctionID)
}

// ListAuctions returns live auctions whose description contains search
func (s *AuctionService) ListAuctions(ctx context.Context, search string) ([]models.Auction, error) {
	list, err := s.store.ListAuctions(ctx, models.AuctionFilter{Search: search})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return list, nil
}

// ListAuctionsByOwner returns the live auctions listed by ownerID
func (s *AuctionService) ListAuctionsByOwner(ctx context.Context, ownerID int64) ([]models.Auction, error) {
	if _, err := s.users.FindUser(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("service: failed to resolve user %d: %w", ownerID, err)
	}

	list, err := s.store.ListAuctions(ctx, models.AuctionFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions for user %d: %w", ownerID, err)
	}
	return list, nil
}

// UpdateAuction applies an owner edit. Moving the end time to now or earlier
// settles the auction before returning.
func (s *AuctionService) UpdateAuction(ctx context.Context, auctionID, callerID int64, patch models.AuctionPatch) (models.Auction, error) {
	unlock, err := s.locker.Lock(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to lock auction %d: %w", auctionID, err)
	}
	defer unlock()

	current, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to load auction %d: %w", auctionID, err)
	}

	now := s.now()
	updated, settle, err := lifecycle.ApplyPatch(current, callerID, patch, now)
	if err != nil {
		return models.Auction{}, err
	}

	if settle {
		return s.settleLocked(ctx, updated, now)
	}

	if err := s.store.UpdateAuction(ctx, updated); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to update auction %d: %w", auctionID, err)
	}
	return updated, nil
}

// settleLocked computes and persists the outcome, then notifies. The caller
// must hold the auction lock. Settled auctions are returned unchanged.
func (s *AuctionService) settleLocked(ctx context.Context, a models.Auction, now time.Time) (models.Auction, error) {
	if a.IsSettled() {
		return a, nil
	}

	bids, err := s.store.BidsForAuction(ctx, a.ID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to load bids for auction %d: %w", a.ID, err)
	}

	result := settlement.Settle(a, bids)
	settled := settlement.Apply(a, result, now)
	if err := s.store.UpdateAuction(ctx, settled); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to persist settlement of auction %d: %w", a.ID, err)
	}

	fields := map[string]any{"auction_id": a.ID, "bids": len(bids)}
	if !result.HasWinner() {
		utils.Info("auction settled without winner", fields)
		return settled, nil
	}
	fields["winner_id"] = *result.WinnerID
	fields["amount"] = result.Amount.StringFixed(2)
	utils.Info("auction settled", fields)

	winner, err := s.users.FindUser(ctx, *result.WinnerID)
	if err != nil {
		utils.Warn("could not resolve winner for notifications", map[string]any{"auction_id": a.ID, "error": err.Error()})
		return settled, nil
	}
	s.notifier.AuctionSettled(ctx, settled, *result.Amount, winner)

	return settled, nil
}

// SettleDue settles every auction whose end time has passed and returns how
// many were settled. A failure on one auction does not stop the others.
func (s *AuctionService) SettleDue(ctx context.Context) (int, error) {
	due, err := s.store.ListDueForSettlement(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("service: failed to list auctions due for settlement: %w", err)
	}

	var (
		settled int
		errs    []error
	)
	for _, a := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := s.settleOne(ctx, a.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			settled++
		}
	}
	return settled, errors.Join(errs...)
}

func (s *AuctionService) settleOne(ctx context.Context, auctionID int64) (bool, error) {
	unlock, err := s.locker.Lock(ctx, auctionID)
	if err != nil {
		return false, fmt.Errorf("service: failed to lock auction %d: %w", auctionID, err)
	}
	defer unlock()

	// re-read under the lock, an owner edit or another replica may have won the race
	a, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return false, fmt.Errorf("service: failed to load auction %d: %w", auctionID, err)
	}
	now := s.now()
	if !lifecycle.DueForSettlement(a, now) {
		return false, nil
	}

	if _, err := s.settleLocked(ctx, a, now); err != nil {
		return false, err
	}
	return true, nil
}
