package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"

	"github.com/shopspring/decimal"
)

type follow struct {
	subscriberID   int64
	subscribedToID int64
}

// MemoryRepo is a concurrency-safe in-memory implementation of Store
type MemoryRepo struct {
	mu            sync.RWMutex
	auctions      map[int64]models.Auction
	bids          map[int64][]models.Bid // key: auctionID -> bids in append order
	users         map[int64]models.User
	follows       map[follow]time.Time
	notifications map[int64][]models.Notification // key: userID -> notifications in append order

	nextAuctionID      int64
	nextBidID          int64
	nextNotificationID int64
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:      make(map[int64]models.Auction),
		bids:          make(map[int64][]models.Bid),
		users:         make(map[int64]models.User),
		follows:       make(map[follow]time.Time),
		notifications: make(map[int64][]models.Notification),
	}
}

// AddUser registers a user. Users are owned by an external profile service,
// so this is used for seeding and tests.
func (r *MemoryRepo) AddUser(user models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

// CreateAuction stores a new auction and assigns its id
func (r *MemoryRepo) CreateAuction(_ context.Context, auction models.Auction) (models.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[auction.OwnerID]; !ok {
		return models.Auction{}, fmt.Errorf("create auction for owner %d: %w", auction.OwnerID, auctionerrors.ErrUserNotFound)
	}

	r.nextAuctionID++
	auction.ID = r.nextAuctionID
	r.auctions[auction.ID] = auction
	return auction, nil
}

// GetAuction returns one auction, including soft-deleted ones
func (r *MemoryRepo) GetAuction(_ context.Context, auctionID int64) (models.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return models.Auction{}, fmt.Errorf("get auction %d: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// UpdateAuction overwrites the stored auction
func (r *MemoryRepo) UpdateAuction(_ context.Context, auction models.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auction.ID]; !ok {
		return fmt.Errorf("update auction %d: %w", auction.ID, auctionerrors.ErrAuctionNotFound)
	}
	r.auctions[auction.ID] = auction
	return nil
}

// ListAuctions returns non-deleted auctions matching the filter, newest first
func (r *MemoryRepo) ListAuctions(_ context.Context, filter models.AuctionFilter) ([]models.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	out := make([]models.Auction, 0)
	for _, a := range r.auctions {
		if a.IsDeleted {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Description), search) {
			continue
		}
		if filter.OwnerID != 0 && a.OwnerID != filter.OwnerID {
			continue
		}
		if filter.OnlyWon && !a.HasWinner() {
			continue
		}
		if filter.WinnerID != 0 && (a.WinnerID == nil || *a.WinnerID != filter.WinnerID) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DateListed.Equal(out[j].DateListed) {
			return out[i].ID > out[j].ID
		}
		return out[i].DateListed.After(out[j].DateListed)
	})
	return out, nil
}

// ListDueForSettlement returns unsettled, non-deleted auctions whose end time has passed
func (r *MemoryRepo) ListDueForSettlement(_ context.Context, now time.Time) ([]models.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Auction, 0)
	for _, a := range r.auctions {
		if !a.IsSettled() && !a.IsDeleted && a.Ended(now) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AuctionEnd.Before(*out[j].AuctionEnd) })
	return out, nil
}

// AppendBid adds an accepted bid to the auction's ledger and assigns its id
func (r *MemoryRepo) AppendBid(_ context.Context, bid models.Bid) (models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[bid.AuctionID]; !ok {
		return models.Bid{}, fmt.Errorf("append bid for auction %d: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}

	r.nextBidID++
	bid.ID = r.nextBidID
	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)
	return bid, nil
}

// BidsForAuction returns the auction's ledger ordered by submission time
func (r *MemoryRepo) BidsForAuction(_ context.Context, auctionID int64) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("get bids for auction %d: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}

	bids := append([]models.Bid(nil), r.bids[auctionID]...)
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].CreatedAt.Before(bids[j].CreatedAt) })
	return bids, nil
}

// MaxBid returns the highest amount bid on the auction
func (r *MemoryRepo) MaxBid(_ context.Context, auctionID int64) (decimal.Decimal, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	highest, ok := models.HighestBid(r.bids[auctionID])
	return highest, ok, nil
}

// MaxBidByUser returns the user's standing on the auction
func (r *MemoryRepo) MaxBidByUser(_ context.Context, auctionID, userID int64) (decimal.Decimal, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	highest, ok := models.HighestBidBy(r.bids[auctionID], userID)
	return highest, ok, nil
}

// FindUser resolves a user by id
func (r *MemoryRepo) FindUser(_ context.Context, userID int64) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("find user %d: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return u, nil
}

// AddFollower records that subscriberID follows subscribedToID
func (r *MemoryRepo) AddFollower(_ context.Context, subscriberID, subscribedToID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := follow{subscriberID: subscriberID, subscribedToID: subscribedToID}
	if _, ok := r.follows[key]; ok {
		return fmt.Errorf("follow %d -> %d: %w", subscriberID, subscribedToID, auctionerrors.ErrAlreadySubscribed)
	}
	r.follows[key] = time.Now().UTC()
	return nil
}

// RemoveFollower deletes a follow relation
func (r *MemoryRepo) RemoveFollower(_ context.Context, subscriberID, subscribedToID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := follow{subscriberID: subscriberID, subscribedToID: subscribedToID}
	if _, ok := r.follows[key]; !ok {
		return fmt.Errorf("unfollow %d -> %d: %w", subscriberID, subscribedToID, auctionerrors.ErrNotSubscribed)
	}
	delete(r.follows, key)
	return nil
}

// FollowersOf returns the users following userID, oldest follow first
func (r *MemoryRepo) FollowersOf(_ context.Context, userID int64) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type entry struct {
		user models.User
		at   time.Time
	}
	entries := make([]entry, 0)
	for f, at := range r.follows {
		if f.subscribedToID != userID {
			continue
		}
		if u, ok := r.users[f.subscriberID]; ok {
			entries = append(entries, entry{user: u, at: at})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].at.Equal(entries[j].at) {
			return entries[i].user.ID < entries[j].user.ID
		}
		return entries[i].at.Before(entries[j].at)
	})

	out := make([]models.User, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.user)
	}
	return out, nil
}

// SaveNotification stores a notification and assigns its id
func (r *MemoryRepo) SaveNotification(_ context.Context, n models.Notification) (models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextNotificationID++
	n.ID = r.nextNotificationID
	r.notifications[n.UserID] = append(r.notifications[n.UserID], n)
	return n, nil
}

// NotificationsFor returns the user's notifications, most recent first
func (r *MemoryRepo) NotificationsFor(_ context.Context, userID int64) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.notifications[userID]
	out := make([]models.Notification, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

// MarkNotificationRead flags one of the user's notifications as read
func (r *MemoryRepo) MarkNotificationRead(_ context.Context, userID, notificationID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications[userID] {
		if n.ID == notificationID {
			r.notifications[userID][i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("mark notification %d for user %d: %w", notificationID, userID, auctionerrors.ErrNotificationNotFound)
}
