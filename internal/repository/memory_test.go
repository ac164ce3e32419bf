package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Helper to create a new User
func newUser(id int64, name string) models.User {
	return models.User{ID: id, DisplayName: name, Email: fmt.Sprintf("%s@example.com", name), Role: models.RoleMember}
}

// Helper to create a new Auction
func newAuction(ownerID int64, description string, initial int64, listed time.Time) models.Auction {
	return models.Auction{
		OwnerID:      ownerID,
		Description:  description,
		Category:     "misc",
		InitialPrice: decimal.NewFromInt(initial),
		DateListed:   listed,
		Status:       models.StatusOpen,
	}
}

// Helper to create a new Bid
func newBid(auctionID, bidderID int64, amount string, createdAt time.Time) models.Bid {
	return models.Bid{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: createdAt,
	}
}

func seededRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	for i, name := range []string{"owner", "alice", "bob", "carol"} {
		repo.AddUser(newUser(int64(i+1), name))
	}
	return repo
}

// Test CreateAuction and GetAuction
func TestMemoryRepo_CreateAndGetAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seededRepo(t)
	now := time.Now().UTC()

	first, err := repo.CreateAuction(ctx, newAuction(1, "Vintage Camera", 100, now))
	require.NoError(t, err)
	second, err := repo.CreateAuction(ctx, newAuction(1, "Oak Table", 50, now))
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)

	got, err := repo.GetAuction(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, first, got)

	_, err = repo.GetAuction(ctx, 99)
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))

	_, err = repo.CreateAuction(ctx, newAuction(42, "orphan", 10, now))
	require.True(t, errors.Is(err, auctionerrors.ErrUserNotFound))

	got.Status = models.StatusClosed
	require.NoError(t, repo.UpdateAuction(ctx, got))
	updated, err := repo.GetAuction(ctx, got.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusClosed, updated.Status)

	require.True(t, errors.Is(repo.UpdateAuction(ctx, models.Auction{ID: 77}), auctionerrors.ErrAuctionNotFound))
}

// Test ListAuctions
func TestMemoryRepo_ListAuctions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seededRepo(t)
	t0 := time.Now().UTC().Add(-time.Hour)

	camera, _ := repo.CreateAuction(ctx, newAuction(1, "Vintage Camera", 100, t0))
	lens, _ := repo.CreateAuction(ctx, newAuction(1, "camera lens", 40, t0.Add(time.Minute)))
	table, _ := repo.CreateAuction(ctx, newAuction(2, "Oak Table", 50, t0.Add(2*time.Minute)))
	deleted := newAuction(2, "Deleted Camera", 10, t0.Add(3*time.Minute))
	deleted.IsDeleted = true
	_, _ = repo.CreateAuction(ctx, deleted)

	winner := int64(3)
	price := decimal.NewFromInt(60)
	table.WinnerID = &winner
	table.WinningPrice = &price
	require.NoError(t, repo.UpdateAuction(ctx, table))

	tests := []struct {
		name   string
		filter models.AuctionFilter
		want   []int64
	}{
		{name: "all_newest_first", filter: models.AuctionFilter{}, want: []int64{table.ID, lens.ID, camera.ID}},
		{name: "search_case_insensitive", filter: models.AuctionFilter{Search: "CAMERA"}, want: []int64{lens.ID, camera.ID}},
		{name: "by_owner", filter: models.AuctionFilter{OwnerID: 2}, want: []int64{table.ID}},
		{name: "only_won", filter: models.AuctionFilter{OnlyWon: true}, want: []int64{table.ID}},
		{name: "won_by_user", filter: models.AuctionFilter{WinnerID: 3}, want: []int64{table.ID}},
		{name: "won_by_other_user", filter: models.AuctionFilter{WinnerID: 2}, want: []int64{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := repo.ListAuctions(ctx, tc.filter)
			require.NoError(t, err)
			ids := make([]int64, 0, len(got))
			for _, a := range got {
				ids = append(ids, a.ID)
			}
			require.Equal(t, tc.want, ids)
		})
	}
}

// Test ListDueForSettlement
func TestMemoryRepo_ListDueForSettlement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seededRepo(t)
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	earlier := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	due := newAuction(1, "due", 10, now)
	due.AuctionEnd = &past
	dueEarlier := newAuction(1, "due earlier", 10, now)
	dueEarlier.AuctionEnd = &earlier
	running := newAuction(1, "running", 10, now)
	running.AuctionEnd = &future
	settled := newAuction(1, "settled", 10, now)
	settled.AuctionEnd = &past
	settled.SettledAt = &past
	deleted := newAuction(1, "deleted", 10, now)
	deleted.AuctionEnd = &past
	deleted.IsDeleted = true

	var ids []int64
	for _, a := range []models.Auction{due, dueEarlier, running, settled, deleted, newAuction(1, "no end", 10, now)} {
		created, err := repo.CreateAuction(ctx, a)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	got, err := repo.ListDueForSettlement(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ids[1], got[0].ID)
	require.Equal(t, ids[0], got[1].ID)
}

// Test AppendBid and the ledger queries
func TestMemoryRepo_BidLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seededRepo(t)
	t0 := time.Now().UTC()

	auction, err := repo.CreateAuction(ctx, newAuction(1, "Vintage Camera", 100, t0))
	require.NoError(t, err)
	empty, err := repo.CreateAuction(ctx, newAuction(1, "Oak Table", 50, t0))
	require.NoError(t, err)

	b1, err := repo.AppendBid(ctx, newBid(auction.ID, 2, "120", t0))
	require.NoError(t, err)
	b2, err := repo.AppendBid(ctx, newBid(auction.ID, 3, "150.50", t0.Add(time.Second)))
	require.NoError(t, err)
	b3, err := repo.AppendBid(ctx, newBid(auction.ID, 2, "140", t0.Add(2*time.Second)))
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, []int64{b1.ID, b2.ID, b3.ID})

	_, err = repo.AppendBid(ctx, newBid(99, 2, "10", t0))
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))

	t.Run("ordered_by_submission_time", func(t *testing.T) {
		bids, err := repo.BidsForAuction(ctx, auction.ID)
		require.NoError(t, err)
		require.Equal(t, []models.Bid{b1, b2, b3}, bids)
	})

	t.Run("returned_slice_is_a_copy", func(t *testing.T) {
		bids, err := repo.BidsForAuction(ctx, auction.ID)
		require.NoError(t, err)
		bids[0].Amount = decimal.NewFromInt(1)

		again, err := repo.BidsForAuction(ctx, auction.ID)
		require.NoError(t, err)
		require.True(t, again[0].Amount.Equal(decimal.NewFromInt(120)))
	})

	t.Run("no_bids", func(t *testing.T) {
		bids, err := repo.BidsForAuction(ctx, empty.ID)
		require.NoError(t, err)
		require.Empty(t, bids)

		_, ok, err := repo.MaxBid(ctx, empty.ID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown_auction", func(t *testing.T) {
		_, err := repo.BidsForAuction(ctx, 99)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})

	t.Run("max_bid", func(t *testing.T) {
		highest, ok, err := repo.MaxBid(ctx, auction.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, highest.Equal(decimal.RequireFromString("150.5")))
	})

	t.Run("max_bid_by_user", func(t *testing.T) {
		own, ok, err := repo.MaxBidByUser(ctx, auction.ID, 2)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, own.Equal(decimal.NewFromInt(140)))

		_, ok, err = repo.MaxBidByUser(ctx, auction.ID, 4)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

// concurrent appends get unique ids and none are lost
func TestMemoryRepo_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seededRepo(t)
	auction, err := repo.CreateAuction(ctx, newAuction(1, "Shared Item", 50, time.Now().UTC()))
	require.NoError(t, err)

	var wg sync.WaitGroup
	concurrentCount := 50
	ids := make(chan int64, concurrentCount)

	for i := 0; i < concurrentCount; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			b, err := repo.AppendBid(ctx, newBid(auction.ID, 2, fmt.Sprintf("%d", 100+i), time.Now().UTC()))
			require.NoError(t, err)
			ids <- b.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		require.False(t, seen[id], "duplicate bid id %d", id)
		seen[id] = true
	}

	bids, err := repo.BidsForAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.Len(t, bids, concurrentCount)
}

// Test follower bookkeeping
func TestMemoryRepo_Followers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seededRepo(t)

	require.NoError(t, repo.AddFollower(ctx, 2, 1))
	require.NoError(t, repo.AddFollower(ctx, 3, 1))
	require.True(t, errors.Is(repo.AddFollower(ctx, 2, 1), auctionerrors.ErrAlreadySubscribed))

	followers, err := repo.FollowersOf(ctx, 1)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	require.ElementsMatch(t, []int64{2, 3}, []int64{followers[0].ID, followers[1].ID})

	require.NoError(t, repo.RemoveFollower(ctx, 2, 1))
	require.True(t, errors.Is(repo.RemoveFollower(ctx, 2, 1), auctionerrors.ErrNotSubscribed))

	followers, err = repo.FollowersOf(ctx, 1)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.Equal(t, int64(3), followers[0].ID)

	none, err := repo.FollowersOf(ctx, 4)
	require.NoError(t, err)
	require.Empty(t, none)
}

// Test notification storage
func TestMemoryRepo_Notifications(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seededRepo(t)

	first, err := repo.SaveNotification(ctx, models.Notification{UserID: 2, Kind: models.KindFollow, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	second, err := repo.SaveNotification(ctx, models.Notification{UserID: 2, Kind: models.KindWin, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	_, err = repo.SaveNotification(ctx, models.Notification{UserID: 3, Kind: models.KindFollow, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	got, err := repo.NotificationsFor(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, second.ID, got[0].ID)
	require.Equal(t, first.ID, got[1].ID)

	require.NoError(t, repo.MarkNotificationRead(ctx, 2, first.ID))
	got, err = repo.NotificationsFor(ctx, 2)
	require.NoError(t, err)
	require.True(t, got[1].IsRead)
	require.False(t, got[0].IsRead)

	require.True(t, errors.Is(repo.MarkNotificationRead(ctx, 3, first.ID), auctionerrors.ErrNotificationNotFound))
}

// Test FindUser
func TestMemoryRepo_FindUser(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	u, err := repo.FindUser(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "alice", u.DisplayName)

	_, err = repo.FindUser(context.Background(), 50)
	require.True(t, errors.Is(err, auctionerrors.ErrUserNotFound))
}
