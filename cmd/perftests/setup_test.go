package perftests

import (
	"context"
	"fmt"
	"testing"

	auction "auction-house/internal/auctionService"
	"auction-house/internal/locks"
	model "auction-house/internal/models"
	"auction-house/internal/notify"
	"auction-house/internal/repository"

	"github.com/shopspring/decimal"
)

const benchOwner int64 = 1

// setupService creates a memory-backed service with numBidders users (ids 2..)
// and numAuctions open auctions starting at 50. Notifications go nowhere.
func setupService(tb testing.TB, numBidders, numAuctions int) (*auction.AuctionService, []int64) {
	tb.Helper()

	repo := repository.NewMemoryRepo()
	repo.AddUser(model.User{ID: benchOwner, DisplayName: "owner"})
	for i := 0; i < numBidders; i++ {
		id := int64(i + 2)
		repo.AddUser(model.User{ID: id, DisplayName: fmt.Sprintf("bidder_%d", id)})
	}

	svc := auction.NewAuctionService(repo, locks.NewKeyedMutex(), notify.NewNotifier(notify.Fanout{}))

	ids := make([]int64, 0, numAuctions)
	for i := 0; i < numAuctions; i++ {
		a, err := svc.CreateAuction(context.Background(), benchOwner, model.NewAuction{
			Description:  fmt.Sprintf("Bench Item %d", i),
			Category:     "bench",
			InitialPrice: decimal.NewFromInt(50),
		})
		if err != nil {
			tb.Fatalf("failed to create auction: %v", err)
		}
		ids = append(ids, a.ID)
	}
	return svc, ids
}

func bidderID(n int, numBidders int) int64 {
	return int64(n%numBidders + 2)
}
