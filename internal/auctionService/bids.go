package auction

import (
	"context"
	"fmt"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/validator"
)

// PlaceBid validates and records a bid. Validation and append happen under the
// auction lock so two bids can never both be judged against the same ledger.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, bidderID int64, rawAmount string) (models.Bid, error) {
	amount, err := validator.ParseAmount(rawAmount)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: %w", err)
	}

	if _, err := s.users.FindUser(ctx, bidderID); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to resolve bidder %d: %w", bidderID, err)
	}

	unlock, err := s.locker.Lock(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to lock auction %d: %w", auctionID, err)
	}
	defer unlock()

	a, err := s.loadAuction(ctx, auctionID)
	if err != nil {
		return models.Bid{}, err
	}

	var st validator.Standing
	if st.Highest, st.HasBids, err = s.store.MaxBid(ctx, auctionID); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to read highest bid of auction %d: %w", auctionID, err)
	}
	if st.BidderMax, st.HasOwnBids, err = s.store.MaxBidByUser(ctx, auctionID, bidderID); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to read bids of user %d on auction %d: %w", bidderID, auctionID, err)
	}

	now := s.now()
	if err := validator.ValidateStanding(a, bidderID, amount, st, now); err != nil {
		return models.Bid{}, fmt.Errorf("service: %w", err)
	}

	bid, err := s.store.AppendBid(ctx, models.Bid{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: now,
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid on auction %d by user %d: %w", auctionID, bidderID, err)
	}

	return bid, nil
}

// ListBids returns the auction's bids oldest first
func (s *AuctionService) ListBids(ctx context.Context, auctionID int64) ([]models.Bid, error) {
	if _, err := s.loadAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	bids, err := s.store.BidsForAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

// HighestBid returns the leading bid; the earliest one wins a tie
func (s *AuctionService) HighestBid(ctx context.Context, auctionID int64) (models.Bid, error) {
	bids, err := s.ListBids(ctx, auctionID)
	if err != nil {
		return models.Bid{}, err
	}
	if len(bids) == 0 {
		return models.Bid{}, fmt.Errorf("service: %w - auction %d", auctionerrors.ErrNoBids, auctionID)
	}

	best := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(best.Amount) {
			best = b
		}
	}
	return best, nil
}
