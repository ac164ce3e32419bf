package settlement

import (
	"time"

	"auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// Result is the outcome of settling one auction
type Result struct {
	WinnerID *int64
	// Amount is the winning amount with cent precision, used in notifications.
	Amount *decimal.Decimal
	// WinningBid is the ledger entry that won, if any.
	WinningBid *models.Bid
}

// HasWinner reports whether a bid beat the initial price
func (r Result) HasWinner() bool {
	return r.WinnerID != nil
}

// PersistedPrice is the winning amount as stored on the auction: truncated to
// whole units, not rounded.
func (r Result) PersistedPrice() *decimal.Decimal {
	if r.Amount == nil {
		return nil
	}
	p := r.Amount.Truncate(0)
	return &p
}

// Settle scans the ledger for the winner. Only a strictly greater amount takes
// the lead, so among equal top amounts the first one in scan order wins.
// bids are expected in submission order.
func Settle(auction models.Auction, bids []models.Bid) Result {
	highest := auction.InitialPrice
	var winner *models.Bid

	for i := range bids {
		if bids[i].Amount.GreaterThan(highest) {
			highest = bids[i].Amount
			winner = &bids[i]
		}
	}

	if winner == nil {
		return Result{}
	}

	id := winner.BidderID
	amount := highest
	w := *winner
	return Result{WinnerID: &id, Amount: &amount, WinningBid: &w}
}

// Apply records the result on the auction and marks it settled. Winner and
// winning price are written together or not at all.
func Apply(auction models.Auction, r Result, now time.Time) models.Auction {
	auction.WinnerID = nil
	auction.WinningPrice = nil
	if r.HasWinner() {
		id := *r.WinnerID
		auction.WinnerID = &id
		auction.WinningPrice = r.PersistedPrice()
	}
	settledAt := now
	auction.SettledAt = &settledAt
	return auction
}
