package validator

import (
	"fmt"
	"strings"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the precision bids are stored with
const AmountPlaces = 2

const (
	// maxAmountLen and the exponent window bound the work Round does on user
	// input; "1e99999999" would otherwise expand to a hundred million digits.
	maxAmountLen = 32
	minExponent  = -maxAmountLen
	maxExponent  = 12
)

// ParseAmount converts user input into an amount rounded to cents.
// Anything that is not a plain decimal number up to models.MaxAmount is
// rejected as malformed.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("validator: %w - empty amount", auctionerrors.ErrMalformedAmount)
	}
	if len(s) > maxAmountLen {
		return decimal.Decimal{}, fmt.Errorf("validator: %w - amount too long", auctionerrors.ErrMalformedAmount)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("validator: %w - %q", auctionerrors.ErrMalformedAmount, raw)
	}
	if exp := amount.Exponent(); exp < minExponent || exp > maxExponent {
		return decimal.Decimal{}, fmt.Errorf("validator: %w - %q out of range", auctionerrors.ErrMalformedAmount, raw)
	}
	amount = amount.Round(AmountPlaces)
	if err := CheckMaxAmount(amount); err != nil {
		return decimal.Decimal{}, err
	}
	return amount, nil
}

// CheckMaxAmount rejects amounts above models.MaxAmount
func CheckMaxAmount(amount decimal.Decimal) error {
	if amount.GreaterThan(models.MaxAmount) {
		return fmt.Errorf("validator: %w - %s exceeds the maximum of %s", auctionerrors.ErrMalformedAmount, amount.StringFixed(AmountPlaces), models.MaxAmount)
	}
	return nil
}

// Standing is what the validator needs from an auction's ledger: the highest
// bid overall and the bidder's own highest bid.
type Standing struct {
	Highest    decimal.Decimal
	HasBids    bool
	BidderMax  decimal.Decimal
	HasOwnBids bool
}

// StandingFrom derives the standing of bidderID from a full bid history
func StandingFrom(history []models.Bid, bidderID int64) Standing {
	var st Standing
	st.Highest, st.HasBids = models.HighestBid(history)
	st.BidderMax, st.HasOwnBids = models.HighestBidBy(history, bidderID)
	return st
}

// ValidateBid decides whether bidderID may bid amount on the auction given the
// auction's full bid history. It returns nil to accept and a wrapped rejection
// error otherwise. It has no side effects.
func ValidateBid(auction models.Auction, bidderID int64, amount decimal.Decimal, history []models.Bid, now time.Time) error {
	return ValidateStanding(auction, bidderID, amount, StandingFrom(history, bidderID), now)
}

// ValidateStanding is ValidateBid over precomputed ledger maximums, so callers
// can ask the store for them instead of loading every bid.
func ValidateStanding(auction models.Auction, bidderID int64, amount decimal.Decimal, st Standing, now time.Time) error {
	if auction.OwnerID == bidderID {
		return fmt.Errorf("validator: %w", auctionerrors.ErrOwnerCannotBid)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("validator: %w - got %s", auctionerrors.ErrNonPositiveAmount, amount.StringFixed(AmountPlaces))
	}
	if err := CheckMaxAmount(amount); err != nil {
		return err
	}
	if auction.IsSettled() || auction.Ended(now) {
		return fmt.Errorf("validator: %w", auctionerrors.ErrAuctionEnded)
	}

	switch auction.Status {
	case models.StatusOpen:
		if !amount.GreaterThan(auction.InitialPrice) {
			return fmt.Errorf("validator: %w - initial price is %s", auctionerrors.ErrBelowInitialPrice, auction.InitialPrice.StringFixed(AmountPlaces))
		}
		if st.HasBids && !amount.GreaterThan(st.Highest) {
			return fmt.Errorf("validator: %w - current highest bid is %s", auctionerrors.ErrBelowHighestBid, st.Highest.StringFixed(AmountPlaces))
		}
		return nil

	case models.StatusClosed:
		// Existing bidders are only held to the initial price here, not to their
		// own previous maximum.
		if !st.HasOwnBids {
			return fmt.Errorf("validator: %w", auctionerrors.ErrClosedToNewBidders)
		}
		if !amount.GreaterThan(auction.InitialPrice) {
			return fmt.Errorf("validator: %w - initial price is %s", auctionerrors.ErrBelowInitialPrice, auction.InitialPrice.StringFixed(AmountPlaces))
		}
		return nil

	default:
		return fmt.Errorf("validator: %w - %q", auctionerrors.ErrInvalidAuctionState, auction.Status)
	}
}
