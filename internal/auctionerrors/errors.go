package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNoBids               = errors.New("no bids found for auction")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadySubscribed    = errors.New("already subscribed to user")
	ErrNotSubscribed        = errors.New("not subscribed to user")
)

// bid rejection errors
var (
	ErrMalformedAmount     = errors.New("malformed bid amount")
	ErrOwnerCannotBid      = errors.New("auction owner cannot bid")
	ErrNonPositiveAmount   = errors.New("bid amount must be positive")
	ErrBelowInitialPrice   = errors.New("bid must be greater than initial price")
	ErrBelowHighestBid     = errors.New("bid must be greater than current highest bid")
	ErrClosedToNewBidders  = errors.New("closed auction only accepts raises from existing bidders")
	ErrInvalidAuctionState = errors.New("invalid auction status")
	ErrAuctionEnded        = errors.New("auction has ended")
)

// lifecycle and access errors
var (
	ErrNotAuthorized     = errors.New("not authorized")
	ErrMissingCaller     = errors.New("missing caller identity")
	ErrInvalidAuction    = errors.New("invalid auction details")
	ErrInvalidTransition = errors.New("invalid auction status transition")
	ErrAuctionSettled    = errors.New("auction already settled")
	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrMalformedAmount, "MalformedAmount"},
	{ErrOwnerCannotBid, "OwnerCannotBid"},
	{ErrNonPositiveAmount, "NonPositiveAmount"},
	{ErrBelowInitialPrice, "BelowInitialPrice"},
	{ErrBelowHighestBid, "BelowHighestBid"},
	{ErrClosedToNewBidders, "ClosedToNewBidders"},
	{ErrInvalidAuctionState, "InvalidAuctionState"},
	{ErrAuctionEnded, "AuctionEnded"},
	{ErrNotAuthorized, "NotAuthorized"},
	{ErrAuctionNotFound, "NotFound"},
	{ErrInvalidTransition, "InvalidTransition"},
	{ErrAuctionSettled, "AuctionSettled"},
}

// Reason returns the client-visible reject reason carried by err, or "" when err
// is not one of the named rejections.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ""
}
