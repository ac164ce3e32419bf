package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the owner-controlled auction status
type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

// Role grants privileges on top of ordinary membership
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// MinInitialPrice is the lowest price an auction may start at
var MinInitialPrice = decimal.RequireFromString("0.01")

// MaxAmount is the largest initial price or bid accepted, the widest value the
// NUMERIC(12,2) price columns hold
var MaxAmount = decimal.RequireFromString("9999999999.99")

// User represents a marketplace participant
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// IsAdmin reports whether the user may manage fulfillment
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Auction represents a listed item and its bidding state
type Auction struct {
	ID           int64            `json:"id"`
	OwnerID      int64            `json:"owner_id"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Image        string           `json:"image"`
	InitialPrice decimal.Decimal  `json:"initial_price"`
	DateListed   time.Time        `json:"date_listed"`
	AuctionEnd   *time.Time       `json:"auction_end"`
	Status       Status           `json:"status"`
	IsDeleted    bool             `json:"is_deleted"`
	WinnerID     *int64           `json:"winner_id"`
	WinningPrice *decimal.Decimal `json:"winned_price"`
	Delivered    bool             `json:"delivered"`
	SettledAt    *time.Time       `json:"settled_at"`
}

// IsSettled reports whether settlement has already run for the auction
func (a Auction) IsSettled() bool {
	return a.SettledAt != nil
}

// HasWinner reports whether settlement recorded a winner
func (a Auction) HasWinner() bool {
	return a.WinnerID != nil && a.WinningPrice != nil
}

// Ended reports whether the scheduled end time is at or before now
func (a Auction) Ended(now time.Time) bool {
	return a.AuctionEnd != nil && !a.AuctionEnd.After(now)
}

// Bid represents one accepted offer in an auction's ledger
type Bid struct {
	ID        int64           `json:"id"`
	AuctionID int64           `json:"auction_id"`
	BidderID  int64           `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewAuction carries the owner-supplied fields of a new listing
type NewAuction struct {
	Description  string
	Category     string
	Image        string
	InitialPrice decimal.Decimal
	AuctionEnd   *time.Time
	Closed       bool
}

// AuctionPatch carries an owner edit. Nil fields are left untouched.
// AuctionEndSet distinguishes "clear the end time" from "leave it alone".
type AuctionPatch struct {
	Description   *string
	Category      *string
	Image         *string
	InitialPrice  *decimal.Decimal
	Status        *Status
	IsDeleted     *bool
	AuctionEndSet bool
	AuctionEnd    *time.Time
}

// AuctionFilter narrows auction listings
type AuctionFilter struct {
	Search   string
	OwnerID  int64
	WinnerID int64
	OnlyWon  bool
}

// Order is the fulfillment view of a won auction
type Order struct {
	AuctionID    int64     `json:"auction_id"`
	ItemName     string    `json:"item_name"`
	OrderDate    time.Time `json:"order_date"`
	Delivered    bool      `json:"delivered"`
	WinningPrice string    `json:"winned_price"`
}

// HighestBid returns the highest amount in bids
func HighestBid(bids []Bid) (decimal.Decimal, bool) {
	var (
		highest decimal.Decimal
		found   bool
	)
	for _, b := range bids {
		if !found || b.Amount.GreaterThan(highest) {
			highest = b.Amount
			found = true
		}
	}
	return highest, found
}

// HighestBidBy returns a bidder's standing, the maximum of their amounts
func HighestBidBy(bids []Bid, bidderID int64) (decimal.Decimal, bool) {
	var (
		highest decimal.Decimal
		found   bool
	)
	for _, b := range bids {
		if b.BidderID != bidderID {
			continue
		}
		if !found || b.Amount.GreaterThan(highest) {
			highest = b.Amount
			found = true
		}
	}
	return highest, found
}
