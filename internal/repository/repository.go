package repository

import (
	"context"
	"time"

	"auction-house/internal/models"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mock_repository.go -package=repository auction-house/internal/repository UserStore

// AuctionDB stores auction records. Auctions are never physically deleted.
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction models.Auction) (models.Auction, error)
	GetAuction(ctx context.Context, auctionID int64) (models.Auction, error)
	UpdateAuction(ctx context.Context, auction models.Auction) error
	ListAuctions(ctx context.Context, filter models.AuctionFilter) ([]models.Auction, error)
	ListDueForSettlement(ctx context.Context, now time.Time) ([]models.Auction, error)
}

// BidLedger is the append-only, per-auction record of accepted bids
type BidLedger interface {
	AppendBid(ctx context.Context, bid models.Bid) (models.Bid, error)
	BidsForAuction(ctx context.Context, auctionID int64) ([]models.Bid, error)
	MaxBid(ctx context.Context, auctionID int64) (decimal.Decimal, bool, error)
	MaxBidByUser(ctx context.Context, auctionID, userID int64) (decimal.Decimal, bool, error)
}

// UserStore resolves user identities
type UserStore interface {
	FindUser(ctx context.Context, userID int64) (models.User, error)
}

// FollowerStore keeps follow relations between users
type FollowerStore interface {
	AddFollower(ctx context.Context, subscriberID, subscribedToID int64) error
	RemoveFollower(ctx context.Context, subscriberID, subscribedToID int64) error
	FollowersOf(ctx context.Context, userID int64) ([]models.User, error)
}

// NotificationStore persists delivered notifications
type NotificationStore interface {
	SaveNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	NotificationsFor(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) error
}

// Store is everything the auction service needs from storage
type Store interface {
	AuctionDB
	BidLedger
	UserStore
	FollowerStore
	NotificationStore
}

var (
	_ Store = (*MemoryRepo)(nil)
	_ Store = (*PostgresRepo)(nil)
)
