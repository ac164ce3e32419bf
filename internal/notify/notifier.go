package notify

import (
	"context"

	"auction-house/internal/models"
	"auction-house/utils"

	"github.com/shopspring/decimal"
)

// DefaultAvatar is shown for users without a profile image
const DefaultAvatar = "/default.png"

// Notifier turns domain events into notifications. Delivery is best effort:
// failures are logged and never reach the caller.
type Notifier struct {
	sink Sink
}

func NewNotifier(sink Sink) *Notifier {
	return &Notifier{sink: sink}
}

func avatar(u models.User) string {
	if u.AvatarURL == "" {
		return DefaultAvatar
	}
	return u.AvatarURL
}

func (n *Notifier) emit(ctx context.Context, userID int64, kind models.NotificationKind, payload models.NotificationPayload) {
	if err := n.sink.Emit(ctx, userID, kind, payload); err != nil {
		utils.Warn("notification delivery failed", map[string]any{
			"user_id": userID,
			"kind":    string(kind),
			"error":   err.Error(),
		})
	}
}

// AuctionSettled tells the winner they won and the owner who won. Both
// payloads describe the winner.
func (n *Notifier) AuctionSettled(ctx context.Context, auction models.Auction, amount decimal.Decimal, winner models.User) {
	payload := models.NotificationPayload{
		AuctionID:          auction.ID,
		AuctionTitle:       auction.Description,
		Amount:             amount.StringFixed(2),
		CounterpartyID:     winner.ID,
		CounterpartyName:   winner.DisplayName,
		CounterpartyAvatar: avatar(winner),
	}
	n.emit(ctx, winner.ID, models.KindWin, payload)
	n.emit(ctx, auction.OwnerID, models.KindAuctionWon, payload)
}

// AuctionCreated tells each follower of the owner about the new listing
func (n *Notifier) AuctionCreated(ctx context.Context, auction models.Auction, owner models.User, followers []models.User) {
	payload := models.NotificationPayload{
		AuctionID:          auction.ID,
		AuctionTitle:       auction.Description,
		CounterpartyID:     owner.ID,
		CounterpartyName:   owner.DisplayName,
		CounterpartyAvatar: avatar(owner),
	}
	for _, f := range followers {
		n.emit(ctx, f.ID, models.KindNewAuction, payload)
	}
}

// Followed tells targetID that follower started following them
func (n *Notifier) Followed(ctx context.Context, follower models.User, targetID int64) {
	n.emit(ctx, targetID, models.KindFollow, models.NotificationPayload{
		CounterpartyID:     follower.ID,
		CounterpartyName:   follower.DisplayName,
		CounterpartyAvatar: avatar(follower),
	})
}
