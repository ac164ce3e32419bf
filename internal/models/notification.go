package models

import (
	"encoding/json"
	"time"
)

// NotificationKind identifies what happened
type NotificationKind string

const (
	KindWin        NotificationKind = "win"
	KindAuctionWon NotificationKind = "auction_win"
	KindNewAuction NotificationKind = "auction"
	KindFollow     NotificationKind = "follow"
)

// NotificationPayload is the structured record delivered with a notification
type NotificationPayload struct {
	AuctionID          int64  `json:"auction_id,omitempty"`
	AuctionTitle       string `json:"auction_title,omitempty"`
	Amount             string `json:"winning_price,omitempty"`
	CounterpartyID     int64  `json:"user_id,omitempty"`
	CounterpartyName   string `json:"username,omitempty"`
	CounterpartyAvatar string `json:"profile_image,omitempty"`
}

// Notification is a delivered event record addressed to one user
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Payload   json.RawMessage  `json:"payload"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
