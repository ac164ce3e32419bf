package redisx

import "fmt"

const (
	keyAuctionLock       = "lock:auction:%d"
	channelNotifications = "notifications:%d"
)

// AuctionLockKey is the key guarding bid admission and settlement of one auction
func AuctionLockKey(auctionID int64) string {
	return fmt.Sprintf(keyAuctionLock, auctionID)
}

// NotificationChannel is the pub/sub channel carrying a user's notifications
func NotificationChannel(userID int64) string {
	return fmt.Sprintf(channelNotifications, userID)
}
