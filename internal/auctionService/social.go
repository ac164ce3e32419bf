package auction

import (
	"context"
	"fmt"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
)

// Follow subscribes callerID to targetID's new listings
func (s *AuctionService) Follow(ctx context.Context, callerID, targetID int64) error {
	if callerID == targetID {
		return fmt.Errorf("service: %w", auctionerrors.ErrSelfSubscription)
	}

	follower, err := s.users.FindUser(ctx, callerID)
	if err != nil {
		return fmt.Errorf("service: failed to resolve user %d: %w", callerID, err)
	}
	if _, err := s.users.FindUser(ctx, targetID); err != nil {
		return fmt.Errorf("service: failed to resolve user %d: %w", targetID, err)
	}

	if err := s.store.AddFollower(ctx, callerID, targetID); err != nil {
		return fmt.Errorf("service: %w", err)
	}

	s.notifier.Followed(ctx, follower, targetID)
	return nil
}

// Unfollow removes the subscription
func (s *AuctionService) Unfollow(ctx context.Context, callerID, targetID int64) error {
	if err := s.store.RemoveFollower(ctx, callerID, targetID); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	return nil
}

// ListFollowers returns the users following userID
func (s *AuctionService) ListFollowers(ctx context.Context, userID int64) ([]models.User, error) {
	if _, err := s.users.FindUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("service: failed to resolve user %d: %w", userID, err)
	}

	followers, err := s.store.FollowersOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list followers of %d: %w", userID, err)
	}
	return followers, nil
}

// ListNotifications returns the caller's notifications, newest first
func (s *AuctionService) ListNotifications(ctx context.Context, callerID int64) ([]models.Notification, error) {
	list, err := s.store.NotificationsFor(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list notifications for %d: %w", callerID, err)
	}
	return list, nil
}

func (s *AuctionService) MarkNotificationRead(ctx context.Context, callerID, notificationID int64) error {
	if err := s.store.MarkNotificationRead(ctx, callerID, notificationID); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	return nil
}
