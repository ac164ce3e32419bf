package auction

import (
	"context"
	"fmt"
	"sort"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
)

func toOrder(a models.Auction) models.Order {
	o := models.Order{
		AuctionID: a.ID,
		ItemName:  a.Description,
		Delivered: a.Delivered,
	}
	switch {
	case a.AuctionEnd != nil:
		o.OrderDate = *a.AuctionEnd
	case a.SettledAt != nil:
		o.OrderDate = *a.SettledAt
	}
	if a.WinningPrice != nil {
		o.WinningPrice = a.WinningPrice.StringFixed(2)
	}
	return o
}

// ListOrders returns won auctions: all of them for admins, the caller's own
// wins otherwise. Most recently ended first.
func (s *AuctionService) ListOrders(ctx context.Context, callerID int64) ([]models.Order, error) {
	caller, err := s.users.FindUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve user %d: %w", callerID, err)
	}

	filter := models.AuctionFilter{OnlyWon: true}
	if !caller.IsAdmin() {
		filter.WinnerID = caller.ID
	}

	won, err := s.store.ListAuctions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders for %d: %w", callerID, err)
	}

	orders := make([]models.Order, 0, len(won))
	for _, a := range won {
		orders = append(orders, toOrder(a))
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].OrderDate.After(orders[j].OrderDate) })
	return orders, nil
}

// ToggleDelivery flips the delivered flag of a won auction. Admins only.
func (s *AuctionService) ToggleDelivery(ctx context.Context, callerID, auctionID int64) (models.Order, error) {
	caller, err := s.users.FindUser(ctx, callerID)
	if err != nil {
		return models.Order{}, fmt.Errorf("service: failed to resolve user %d: %w", callerID, err)
	}
	if !caller.IsAdmin() {
		return models.Order{}, fmt.Errorf("service: %w - delivery is managed by admins", auctionerrors.ErrNotAuthorized)
	}

	unlock, err := s.locker.Lock(ctx, auctionID)
	if err != nil {
		return models.Order{}, fmt.Errorf("service: failed to lock auction %d: %w", auctionID, err)
	}
	defer unlock()

	a, err := s.loadAuction(ctx, auctionID)
	if err != nil {
		return models.Order{}, err
	}
	if !a.HasWinner() {
		return models.Order{}, fmt.Errorf("service: %w - auction %d has no winner", auctionerrors.ErrInvalidAuction, auctionID)
	}

	a.Delivered = !a.Delivered
	if err := s.store.UpdateAuction(ctx, a); err != nil {
		return models.Order{}, fmt.Errorf("service: failed to update delivery of auction %d: %w", auctionID, err)
	}
	return toOrder(a), nil
}
