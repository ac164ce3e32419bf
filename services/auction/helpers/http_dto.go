package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	model "auction-house/internal/models"
)

// Amount accepts a money value sent either as a JSON number or a string.
// Parsing is left to the service so malformed values get a proper reject reason.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}

// OptionalTime tells apart an absent field, an explicit null and a timestamp
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(bytes.TrimSpace(b)) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return fmt.Errorf("auction_end: %w", err)
	}
	t = t.UTC()
	o.Value = &t
	return nil
}

// Request DTOs
type CreateAuctionRequest struct {
	Description  string     `json:"description" binding:"required"`
	Category     string     `json:"category" binding:"required"`
	Image        string     `json:"image"`
	InitialPrice Amount     `json:"initial_price" binding:"required"`
	AuctionEnd   *time.Time `json:"auction_end"`
	IsClosed     bool       `json:"is_closed"`
}

type UpdateAuctionRequest struct {
	Description  *string      `json:"description"`
	Category     *string      `json:"category"`
	Image        *string      `json:"image"`
	InitialPrice *Amount      `json:"initial_price"`
	Status       *string      `json:"status"`
	IsDeleted    *bool        `json:"is_deleted"`
	AuctionEnd   OptionalTime `json:"auction_end"`
}

type PlaceBidRequest struct {
	Amount Amount `json:"amount" binding:"required"`
}

// Response DTOs
type BidResponse struct {
	ID        int64  `json:"id"`
	AuctionID int64  `json:"auction_id"`
	BidderID  int64  `json:"bidder_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type AuctionResponse struct {
	ID           int64   `json:"id"`
	OwnerID      int64   `json:"owner_id"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Image        string  `json:"image"`
	InitialPrice string  `json:"initial_price"`
	DateListed   string  `json:"date_listed"`
	AuctionEnd   *string `json:"auction_end"`
	Status       string  `json:"status"`
	IsDeleted    bool    `json:"is_deleted"`
	WinnerID     *int64  `json:"winner_id"`
	WinnedPrice  *string `json:"winned_price"`
	Delivered    bool    `json:"delivered"`
	Settled      bool    `json:"settled"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func NewBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount.StringFixed(2),
		CreatedAt: formatTime(b.CreatedAt),
	}
}

func NewBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, NewBidResponse(b))
	}
	return out
}

func NewAuctionResponse(a model.Auction) AuctionResponse {
	resp := AuctionResponse{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		Description:  a.Description,
		Category:     a.Category,
		Image:        a.Image,
		InitialPrice: a.InitialPrice.StringFixed(2),
		DateListed:   formatTime(a.DateListed),
		Status:       string(a.Status),
		IsDeleted:    a.IsDeleted,
		WinnerID:     a.WinnerID,
		Delivered:    a.Delivered,
		Settled:      a.IsSettled(),
	}
	if a.AuctionEnd != nil {
		end := formatTime(*a.AuctionEnd)
		resp.AuctionEnd = &end
	}
	if a.WinningPrice != nil {
		price := a.WinningPrice.String()
		resp.WinnedPrice = &price
	}
	return resp
}

func NewAuctionResponses(list []model.Auction) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(list))
	for _, a := range list {
		out = append(out, NewAuctionResponse(a))
	}
	return out
}
