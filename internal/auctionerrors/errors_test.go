package auctionerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "direct", err: ErrOwnerCannotBid, want: "OwnerCannotBid"},
		{name: "wrapped", err: fmt.Errorf("service: %w - current highest bid is 150.00", ErrBelowHighestBid), want: "BelowHighestBid"},
		{name: "not_found", err: fmt.Errorf("get auction 7: %w", ErrAuctionNotFound), want: "NotFound"},
		{name: "closed", err: ErrClosedToNewBidders, want: "ClosedToNewBidders"},
		{name: "unnamed", err: errors.New("db down"), want: ""},
		{name: "nil", err: nil, want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Reason(tc.err))
		})
	}
}
