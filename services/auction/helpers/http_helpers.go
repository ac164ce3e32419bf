package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/lifecycle"
	"auction-house/internal/locks"
	model "auction-house/internal/models"
	"auction-house/internal/validator"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// CallerKey is the gin context key holding the authenticated user id
const CallerKey = "caller_id"

// ErrInvalidID is returned for path ids that are not positive integers
var ErrInvalidID = errors.New("invalid id")

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for auction"
	case errors.Is(err, auctionerrors.ErrNotSubscribed):
		return http.StatusNotFound, "not subscribed to user"
	case errors.Is(err, auctionerrors.ErrMissingCaller):
		return http.StatusUnauthorized, "missing caller identity"
	case errors.Is(err, auctionerrors.ErrNotAuthorized):
		return http.StatusForbidden, "not authorized"
	case errors.Is(err, auctionerrors.ErrAuctionSettled):
		return http.StatusConflict, "auction already settled"
	case errors.Is(err, auctionerrors.ErrAlreadySubscribed):
		return http.StatusConflict, "already subscribed to user"
	case errors.Is(err, auctionerrors.ErrMalformedAmount),
		errors.Is(err, auctionerrors.ErrOwnerCannotBid),
		errors.Is(err, auctionerrors.ErrNonPositiveAmount),
		errors.Is(err, auctionerrors.ErrBelowInitialPrice),
		errors.Is(err, auctionerrors.ErrBelowHighestBid),
		errors.Is(err, auctionerrors.ErrClosedToNewBidders),
		errors.Is(err, auctionerrors.ErrAuctionEnded):
		return http.StatusBadRequest, "bid rejected"
	case errors.Is(err, auctionerrors.ErrInvalidAuctionState):
		return http.StatusBadRequest, "invalid auction status"
	case errors.Is(err, auctionerrors.ErrInvalidAuction):
		return http.StatusBadRequest, "invalid auction details"
	case errors.Is(err, auctionerrors.ErrInvalidTransition):
		return http.StatusBadRequest, "invalid status transition"
	case errors.Is(err, auctionerrors.ErrSelfSubscription):
		return http.StatusBadRequest, "cannot subscribe to yourself"
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest, "invalid id"
	case errors.Is(err, locks.ErrLockTimeout):
		return http.StatusServiceUnavailable, "auction busy, retry later"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error response and logs it. Server errors are
// logged at error level, client errors at warn.
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	wrapped := fmt.Errorf("%s: %w", message, err)
	if reason := auctionerrors.Reason(err); reason != "" {
		utils.JSONRejection(c, status, wrapped, message, reason)
	} else {
		utils.JSONError(c, status, wrapped, message)
	}

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, fields)
		return
	}
	utils.Warn(handlerName+": "+message, fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// ParseID reads a positive integer path parameter
func ParseID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidID, name, raw)
	}
	return id, nil
}

// CallerID returns the authenticated user set by the caller middleware
func CallerID(c *gin.Context) (int64, error) {
	v, ok := c.Get(CallerKey)
	if !ok {
		return 0, auctionerrors.ErrMissingCaller
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, auctionerrors.ErrMissingCaller
	}
	return id, nil
}

// ParseCaller parses the X-User-ID header value
func ParseCaller(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", auctionerrors.ErrMissingCaller, raw)
	}
	return id, nil
}

// ToNewAuction converts a create request into service input
func ToNewAuction(req CreateAuctionRequest) (model.NewAuction, error) {
	price, err := validator.ParseAmount(string(req.InitialPrice))
	if err != nil {
		return model.NewAuction{}, fmt.Errorf("%w - initial_price: %v", auctionerrors.ErrInvalidAuction, err)
	}
	in := model.NewAuction{
		Description:  req.Description,
		Category:     req.Category,
		Image:        req.Image,
		InitialPrice: price,
		Closed:       req.IsClosed,
	}
	if req.AuctionEnd != nil {
		end := req.AuctionEnd.UTC()
		in.AuctionEnd = &end
	}
	return in, nil
}

// ToAuctionPatch converts an update request into a patch
func ToAuctionPatch(req UpdateAuctionRequest) (model.AuctionPatch, error) {
	patch := model.AuctionPatch{
		Description:   req.Description,
		Category:      req.Category,
		Image:         req.Image,
		IsDeleted:     req.IsDeleted,
		AuctionEndSet: req.AuctionEnd.Set,
		AuctionEnd:    req.AuctionEnd.Value,
	}
	if req.InitialPrice != nil {
		price, err := validator.ParseAmount(string(*req.InitialPrice))
		if err != nil {
			return model.AuctionPatch{}, fmt.Errorf("%w - initial_price: %v", auctionerrors.ErrInvalidAuction, err)
		}
		patch.InitialPrice = &price
	}
	if req.Status != nil {
		status, err := lifecycle.ParseStatus(*req.Status)
		if err != nil {
			return model.AuctionPatch{}, err
		}
		patch.Status = &status
	}
	return patch, nil
}
