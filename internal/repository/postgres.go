package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const auctionColumns = `id, owner_id, description, category, image, initial_price, date_listed, auction_end,
	status, is_deleted, winner_id, winned_price, delivered, settled_at`

// PostgresRepo implements Store on top of a pgx pool
type PostgresRepo struct{ DB *pgxpool.Pool }

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{DB: pool}
}

// UpsertUser mirrors a profile from the identity service
func (r *PostgresRepo) UpsertUser(ctx context.Context, user models.User) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users (id, display_name, avatar_url, email, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name, avatar_url = EXCLUDED.avatar_url,
		    email = EXCLUDED.email, role = EXCLUDED.role`,
		user.ID, user.DisplayName, user.AvatarURL, user.Email, string(user.Role))
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", user.ID, err)
	}
	return nil
}

func scanAuction(row pgx.Row) (models.Auction, error) {
	var (
		a      models.Auction
		status string
		price  decimal.NullDecimal
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.Description, &a.Category, &a.Image, &a.InitialPrice, &a.DateListed,
		&a.AuctionEnd, &status, &a.IsDeleted, &a.WinnerID, &price, &a.Delivered, &a.SettledAt)
	if err != nil {
		return models.Auction{}, err
	}
	a.Status = models.Status(status)
	if price.Valid {
		p := price.Decimal
		a.WinningPrice = &p
	}
	return a, nil
}

func collectAuctions(rows pgx.Rows) ([]models.Auction, error) {
	defer rows.Close()
	out := make([]models.Auction, 0)
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullablePrice(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*p)
}

func (r *PostgresRepo) CreateAuction(ctx context.Context, auction models.Auction) (models.Auction, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, auction.OwnerID).Scan(&exists); err != nil {
		return models.Auction{}, fmt.Errorf("create auction: %w", err)
	}
	if !exists {
		return models.Auction{}, fmt.Errorf("create auction for owner %d: %w", auction.OwnerID, auctionerrors.ErrUserNotFound)
	}

	err := r.DB.QueryRow(ctx, `
		INSERT INTO auctions (owner_id, description, category, image, initial_price, date_listed, auction_end,
			status, is_deleted, winner_id, winned_price, delivered, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		auction.OwnerID, auction.Description, auction.Category, auction.Image, auction.InitialPrice, auction.DateListed,
		auction.AuctionEnd, string(auction.Status), auction.IsDeleted, auction.WinnerID, nullablePrice(auction.WinningPrice),
		auction.Delivered, auction.SettledAt,
	).Scan(&auction.ID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("create auction: %w", err)
	}
	return auction, nil
}

func (r *PostgresRepo) GetAuction(ctx context.Context, auctionID int64) (models.Auction, error) {
	a, err := scanAuction(r.DB.QueryRow(ctx, `SELECT `+auctionColumns+` FROM auctions WHERE id=$1`, auctionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Auction{}, fmt.Errorf("get auction %d: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return models.Auction{}, fmt.Errorf("get auction %d: %w", auctionID, err)
	}
	return a, nil
}

func (r *PostgresRepo) UpdateAuction(ctx context.Context, auction models.Auction) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE auctions
		SET description=$2, category=$3, image=$4, initial_price=$5, auction_end=$6, status=$7, is_deleted=$8,
		    winner_id=$9, winned_price=$10, delivered=$11, settled_at=$12
		WHERE id=$1`,
		auction.ID, auction.Description, auction.Category, auction.Image, auction.InitialPrice, auction.AuctionEnd,
		string(auction.Status), auction.IsDeleted, auction.WinnerID, nullablePrice(auction.WinningPrice),
		auction.Delivered, auction.SettledAt)
	if err != nil {
		return fmt.Errorf("update auction %d: %w", auction.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update auction %d: %w", auction.ID, auctionerrors.ErrAuctionNotFound)
	}
	return nil
}

func (r *PostgresRepo) ListAuctions(ctx context.Context, filter models.AuctionFilter) ([]models.Auction, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+auctionColumns+` FROM auctions
		WHERE NOT is_deleted
		  AND ($1 = '' OR description ILIKE '%' || $1 || '%')
		  AND ($2 = 0 OR owner_id = $2)
		  AND ($3 = 0 OR winner_id = $3)
		  AND (NOT $4 OR (winner_id IS NOT NULL AND winned_price IS NOT NULL))
		ORDER BY date_listed DESC, id DESC`,
		filter.Search, filter.OwnerID, filter.WinnerID, filter.OnlyWon)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	out, err := collectAuctions(rows)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) ListDueForSettlement(ctx context.Context, now time.Time) ([]models.Auction, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+auctionColumns+` FROM auctions
		WHERE settled_at IS NULL AND NOT is_deleted AND auction_end IS NOT NULL AND auction_end <= $1
		ORDER BY auction_end`, now)
	if err != nil {
		return nil, fmt.Errorf("list due auctions: %w", err)
	}
	out, err := collectAuctions(rows)
	if err != nil {
		return nil, fmt.Errorf("list due auctions: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) AppendBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO bids (auction_id, bidder_id, amount, created_at)
		SELECT $1, $2, $3, $4 WHERE EXISTS (SELECT 1 FROM auctions WHERE id=$1)
		RETURNING id`,
		bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt).Scan(&bid.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Bid{}, fmt.Errorf("append bid for auction %d: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("append bid for auction %d: %w", bid.AuctionID, err)
	}
	return bid, nil
}

func (r *PostgresRepo) BidsForAuction(ctx context.Context, auctionID int64) ([]models.Bid, error) {
	if _, err := r.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, auction_id, bidder_id, amount, created_at FROM bids
		WHERE auction_id=$1 ORDER BY created_at, id`, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get bids for auction %d: %w", auctionID, err)
	}
	defer rows.Close()

	out := make([]models.Bid, 0)
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("get bids for auction %d: %w", auctionID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) MaxBid(ctx context.Context, auctionID int64) (decimal.Decimal, bool, error) {
	var highest decimal.NullDecimal
	if err := r.DB.QueryRow(ctx, `SELECT MAX(amount) FROM bids WHERE auction_id=$1`, auctionID).Scan(&highest); err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("max bid for auction %d: %w", auctionID, err)
	}
	return highest.Decimal, highest.Valid, nil
}

func (r *PostgresRepo) MaxBidByUser(ctx context.Context, auctionID, userID int64) (decimal.Decimal, bool, error) {
	var highest decimal.NullDecimal
	err := r.DB.QueryRow(ctx, `SELECT MAX(amount) FROM bids WHERE auction_id=$1 AND bidder_id=$2`, auctionID, userID).Scan(&highest)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("max bid for auction %d by user %d: %w", auctionID, userID, err)
	}
	return highest.Decimal, highest.Valid, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		u    models.User
		role string
	)
	if err := row.Scan(&u.ID, &u.DisplayName, &u.AvatarURL, &u.Email, &role); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	return u, nil
}

func (r *PostgresRepo) FindUser(ctx context.Context, userID int64) (models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT id, display_name, avatar_url, email, role FROM users WHERE id=$1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, fmt.Errorf("find user %d: %w", userID, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user %d: %w", userID, err)
	}
	return u, nil
}

func (r *PostgresRepo) AddFollower(ctx context.Context, subscriberID, subscribedToID int64) error {
	tag, err := r.DB.Exec(ctx, `
		INSERT INTO subscriptions (subscriber_id, subscribed_to_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, subscriberID, subscribedToID)
	if err != nil {
		return fmt.Errorf("follow %d -> %d: %w", subscriberID, subscribedToID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("follow %d -> %d: %w", subscriberID, subscribedToID, auctionerrors.ErrAlreadySubscribed)
	}
	return nil
}

func (r *PostgresRepo) RemoveFollower(ctx context.Context, subscriberID, subscribedToID int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM subscriptions WHERE subscriber_id=$1 AND subscribed_to_id=$2`, subscriberID, subscribedToID)
	if err != nil {
		return fmt.Errorf("unfollow %d -> %d: %w", subscriberID, subscribedToID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unfollow %d -> %d: %w", subscriberID, subscribedToID, auctionerrors.ErrNotSubscribed)
	}
	return nil
}

func (r *PostgresRepo) FollowersOf(ctx context.Context, userID int64) ([]models.User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT u.id, u.display_name, u.avatar_url, u.email, u.role
		FROM subscriptions s JOIN users u ON u.id = s.subscriber_id
		WHERE s.subscribed_to_id=$1
		ORDER BY s.created_at, u.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("followers of %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("followers of %d: %w", userID, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) SaveNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	payload := string(n.Payload)
	if payload == "" {
		payload = "{}"
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO notifications (user_id, kind, payload, is_read, created_at)
		VALUES ($1, $2, $3::jsonb, $4, $5) RETURNING id`,
		n.UserID, string(n.Kind), payload, n.IsRead, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return models.Notification{}, fmt.Errorf("save notification for user %d: %w", n.UserID, err)
	}
	return n, nil
}

func (r *PostgresRepo) NotificationsFor(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, kind, payload::text, is_read, created_at FROM notifications
		WHERE user_id=$1 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("notifications for %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0)
	for rows.Next() {
		var (
			n             models.Notification
			kind, payload string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &payload, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("notifications for %d: %w", userID, err)
		}
		n.Kind = models.NotificationKind(kind)
		n.Payload = []byte(payload)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	tag, err := r.DB.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification %d for user %d: %w", notificationID, userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark notification %d for user %d: %w", notificationID, userID, auctionerrors.ErrNotificationNotFound)
	}
	return nil
}
