package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"cosmetics-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrAccountNotFound    = errors.New("loyalty account not found")
	ErrAlreadySettled     = errors.New("order already settled")
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
)

// SettledOrdersKept bounds the settled order ids remembered per user.
// A replay of an order older than the last SettledOrdersKept
// settlements is no longer recognized.
const SettledOrdersKept = 200

// Settlement is the loyalty movement of one order
type Settlement struct {
	UserID  string
	OrderID string
	Debit   int64 // points redeemed
	Credit  int64 // points earned
}

// LoyaltyLedger keeps loyalty balances on the user documents
type LoyaltyLedger struct {
	users *mongo.Collection
}

func NewLoyaltyLedger(db *mongo.Database) *LoyaltyLedger {
	return &LoyaltyLedger{users: db.Collection(UsersCollection)}
}

// Balance returns the current point balance of a user
func (l *LoyaltyLedger) Balance(ctx context.Context, userID string) (int64, error) {
	user, err := l.find(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.LoyaltyPoints, nil
}

// Settle applies a settlement in a single document update. The update
// only matches when the order has not been settled yet and the balance
// covers the debit, so concurrent checkouts cannot lose an update and
// an order is never settled twice. It returns the new balance.
func (l *LoyaltyLedger) Settle(ctx context.Context, s Settlement) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(s.UserID)
	if err != nil {
		return 0, fmt.Errorf("user %s: %w", s.UserID, ErrAccountNotFound)
	}

	filter := bson.M{
		"_id":            oid,
		"settled_orders": bson.M{"$ne": s.OrderID},
		"loyalty_points": bson.M{"$gte": s.Debit},
	}
	update := bson.M{
		"$inc":  bson.M{"loyalty_points": s.Credit - s.Debit},
		"$push": bson.M{"settled_orders": bson.M{
			"$each":  bson.A{s.OrderID},
			"$slice": -SettledOrdersKept,
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err = l.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err == nil {
		return user.LoyaltyPoints, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("settle order %s: %w", s.OrderID, err)
	}

	// Nothing matched: find out which guard failed.
	current, err := l.find(ctx, s.UserID)
	if err != nil {
		return 0, err
	}
	if slices.Contains(current.SettledOrders, s.OrderID) {
		return current.LoyaltyPoints, ErrAlreadySettled
	}
	return current.LoyaltyPoints, fmt.Errorf("settle order %s: balance %d, debit %d: %w",
		s.OrderID, current.LoyaltyPoints, s.Debit, ErrInsufficientPoints)
}

func (l *LoyaltyLedger) find(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrAccountNotFound)
	}
	var user models.User
	err = l.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return &user, nil
}
