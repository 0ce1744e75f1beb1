package store

import (
	"context"
	"os"
	"sync"
	"testing"

	"cosmetics-storefront/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
)

// LedgerTestSuite runs against a live MongoDB only when MONGO_URI is set.
type LedgerTestSuite struct {
	suite.Suite
	client *mongo.Client
	db     *mongo.Database
	ledger *LoyaltyLedger
	store  *RecordStore
}

func TestLedgerTestSuite(t *testing.T) {
	if os.Getenv("MONGO_URI") == "" {
		t.Skip("MONGO_URI not set")
	}
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupSuite() {
	client, err := ConnectDB(context.Background(), os.Getenv("MONGO_URI"))
	s.Require().NoError(err)
	s.client = client
	s.db = client.Database("storefront_test_" + uuid.NewString()[:8])
	s.ledger = NewLoyaltyLedger(s.db)
	s.store = NewRecordStore(s.db)
}

func (s *LedgerTestSuite) TearDownSuite() {
	ctx := context.Background()
	s.NoError(s.db.Drop(ctx))
	s.NoError(s.client.Disconnect(ctx))
}

func (s *LedgerTestSuite) newUser(points int64) string {
	id, err := s.store.Create(context.Background(), UsersCollection, models.User{
		Email:         uuid.NewString() + "@example.com",
		LoyaltyPoints: points,
	})
	s.Require().NoError(err)
	return id
}

func (s *LedgerTestSuite) TestSettle() {
	ctx := context.Background()
	userID := s.newUser(1000)

	balance, err := s.ledger.Settle(ctx, Settlement{UserID: userID, OrderID: "o1", Debit: 600, Credit: 45})
	s.Require().NoError(err)
	s.Equal(int64(445), balance)

	got, err := s.ledger.Balance(ctx, userID)
	s.Require().NoError(err)
	s.Equal(int64(445), got)
}

func (s *LedgerTestSuite) TestSettleTwiceIsRejected() {
	ctx := context.Background()
	userID := s.newUser(200)

	_, err := s.ledger.Settle(ctx, Settlement{UserID: userID, OrderID: "o1", Debit: 100, Credit: 124})
	s.Require().NoError(err)

	balance, err := s.ledger.Settle(ctx, Settlement{UserID: userID, OrderID: "o1", Debit: 100, Credit: 124})
	s.ErrorIs(err, ErrAlreadySettled)
	s.Equal(int64(224), balance)
}

func (s *LedgerTestSuite) TestSettleNeverGoesNegative() {
	ctx := context.Background()
	userID := s.newUser(10)

	_, err := s.ledger.Settle(ctx, Settlement{UserID: userID, OrderID: "o1", Debit: 20, Credit: 5})
	s.ErrorIs(err, ErrInsufficientPoints)

	balance, err := s.ledger.Balance(ctx, userID)
	s.Require().NoError(err)
	s.Equal(int64(10), balance)
}

func (s *LedgerTestSuite) TestConcurrentSettlementsDoNotLoseUpdates() {
	ctx := context.Background()
	userID := s.newUser(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(orderID string) {
			defer wg.Done()
			_, err := s.ledger.Settle(ctx, Settlement{UserID: userID, OrderID: orderID, Debit: 20, Credit: 7})
			s.NoError(err)
		}(uuid.NewString())
	}
	wg.Wait()

	balance, err := s.ledger.Balance(ctx, userID)
	s.Require().NoError(err)
	s.Equal(int64(1000-10*20+10*7), balance)
}

func (s *LedgerTestSuite) TestUnknownAccount() {
	_, err := s.ledger.Balance(context.Background(), "not-an-id")
	s.ErrorIs(err, ErrAccountNotFound)
}
