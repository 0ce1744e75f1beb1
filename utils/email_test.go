package utils

import (
	"context"
	"errors"
	"testing"

	"cosmetics-storefront/models"

	"github.com/keighl/postmark"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []postmark.Email
	err  error
}

func (f *fakeMailer) SendEmail(email postmark.Email) (postmark.EmailResponse, error) {
	if f.err != nil {
		return postmark.EmailResponse{}, f.err
	}
	f.sent = append(f.sent, email)
	return postmark.EmailResponse{}, nil
}

func TestOrderPlacedSendsConfirmation(t *testing.T) {
	m := &fakeMailer{}
	es := newEmailServiceWith(m, "shop@example.com", "http://localhost:8000")

	err := es.OrderPlaced(context.Background(), models.Order{
		ID:            "a1",
		CustomerName:  "Ivan <b>",
		CustomerEmail: "ivan@example.com",
		Items: []models.OrderItem{
			{Name: "Fiber Cream", Price: decimal.RequireFromString("45.90"), Quantity: 2},
		},
		Discount: decimal.NewFromInt(5),
		Total:    decimal.RequireFromString("129.30"),
	})
	require.NoError(t, err)
	require.Len(t, m.sent, 1)

	email := m.sent[0]
	assert.Equal(t, "shop@example.com", email.From)
	assert.Equal(t, "ivan@example.com", email.To)
	assert.Contains(t, email.HtmlBody, "Fiber Cream x 2: 91.80")
	assert.Contains(t, email.HtmlBody, "Loyalty discount: -5.00")
	assert.Contains(t, email.HtmlBody, "129.30")
	assert.Contains(t, email.HtmlBody, "Ivan &lt;b&gt;")
}

func TestOrderPlacedWithoutEmail(t *testing.T) {
	m := &fakeMailer{}
	es := newEmailServiceWith(m, "shop@example.com", "")

	require.NoError(t, es.OrderPlaced(context.Background(), models.Order{ID: "a1"}))
	assert.Empty(t, m.sent)
}

func TestSendEmailWrapsErrors(t *testing.T) {
	boom := errors.New("422 inactive recipient")
	es := newEmailServiceWith(&fakeMailer{err: boom}, "shop@example.com", "")

	err := es.SendVerificationEmail("x@example.com", "tok")
	assert.ErrorIs(t, err, boom)
}

func TestDisabledMailerLogsOnly(t *testing.T) {
	es := NewEmailService("", "shop@example.com", "")
	assert.NoError(t, es.SendEmail("x@example.com", "hi", "body"))
}

func TestVerificationLink(t *testing.T) {
	m := &fakeMailer{}
	es := newEmailServiceWith(m, "shop@example.com", "https://shop.example.com")

	require.NoError(t, es.SendVerificationEmail("x@example.com", "tok"))
	assert.Contains(t, m.sent[0].HtmlBody, "https://shop.example.com/verify?token=tok")
}

func TestJWTRoundTrip(t *testing.T) {
	JwtKey = []byte("test-secret")

	tok, err := GenerateJWT("u1", "a@example.com", "admin")
	require.NoError(t, err)

	claims, err := ParseJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = ParseJWT(tok + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
