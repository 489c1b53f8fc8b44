package account

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/notification"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/service/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBaseUsername(t *testing.T) {
	assert.Equal(t, "jane.doe", BaseUsername("Jane", "Doe"))
	assert.Equal(t, "maryanne.vanderberg", BaseUsername("Mary Anne", "Van der Berg"))
}

func TestUniqueUsername_Suffixes(t *testing.T) {
	store := fake.NewStore()
	p := NewProvisioner(store.Users(), store.PasswordResets(), &fake.Publisher{}, "http://localhost:3000")
	ctx := context.Background()

	var names []string
	for i := 0; i < 3; i++ {
		u, err := p.CreateAccount(ctx, "Jane", "Doe", "jane@example.com")
		require.NoError(t, err)
		names = append(names, u.Username)
	}

	assert.Equal(t, []string{"jane.doe", "jane.doe.2", "jane.doe.3"}, names)
}

func TestCreateAccount_HashesPassword(t *testing.T) {
	store := fake.NewStore()
	p := NewProvisioner(store.Users(), store.PasswordResets(), &fake.Publisher{}, "")

	u, err := p.CreateAccountWithPassword(context.Background(), "John", "Smith", "john@example.com", "s3cret!pass")
	require.NoError(t, err)

	assert.Equal(t, "john.smith", u.Username)
	assert.Equal(t, "john@example.com", u.Email)
	assert.Equal(t, "John", u.FirstName)
	assert.Equal(t, user.RoleEmployee, u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!pass")))
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(GeneratedPasswordLength, LettersDigitsPunct)
	require.NoError(t, err)
	assert.Len(t, pw, 12)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(LettersDigitsPunct, r))
	}

	pw, err = GeneratePassword(10, LettersDigits)
	require.NoError(t, err)
	assert.Len(t, pw, 10)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(LettersDigits, r))
	}
}

func TestUID_RoundTrip(t *testing.T) {
	assert.Equal(t, "Nw", EncodeUID(7))
	assert.Equal(t, "MTIz", EncodeUID(123))

	for _, id := range []int64{1, 7, 42, 123456} {
		got, err := DecodeUID(EncodeUID(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	got, err := DecodeUID("Nw==")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	for _, bad := range []string{"", "!!", EncodeUID(0), "YWJj"} {
		_, err := DecodeUID(bad)
		assert.Error(t, err, bad)
	}
}

func TestResetLink(t *testing.T) {
	link := ResetLink("http://localhost:3000/", 7, "tok-en")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", u.Host)
	assert.Equal(t, "/auth/reset-password/", u.Path)
	assert.Equal(t, "Nw", u.Query().Get("uid"))
	assert.Equal(t, "tok-en", u.Query().Get("token"))
}

func TestIssueResetLink_StoresToken(t *testing.T) {
	store := fake.NewStore()
	p := NewProvisioner(store.Users(), store.PasswordResets(), &fake.Publisher{}, "http://front.test")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	u, err := p.CreateAccount(context.Background(), "Jane", "Doe", "jane@example.com")
	require.NoError(t, err)

	payload, err := p.IssueResetLink(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, u.ID, payload.UserID)
	assert.Equal(t, "jane.doe", payload.Username)
	assert.Equal(t, "jane@example.com", payload.Email)
	assert.Equal(t, now.Add(72*time.Hour), payload.ExpiresAt)

	link, err := url.Parse(payload.ResetLink)
	require.NoError(t, err)
	tokens := store.ResetTokens(u.ID)
	require.Len(t, tokens, 1)
	assert.Equal(t, tokens[0], link.Query().Get("token"))
}

func TestEnqueue(t *testing.T) {
	pub := &fake.Publisher{}
	p := NewProvisioner(nil, nil, pub, "")

	p.Enqueue(context.Background(), notification.JobWelcome, notification.LinkEmail{UserID: 1, Email: "a@b.co"})

	msgs := pub.Published()
	require.Len(t, msgs, 1)
	assert.Equal(t, "send_welcome_with_reset_link", msgs[0].Type)
	payload, err := notification.DecodeLinkEmail(msgs[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", payload.Email)
}

func TestEnqueue_PublishErrorIsSwallowed(t *testing.T) {
	pub := &fake.Publisher{Err: errors.New("broker down")}
	p := NewProvisioner(nil, nil, pub, "")

	assert.NotPanics(t, func() {
		p.Enqueue(context.Background(), notification.JobWelcome, notification.LinkEmail{UserID: 1, Email: "a@b.co"})
	})
	assert.Empty(t, pub.Published())
}
