// Package account provisions login accounts for employees and issues the
// set-password links mailed to them.
package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/notification"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/queue"
	"golang.org/x/crypto/bcrypt"
)

const (
	ResetTokenTTL = 72 * time.Hour

	GeneratedPasswordLength = 12

	LettersDigits      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	LettersDigitsPunct = LettersDigits + "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	resetPath = "/auth/reset-password/"
)

type Provisioner struct {
	users       user.UserRepository
	resets      auth.PasswordResetRepository
	publisher   queue.Publisher
	frontendURL string
	now         func() time.Time
}

func NewProvisioner(users user.UserRepository, resets auth.PasswordResetRepository, publisher queue.Publisher, frontendURL string) *Provisioner {
	return &Provisioner{
		users:       users,
		resets:      resets,
		publisher:   publisher,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// CreateAccount inserts a user for a new employee with a random password
// nobody is told. Run it in the employee's transaction.
func (p *Provisioner) CreateAccount(ctx context.Context, firstName, lastName, email string) (user.User, error) {
	password, err := GeneratePassword(GeneratedPasswordLength, LettersDigitsPunct)
	if err != nil {
		return user.User{}, err
	}
	return p.CreateAccountWithPassword(ctx, firstName, lastName, email, password)
}

func (p *Provisioner) CreateAccountWithPassword(ctx context.Context, firstName, lastName, email, password string) (user.User, error) {
	username, err := p.UniqueUsername(ctx, firstName, lastName)
	if err != nil {
		return user.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash generated password: %w", err)
	}

	created, err := p.users.Create(ctx, user.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         user.RoleEmployee,
		IsActive:     true,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("create user %s: %w", username, err)
	}
	return created, nil
}

// UniqueUsername returns first.last, or first.last.N for the lowest free N >= 2.
func (p *Provisioner) UniqueUsername(ctx context.Context, firstName, lastName string) (string, error) {
	base := BaseUsername(firstName, lastName)
	username := base
	for counter := 2; ; counter++ {
		taken, err := p.users.UsernameExists(ctx, username)
		if err != nil {
			return "", fmt.Errorf("check username %s: %w", username, err)
		}
		if !taken {
			return username, nil
		}
		username = base + "." + strconv.Itoa(counter)
	}
}

func BaseUsername(firstName, lastName string) string {
	return strings.ReplaceAll(strings.ToLower(firstName)+"."+strings.ToLower(lastName), " ", "")
}

// IssueResetLink stores a fresh single-use token for u and returns the
// email payload pointing at the frontend reset page.
func (p *Provisioner) IssueResetLink(ctx context.Context, u user.User) (notification.LinkEmail, error) {
	token, err := newToken()
	if err != nil {
		return notification.LinkEmail{}, err
	}
	expiresAt := p.now().Add(ResetTokenTTL)

	if err := p.resets.Create(ctx, u.ID, token, expiresAt); err != nil {
		return notification.LinkEmail{}, fmt.Errorf("store reset token: %w", err)
	}

	return notification.LinkEmail{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		ResetLink: ResetLink(p.frontendURL, u.ID, token),
		ExpiresAt: expiresAt,
	}, nil
}

// Enqueue publishes a link email job. The caller's write has already
// committed, so failures are only logged.
func (p *Provisioner) Enqueue(ctx context.Context, jobType string, payload notification.LinkEmail) {
	msg, err := queue.NewMessage(jobType, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build email job", "type", jobType, "user_id", payload.UserID, "error", err)
		return
	}
	if err := p.publisher.Publish(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue email job", "type", jobType, "user_id", payload.UserID, "error", err)
		return
	}
	slog.InfoContext(ctx, "email job enqueued", "type", jobType, "job_id", msg.ID, "user_id", payload.UserID)
}

func ResetLink(frontendURL string, userID int64, token string) string {
	q := url.Values{}
	q.Set("uid", EncodeUID(userID))
	q.Set("token", token)
	return strings.TrimRight(frontendURL, "/") + resetPath + "?" + q.Encode()
}

// EncodeUID is the unpadded base64url form of the decimal user id.
func EncodeUID(userID int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(userID, 10)))
}

func DecodeUID(uid string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid uid %q", uid)
	}
	return id, nil
}

// GeneratePassword draws length characters from alphabet with crypto/rand.
func GeneratePassword(length int, alphabet string) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
