package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
)

type fakeUsers struct {
	byEmail       map[string]*models.User
	byID          map[int64]*models.User
	resets        map[string]*models.PasswordReset
	verifications map[string]*models.EmailVerification
	nextID        int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail:       make(map[string]*models.User),
		byID:          make(map[int64]*models.User),
		resets:        make(map[string]*models.PasswordReset),
		verifications: make(map[string]*models.EmailVerification),
		nextID:        1,
	}
}

func (f *fakeUsers) Create(ctx context.Context, u models.User) (int64, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return 0, models.ErrEmailTaken
	}
	u.ID = f.nextID
	f.nextID++
	f.byEmail[u.Email] = &u
	f.byID[u.ID] = &u
	return u.ID, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	u, ok := f.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Password = hashed
	return nil
}

func (f *fakeUsers) MarkEmailVerified(ctx context.Context, id int64) error {
	u, ok := f.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	u.EmailVerified = true
	return nil
}

func (f *fakeUsers) CreatePasswordReset(ctx context.Context, reset models.PasswordReset) error {
	f.resets[reset.Token] = &reset
	return nil
}

func (f *fakeUsers) GetPasswordReset(ctx context.Context, token string) (*models.PasswordReset, error) {
	r, ok := f.resets[token]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeUsers) MarkPasswordResetUsed(ctx context.Context, token string) error {
	r, ok := f.resets[token]
	if !ok {
		return models.ErrNotFound
	}
	now := time.Now().UTC()
	r.UsedAt = &now
	return nil
}

func (f *fakeUsers) CreateEmailVerification(ctx context.Context, v models.EmailVerification) error {
	f.verifications[v.Token] = &v
	return nil
}

func (f *fakeUsers) GetEmailVerification(ctx context.Context, token string) (*models.EmailVerification, error) {
	v, ok := f.verifications[token]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeUsers) DeleteEmailVerification(ctx context.Context, token string) error {
	delete(f.verifications, token)
	return nil
}

func newTestService(users *fakeUsers) *Service {
	return NewService(users, "test-secret", logger.New("test"))
}

func TestSignupIssuesValidJWT(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)

	user, token, err := svc.Signup(context.Background(), SignupRequest{
		Email:     "Dana@Example.com",
		Password:  "correct horse",
		FirstName: "Dana",
		LastName:  "Reyes",
	})
	require.NoError(t, err)
	require.Equal(t, "dana@example.com", user.Email)
	require.Empty(t, user.Password)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, "dana@example.com", claims["email"])
	require.EqualValues(t, user.ID, claims["user_id"])
}

func TestSignupRejectsBadInput(t *testing.T) {
	svc := newTestService(newFakeUsers())

	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "not-an-email", Password: "longenough"})
	require.ErrorIs(t, err, models.ErrValidation)

	_, _, err = svc.Signup(context.Background(), SignupRequest{Email: "dana@example.com", Password: "short"})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)

	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "dana@example.com", Password: "correct horse"})
	require.NoError(t, err)
	_, _, err = svc.Signup(context.Background(), SignupRequest{Email: "dana@example.com", Password: "correct horse"})
	require.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestLoginCollapsesUnknownEmailAndWrongPassword(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)

	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "dana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "whatever1")
	require.ErrorIs(t, err, models.ErrInvalidCredential)

	_, _, err = svc.Login(context.Background(), "dana@example.com", "wrong password")
	require.ErrorIs(t, err, models.ErrInvalidCredential)

	user, token, err := svc.Login(context.Background(), "dana@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Empty(t, user.Password)
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)

	user, _, err := svc.Signup(context.Background(), SignupRequest{Email: "dana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	var token string
	for tok := range users.verifications {
		token = tok
	}
	require.NotEmpty(t, token)

	require.NoError(t, svc.VerifyEmail(context.Background(), token))
	require.True(t, users.byID[user.ID].EmailVerified)

	// Second use fails: the token is gone.
	require.ErrorIs(t, svc.VerifyEmail(context.Background(), token), models.ErrTokenExpired)
}

func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)

	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "dana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "dana@example.com"))
	var token string
	for tok := range users.resets {
		token = tok
	}
	require.NotEmpty(t, token)

	require.NoError(t, svc.CompletePasswordReset(context.Background(), token, "new password 9"))
	u := users.byEmail["dana@example.com"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("new password 9")))

	// The token is single-use.
	require.ErrorIs(t, svc.CompletePasswordReset(context.Background(), token, "another pass 9"), models.ErrTokenExpired)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc := newTestService(newFakeUsers())
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
}

func TestExpiredResetTokenRejected(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)

	user, _, err := svc.Signup(context.Background(), SignupRequest{Email: "dana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	users.resets["stale"] = &models.PasswordReset{
		Token:     "stale",
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	require.ErrorIs(t, svc.CompletePasswordReset(context.Background(), "stale", "new password 9"), models.ErrTokenExpired)
}
