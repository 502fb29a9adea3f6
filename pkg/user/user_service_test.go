package user

import (
	"context"
	"testing"
	"time"

	"github.com/rohald89/Hungie/domain"
	"github.com/rohald89/Hungie/entities"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byID    map[string]*entities.User
	byEmail map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*entities.User),
		byEmail: make(map[string]*entities.User),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *entities.User) error {
	f.byID[user.ID.String()] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *entities.User) error {
	f.byID[user.ID.String()] = user
	f.byEmail[user.Email] = user
	return nil
}

type fakeJWTService struct {
	verifyEmail string
}

func (f *fakeJWTService) GenerateTokenUser(userId string, role string) string {
	return "token-" + userId
}

func (f *fakeJWTService) ValidateTokenUser(token string) (*jwtlib.Token, error) {
	return nil, nil
}

func (f *fakeJWTService) GetUserIDByToken(token string) (string, string, error) {
	return "", "", nil
}

func (f *fakeJWTService) GenerateTokenEmailVerification(data map[string]any, duration time.Duration) (string, error) {
	return "verify-token", nil
}

func (f *fakeJWTService) ValidateTokenEmailVerification(token string) (jwtlib.MapClaims, error) {
	if token != "verify-token" {
		return nil, domain.ErrTokenInvalid
	}
	return jwtlib.MapClaims{"email": f.verifyEmail}, nil
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewUserService(repo, &fakeJWTService{})

	req := domain.RegisterRequest{
		Username: "alex",
		Email:    "alex@example.com",
		Password: "super-secret",
	}

	res, err := service.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "alex", res.Username)
	assert.NotEmpty(t, res.ID)

	stored := repo.byEmail["alex@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "super-secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("super-secret")))

	_, err = service.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewUserService(repo, &fakeJWTService{})

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Username: "alex",
		Email:    "alex@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)

	res, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "alex@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "alex@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "super-secret",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyEmail(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewUserService(repo, &fakeJWTService{verifyEmail: "alex@example.com"})

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Username: "alex",
		Email:    "alex@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)
	assert.False(t, repo.byEmail["alex@example.com"].IsVerified)

	require.NoError(t, service.VerifyEmail(context.Background(), "verify-token"))
	assert.True(t, repo.byEmail["alex@example.com"].IsVerified)

	err = service.VerifyEmail(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
