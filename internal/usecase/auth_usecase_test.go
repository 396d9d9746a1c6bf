package usecase_test

import (
	"context"
	"strings"
	"testing"

	"canteen/internal/config"
	"canteen/internal/domain/model"
	repo "canteen/internal/repository"
	"canteen/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

func (m *UserRepoMock) UpdateLastLoginAt(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testCfg() config.Config {
	return config.Config{Port: "8080", JWTSecret: "test-secret", GoEnv: "test"}
}

// Test: 登録成功。保存されるパスワードは平文ではない。
func TestAuthUsecase_Register_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{}, repo.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "taro@example.com" &&
			u.PasswordHash != "password123" &&
			u.Role == model.RoleCustomer &&
			!u.IsGuest
	})).Return(model.User{ID: 7, Email: "taro@example.com", Role: model.RoleCustomer, IsActive: true}, nil)

	out, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "taro@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.User.ID)

	users.AssertExpectations(t)
}

// Test: 短いパスワードは400
func TestAuthUsecase_Register_ShortPassword(t *testing.T) {
	uc := usecase.NewAuthUsecase(testCfg(), new(UserRepoMock))

	_, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "taro@example.com",
		Password: "short",
	})
	assertErrContains(t, err, "password too short")
}

// Test: email重複は409
func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{ID: 7}, nil)

	_, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "taro@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "email already exists")

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: ログイン成功でトークンが返り、last_loginが更新される
func TestAuthUsecase_Login_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{
		ID:           7,
		Email:        "taro@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}, nil)
	users.On("UpdateLastLoginAt", mock.Anything, int64(7)).Return(nil)

	out, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "taro@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token.AccessToken)
	assert.Equal(t, int64(7), out.User.ID)

	users.AssertCalled(t, "UpdateLastLoginAt", mock.Anything, int64(7))
}

// Test: パスワード不一致は401
func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{
		ID:           7,
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "taro@example.com",
		Password: "wrong-password",
	})
	assertErrContains(t, err, "invalid credentials")

	users.AssertNotCalled(t, "UpdateLastLoginAt", mock.Anything, mock.Anything)
}

// Test: 未登録emailも同じ401（ユーザーの存在を漏らさない）
func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users)

	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "invalid credentials")
}

// Test: ゲストセッションは一意なemailのCUSTOMERが作られ、即トークンが返る
func TestAuthUsecase_GuestSession(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return strings.HasPrefix(u.Email, "guest-") &&
			strings.HasSuffix(u.Email, "@guest.canteen.local") &&
			u.IsGuest &&
			u.Role == model.RoleCustomer
	})).Return(model.User{ID: 8, Email: "guest-x@guest.canteen.local", Role: model.RoleCustomer, IsGuest: true, IsActive: true}, nil)

	out, err := uc.GuestSession(context.Background())
	assert.NoError(t, err)
	assert.True(t, out.User.IsGuest)
	assert.NotEmpty(t, out.Token.AccessToken)

	users.AssertExpectations(t)
}
