package usecase

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"douyin-manager/domain/model"
)

type fakeUserRepo struct {
	byUserName map[string]model.User
	byEmail    map[string]model.User
	created    []model.User
}

func (f *fakeUserRepo) GetById(ctx context.Context, id int64) (model.User, error) {
	for _, u := range f.byUserName {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	if u, ok := f.byUserName[userName]; ok {
		return u, nil
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user model.User) error {
	f.created = append(f.created, user)
	return nil
}

func TestLogin_Success(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{byUserName: map[string]model.User{
		"wanglei": {ID: 1, UserName: "wanglei", Password: string(hashed)},
	}}
	uc := NewUserUsecase(repo)

	res := uc.Login(context.Background(), model.ReqLogin{UserName: "wanglei", Password: "s3cret"})
	assert.Equal(t, "200", res.ResponseCode)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	repo := &fakeUserRepo{byUserName: map[string]model.User{
		"wanglei": {ID: 1, UserName: "wanglei", Password: string(hashed)},
	}}
	uc := NewUserUsecase(repo)

	res := uc.Login(context.Background(), model.ReqLogin{UserName: "wanglei", Password: "wrong"})
	assert.Equal(t, "401", res.ResponseCode)
	assert.Empty(t, res.AccessToken)
}

func TestLogin_UnknownUser(t *testing.T) {
	uc := NewUserUsecase(&fakeUserRepo{})
	res := uc.Login(context.Background(), model.ReqLogin{UserName: "ghost", Password: "whatever"})
	assert.Equal(t, "401", res.ResponseCode)
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := NewUserUsecase(repo)

	res := uc.Register(context.Background(), model.ReqRegister{
		Name:     "Wang Lei",
		UserName: "wanglei",
		Email:    "wanglei@example.com",
		Password: "s3cret",
	})
	assert.Equal(t, "200", res.ResponseCode)
	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "s3cret", repo.created[0].Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created[0].Password), []byte("s3cret")))
}

func TestRegister_DuplicateUserName(t *testing.T) {
	repo := &fakeUserRepo{byUserName: map[string]model.User{
		"wanglei": {ID: 1, UserName: "wanglei"},
	}}
	uc := NewUserUsecase(repo)

	res := uc.Register(context.Background(), model.ReqRegister{
		UserName: "wanglei",
		Email:    "other@example.com",
		Password: "s3cret",
	})
	assert.Equal(t, "409", res.ResponseCode)
	assert.Empty(t, repo.created)
}
