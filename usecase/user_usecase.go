package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/model"
	"douyin-manager/domain/repository"
	"douyin-manager/infrastructure/configuration"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/infrastructure/utils"
)

type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.ResLogin
	Register(ctx context.Context, req model.ReqRegister) dto.Res
	Me(ctx context.Context, userID int64) (model.User, error)
}

type userUsecase struct {
	userRepository repository.IUser
}

func NewUserUsecase(userRepository repository.IUser) IUserUsecase {
	return &userUsecase{userRepository: userRepository}
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) dto.ResLogin {
	var res dto.ResLogin
	user, err := u.userRepository.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("user_name", req.UserName).Info("Login attempt for unknown user")
		res.ResponseCode = "401"
		res.ResponseMessage = "Invalid username or password"
		return res
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		res.ResponseCode = "401"
		res.ResponseMessage = "Invalid username or password"
		return res
	}

	expiry := time.Duration(configuration.C.App.TokenExpiryMinute) * time.Minute
	payload := map[string]interface{}{
		"user_name": user.UserName,
		"exp":       utils.GetCurrentTime().Add(expiry).Unix(),
	}
	token, err := utils.GenerateToken(payload, configuration.C.App.SecretKey)
	if err != nil {
		res.ResponseCode = "500"
		res.ResponseMessage = "Error while generating token"
		return res
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	res.AccessToken = token
	res.TokenType = "Bearer"
	return res
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	var res dto.Res

	if existing, err := u.userRepository.GetByUserName(ctx, req.UserName); err == nil && existing.ID != 0 {
		res.ResponseCode = "409"
		res.ResponseMessage = "Username already registered"
		return res
	}
	if existing, err := u.userRepository.GetByEmail(ctx, req.Email); err == nil && existing.ID != 0 {
		res.ResponseCode = "409"
		res.ResponseMessage = "Email already registered"
		return res
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while hashing password")
		res.ResponseCode = "500"
		res.ResponseMessage = "Error while hashing password"
		return res
	}

	user := model.User{
		Name:     req.Name,
		UserName: req.UserName,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := u.userRepository.CreateUser(ctx, user); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating user")
		res.ResponseCode = "500"
		res.ResponseMessage = "Error while creating user"
		return res
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	return res
}

func (u *userUsecase) Me(ctx context.Context, userID int64) (model.User, error) {
	return u.userRepository.GetById(ctx, userID)
}
