package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/avocadev/blog-api/internal/dto"
	"github.com/avocadev/blog-api/internal/model"
	"github.com/avocadev/blog-api/pkg/auth"
)

// ErrInvalidCredentials 邮箱或密码错误
var ErrInvalidCredentials = errors.New("邮箱或密码错误")

// UserService 用户服务
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Login 登录并签发访问令牌
func (s *UserService) Login(ctx context.Context, req *dto.UserLoginRequest) (*dto.UserLoginResponse, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.UserID, user.UserName)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %v", err)
	}

	return &dto.UserLoginResponse{
		Token:    token,
		UserID:   user.UserID,
		UserName: user.UserName,
	}, nil
}

// CreateUser 创建用户，密码入库前做bcrypt散列
func (s *UserService) CreateUser(ctx context.Context, userID, userName, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码散列失败: %v", err)
	}
	user := &model.User{
		UserID:   userID,
		UserName: userName,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("创建用户失败: %v", err)
	}
	return nil
}
