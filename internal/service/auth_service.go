package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/jwt"
	"github.com/qs3c/gym_go_server/internal/pkg/otp"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidOTP         = errors.New("OTP 无效或已过期")
)

// OTPSender 找回密码时负责投递 OTP
type OTPSender interface {
	SendResetOTP(to, name, code string, expireMinutes int) error
}

type AuthService struct {
	userRepo  *repository.UserRepository
	adminRepo *repository.AdminRepository
	otpStore  *otp.Store
	otpSender OTPSender
	cfg       *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	adminRepo *repository.AdminRepository,
	otpStore *otp.Store,
	otpSender OTPSender,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		otpStore:  otpStore,
		otpSender: otpSender,
		cfg:       cfg,
	}
}

// Login 统一登录：先查管理员表，再查会员表，角色写入 Token
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(req.Email)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
			return nil, ErrInvalidCredentials
		}

		token, err := jwt.GenerateToken(admin.ID, jwt.RoleAdmin, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
		if err != nil {
			return nil, err
		}

		return &dto.LoginResponse{
			Token: token,
			Role:  jwt.RoleAdmin,
			User: &dto.UserInfo{
				ID:       admin.ID,
				Username: admin.Username,
				Email:    admin.Email,
				Role:     jwt.RoleAdmin,
			},
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, jwt.RoleUser, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		Role:  jwt.RoleUser,
		User:  buildUserInfo(user),
	}, nil
}

// Register 会员自助注册，注册即发 Token
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if !exists {
		// 管理员邮箱同样不可注册为会员
		exists, err = s.adminRepo.ExistsByEmail(req.Email)
		if err != nil {
			return nil, err
		}
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        normalizePhone(req.Phone),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, jwt.RoleUser, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		Role:  jwt.RoleUser,
		User:  buildUserInfo(user),
	}, nil
}

// ForgotPassword 生成 OTP 写入带 TTL 的存储并发邮件。
// 邮箱不存在时同样返回成功，不泄露注册状态
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}
	if err := s.otpStore.Set(ctx, email, code); err != nil {
		return err
	}

	return s.otpSender.SendResetOTP(email, user.Name, code, s.cfg.Notification.OTPExpireMinutes)
}

// ResetPassword 校验 OTP（验证即销毁）并更新密码
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := s.otpStore.Verify(ctx, req.Email, req.OTP); err != nil {
		if errors.Is(err, otp.ErrNotFound) || errors.Is(err, otp.ErrMismatch) {
			return ErrInvalidOTP
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePasswordByEmail(req.Email, string(hash))
}

// normalizePhone 手机号归一化，无国家码默认 +91
func normalizePhone(phone string) *string {
	if phone == "" {
		return nil
	}
	if !strings.HasPrefix(phone, "+") {
		phone = "+91" + strings.TrimLeft(phone, "0")
	}
	return &phone
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      jwt.RoleUser,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.Phone != nil {
		info.Phone = *user.Phone
	}
	return info
}
