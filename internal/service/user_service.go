package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/pkg/redis"
	"Glycora/internal/pkg/security"
	"Glycora/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// UserService 用户与患者档案服务接口定义
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterReq) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginRes, error)
	// Logout 将当前 token 的签名拉黑至其过期
	Logout(ctx context.Context, token string) error
	GetByID(ctx context.Context, userID uint64) (*dto.UserDTO, error)
	// ListContacts 可发起会话的对象：患者看医生，医生看患者
	ListContacts(ctx context.Context, userID uint64) ([]*dto.UserDTO, error)
	GetProfile(ctx context.Context, userID uint64) (*model.PatientProfile, error)
	UpdateProfile(ctx context.Context, userID uint64, req *dto.ProfileUpdateReq) (*model.PatientProfile, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterReq) (*dto.UserDTO, error) {
	_, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err == nil {
		return nil, ErrUserExist
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    req.Username,
		Password:    hashed,
		Role:        req.Role,
		DisplayName: req.DisplayName,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "User registered", "userID", user.ID, "role", user.Role)
	return toUserDTO(user), nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginRes, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.IsBan {
		return nil, ErrUserBan
	}
	if err := security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginRes{
		Token: token,
		User:  toUserDTO(user),
	}, nil
}

func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrParamInvalid
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, "1", security.JWTExpirationTime)
}

func (s *userServiceImpl) GetByID(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user), nil
}

func (s *userServiceImpl) ListContacts(ctx context.Context, userID uint64) ([]*dto.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var targetRole string
	switch user.Role {
	case model.RolePatient:
		targetRole = model.RoleClinician
	case model.RoleClinician:
		targetRole = model.RolePatient
	default:
		return []*dto.UserDTO{}, nil
	}

	users, err := s.userRepo.ListByRole(ctx, targetRole)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		res = append(res, toUserDTO(u))
	}
	return res, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID uint64) (*model.PatientProfile, error) {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 患者档案按需建档，无档案时返回默认目标范围
			return &model.PatientProfile{UserID: userID, TargetRangeLow: 70, TargetRangeHigh: 180}, nil
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile 档案字段整体覆盖式更新，不存在则建档
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uint64, req *dto.ProfileUpdateReq) (*model.PatientProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.Role != model.RolePatient {
		return nil, UnauthorizedError
	}
	if req.TargetRangeLow != nil && req.TargetRangeHigh != nil && *req.TargetRangeLow >= *req.TargetRangeHigh {
		return nil, ErrParamInvalid
	}
	if req.AssignedDoctorID != nil {
		doctor, err := s.userRepo.GetByID(ctx, *req.AssignedDoctorID)
		if err != nil || doctor.Role != model.RoleClinician {
			return nil, ErrTargetUserInvalid
		}
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := copier.CopyWithOption(profile, req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, err
	}
	if req.TargetRangeLow != nil {
		profile.TargetRangeLow = *req.TargetRangeLow
	}
	if req.TargetRangeHigh != nil {
		profile.TargetRangeHigh = *req.TargetRangeHigh
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func toUserDTO(user *model.User) *dto.UserDTO {
	res := &dto.UserDTO{}
	if err := copier.Copy(res, user); err != nil {
		log.Warn("Failed to copy user fields", "err", err)
	}
	return res
}
