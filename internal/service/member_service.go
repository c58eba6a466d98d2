package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
	"github.com/iliyamo/room-escape-reservation/internal/utils"
)

// SignUp carries the attributes of a new member.
type SignUp struct {
	Name     string
	Email    string
	Password string
}

// MemberService registers and authenticates members.
type MemberService struct {
	members    MemberStore
	bcryptCost int
	log        *zap.Logger
}

func NewMemberService(members MemberStore, bcryptCost int, log *zap.Logger) *MemberService {
	return &MemberService{members: members, bcryptCost: bcryptCost, log: log.Named("member")}
}

// SignUp creates a USER member.  A registered email yields Conflict.
func (s *MemberService) SignUp(ctx context.Context, in SignUp) (model.Member, error) {
	return s.create(ctx, in, model.RoleUser)
}

func (s *MemberService) create(ctx context.Context, in SignUp, role model.Role) (model.Member, error) {
	if strings.TrimSpace(in.Password) == "" {
		return model.Member{}, errs.Validation("invalid member",
			errs.FieldError{Field: "password", Message: "must not be empty"})
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.Member{}, errs.Internal("hash password", err)
	}
	m, err := model.NewMember(in.Name, in.Email, hash, role)
	if err != nil {
		return model.Member{}, err
	}

	created, err := s.members.Create(ctx, m)
	if errors.Is(err, repository.ErrDuplicate) {
		return model.Member{}, errs.Conflict("email is already registered")
	}
	if err != nil {
		return model.Member{}, errs.Internal("storage failure", err)
	}
	s.log.Info("member registered", zap.Uint64("member_id", created.ID), zap.String("role", string(role)))
	return created, nil
}

// Authenticate checks an email/password pair.  Unknown emails and wrong
// passwords both yield the same Unauthorized error.
func (s *MemberService) Authenticate(ctx context.Context, email, password string) (model.Member, error) {
	m, err := s.members.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Member{}, errs.Unauthorized("invalid email or password")
	}
	if err != nil {
		return model.Member{}, errs.Internal("storage failure", err)
	}
	if !utils.VerifyPassword(m.PasswordHash, password) {
		return model.Member{}, errs.Unauthorized("invalid email or password")
	}
	return m, nil
}

func (s *MemberService) Get(ctx context.Context, id uint64) (model.Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return model.Member{}, storeErr(err, "member not found")
	}
	return m, nil
}

func (s *MemberService) List(ctx context.Context) ([]model.Member, error) {
	list, err := s.members.List(ctx)
	if err != nil {
		return nil, errs.Internal("storage failure", err)
	}
	return list, nil
}

// EnsureAdmin creates an ADMIN member with the given credentials unless
// the email is already registered.  An empty email is a no-op.
func (s *MemberService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	existing, err := s.members.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			s.log.Warn("bootstrap admin email belongs to a non-admin member", zap.Uint64("member_id", existing.ID))
		}
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return errs.Internal("storage failure", err)
	}
	if name == "" {
		name = "admin"
	}
	_, err = s.create(ctx, SignUp{Name: name, Email: email, Password: password}, model.RoleAdmin)
	if errs.KindOf(err) == errs.KindConflict {
		return nil
	}
	return err
}
