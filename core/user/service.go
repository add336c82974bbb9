package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSignupRole         = errors.New("only parents and teachers can sign up")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	// Repository is the users table. CreateUser returns ErrEmailExists when the store rejects a duplicate email.
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		SetUserPassword(ctx context.Context, id int, hash []byte) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Create validates nu and inserts a User with any role.
// There is no uniqueness pre-check: a duplicate email is reported by the store.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}

	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: core.Now(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

// Signup creates a parent or teacher account.
func (svc *Service) Signup(ctx context.Context, nu NewUser) (User, error) {
	if role := Role(core.CleanString(string(nu.Role), true /* lower */)); role.IsValid() && !role.CanSignup() {
		return User{}, core.NewValidationError(ErrSignupRole, core.FieldError{Field: "role", Error: ErrSignupRole.Error()})
	}
	return svc.Create(ctx, nu)
}

// Login checks the credentials. ok is false for both an unknown email and a wrong password;
// err is only set when the store fails.
func (svc *Service) Login(ctx context.Context, email, pwd string) (usr User, ok bool, err error) {
	usr, err = svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, false, nil
		}
		return User{}, false, errors.Wrap(err, "finding user by email")
	}
	if !VerifyPassword(usr.PasswordHash, pwd) {
		return User{}, false, nil
	}
	return usr, true, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

// ResetPassword sets a new password on the User identified by rp.Email.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	if err := rp.Validate(svc.validate); err != nil {
		return err
	}
	usr, err := svc.GetByEmail(ctx, rp.Email)
	if err != nil {
		return errors.Wrap(err, "finding user by email")
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.SetUserPassword(ctx, usr.ID, usr.PasswordHash)
}
