package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rmedina-dev/entrega-api/internal/audit"
)

var (
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrForbidden     = errors.New("can only update own profile or as admin")
	ErrHasOrders     = errors.New("user has orders, deactivate the account instead")
)

// OrderCounter guards deletion: users with order history are kept.
type OrderCounter interface {
	CountByCustomer(ctx context.Context, customerID int64) (int, error)
}

// AuthResult is the outcome of one authentication attempt. A nil result from
// Authenticate means invalid credentials (wrong email, disabled account or
// wrong password all look the same to the caller). Locked carries the expiry
// so the caller can show a countdown.
type AuthResult struct {
	Profile     *Profile
	Locked      bool
	LockedUntil time.Time
}

type Service struct {
	repo        Repository
	audit       audit.Recorder
	orders      OrderCounter
	maxAttempts int
	lockout     time.Duration

	now func() time.Time
}

func NewService(repo Repository, rec audit.Recorder, orders OrderCounter, maxAttempts int, lockout time.Duration) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockout <= 0 {
		lockout = time.Minute
	}
	return &Service{
		repo:        repo,
		audit:       rec,
		orders:      orders,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

// Authenticate checks credentials under the failed-attempt lockout policy.
//
// Per-account lifecycle: each wrong password increments the counter; the
// attempt that reaches the maximum locks the account until now + lockout.
// While locked no password check happens at all. Once the expiry passes the
// account unlocks itself and the counter resets before the current attempt
// is evaluated. Any successful login also resets the counter.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.repo.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.audit.Record(ctx, 0, "LOGIN_FAILED", "User not found: "+email)
			return nil, nil
		}
		return nil, err
	}

	now := s.now()

	if u.LockedUntil != nil {
		if now.Before(*u.LockedUntil) {
			return &AuthResult{Locked: true, LockedUntil: *u.LockedUntil}, nil
		}
		// lockout expired: unlock and reset before evaluating this attempt
		if err := s.repo.SaveLoginState(ctx, u.ID, 0, nil, nil); err != nil {
			return nil, err
		}
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
	}

	if !CheckPassword(u.PasswordHash, password) {
		attempts := u.FailedLoginAttempts + 1
		if attempts >= s.maxAttempts {
			until := now.Add(s.lockout)
			if err := s.repo.SaveLoginState(ctx, u.ID, attempts, &until, nil); err != nil {
				return nil, err
			}
			s.audit.Record(ctx, u.ID, "ACCOUNT_LOCKED",
				fmt.Sprintf("Locked after %d fails", attempts))
			return &AuthResult{Locked: true, LockedUntil: until}, nil
		}
		if err := s.repo.SaveLoginState(ctx, u.ID, attempts, nil, nil); err != nil {
			return nil, err
		}
		s.audit.Record(ctx, u.ID, "LOGIN_FAILED",
			fmt.Sprintf("Wrong password (attempt %d)", attempts))
		return nil, nil
	}

	if err := s.repo.SaveLoginState(ctx, u.ID, 0, nil, &now); err != nil {
		return nil, err
	}
	u.LastLogin = &now
	s.audit.Record(ctx, u.ID, "LOGIN_SUCCESS", "Successful login: "+email)

	p := u.Profile()
	return &AuthResult{Profile: &p}, nil
}

// Register validates and creates a self-service account.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*Profile, error) {
	return s.create(ctx, 0, email, password, fullName, RoleCustomer, "USER_REGISTERED",
		"New user registered: "+email)
}

// CreateByAdmin creates an account with an arbitrary role, attributed to the
// acting admin in the audit log.
func (s *Service) CreateByAdmin(ctx context.Context, adminID int64, email, password, fullName, role string) (*Profile, error) {
	if role == "" {
		role = RoleCustomer
	}
	if _, ok := rolePermissions[role]; !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return s.create(ctx, adminID, email, password, fullName, role, "USER_CREATED",
		fmt.Sprintf("Admin created user: %s (role: %s)", email, role))
}

func (s *Service) create(ctx context.Context, actorID int64, email, password, fullName, role, action, detail string) (*Profile, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := ValidateFullName(fullName); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{Email: email, PasswordHash: hash, FullName: fullName, Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if actorID == 0 {
		actorID = u.ID
	}
	s.audit.Record(ctx, actorID, action, detail)
	p := u.Profile()
	return &p, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(u.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.audit.Record(ctx, userID, "PASSWORD_CHANGED", "User changed password")
	return nil
}

// UpdateProfile lets a user edit their own record, or an admin edit anyone's.
func (s *Service) UpdateProfile(ctx context.Context, callerID, userID int64, fullName, email, address, contact string) error {
	caller, err := s.repo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if callerID != userID && caller.Role != RoleAdmin {
		return ErrForbidden
	}
	if err := ValidateFullName(fullName); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.FullName = fullName
	u.Email = email
	if address != "" {
		u.Address = address
	}
	if contact != "" {
		u.Contact = contact
	}
	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return err
	}
	s.audit.Record(ctx, userID, "PROFILE_UPDATED", "User updated profile")
	return nil
}

func (s *Service) SetActive(ctx context.Context, userID, adminID int64, active bool) error {
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		return err
	}
	action := "USER_DISABLED"
	if active {
		action = "USER_ENABLED"
	}
	s.audit.Record(ctx, adminID, action, fmt.Sprintf("Admin set user %d active=%v", userID, active))
	return nil
}

// Delete removes an account, refused while the user still has orders (order
// rows are historical records and keep their customer reference).
func (s *Service) Delete(ctx context.Context, userID, adminID int64) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	n, err := s.orders.CountByCustomer(ctx, userID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w (%d order(s))", ErrHasOrders, n)
	}
	ok, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.audit.Record(ctx, adminID, "USER_DELETED", "Admin deleted user: "+u.Email)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out, nil
}
