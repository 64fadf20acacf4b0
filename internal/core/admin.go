package core

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// GetProduct returns a product by id, active or not.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, classify("get product", err)
	}
	return p, nil
}

// SetProductActive shows or hides a product. Inactive products cannot be ordered.
func (s *Service) SetProductActive(ctx context.Context, id int64, active bool) error {
	return classify("set product active", s.store.SetProductActive(ctx, id, active))
}

// ListOrders returns orders newest first.
func (s *Service) ListOrders(ctx context.Context, f OrderFilter) ([]Order, error) {
	if f.Status != "" {
		st, err := ParseOrderStatus(string(f.Status))
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset > MaxOffset {
		f.Offset = MaxOffset
	}
	orders, err := s.store.ListOrders(ctx, f)
	if err != nil {
		return nil, classify("list orders", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// UpdateOrderStatus sets any valid status. There are no transition rules;
// this is an admin override.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status string) (*Order, error) {
	st, err := ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.store.UpdateOrderStatus(ctx, id, st)
	if err != nil {
		return nil, classify("update order status", err)
	}
	return o, nil
}

// ListSettings returns every runtime setting.
func (s *Service) ListSettings(ctx context.Context) ([]Setting, error) {
	rows, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, classify("list settings", err)
	}
	return rows, nil
}

// PutSetting stores a setting. Known keys are type-checked so a typo
// cannot silently disable a notification channel.
func (s *Service) PutSetting(ctx context.Context, key, value string) (*Setting, error) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return nil, invalidf("setting key is required")
	}

	switch {
	case strings.HasPrefix(key, "enable_"):
		if _, err := strconv.ParseBool(strings.ToLower(value)); err != nil {
			return nil, invalidf("%s must be true or false", key)
		}
	case key == "smtp_port":
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return nil, invalidf("smtp_port must be between 1 and 65535")
		}
	case key == "notify_email" && value != "":
		if !emailRegex.MatchString(value) {
			return nil, invalidf("notify_email is not a valid address")
		}
	}

	st, err := s.store.PutSetting(ctx, key, value)
	if err != nil {
		return nil, classify("put setting", err)
	}
	return st, nil
}

// ListCategories returns the category tree as a flat list.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, classify("list categories", err)
	}
	return cats, nil
}

// CreateCategory adds a category under an existing parent, or at the root.
func (s *Service) CreateCategory(ctx context.Context, d CategoryDraft) (*Category, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, invalidf("category name is required")
	}
	if d.ParentID != nil {
		if _, err := s.store.GetCategory(ctx, *d.ParentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, invalidf("parent category %d does not exist", *d.ParentID)
			}
			return nil, classify("get parent category", err)
		}
	}
	c, err := s.store.CreateCategory(ctx, d)
	if err != nil {
		return nil, classify("create category", err)
	}
	return c, nil
}

// MoveCategory re-parents a category. A nil parent moves it to the root.
// The new parent may not be the category itself or one of its descendants.
func (s *Service) MoveCategory(ctx context.Context, id int64, parentID *int64) error {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return classify("get category", err)
	}

	if parentID != nil {
		if err := s.checkNoCycle(ctx, id, *parentID); err != nil {
			return err
		}
	}
	return classify("move category", s.store.SetCategoryParent(ctx, id, parentID))
}

// checkNoCycle walks up from parentID and fails if it reaches id.
func (s *Service) checkNoCycle(ctx context.Context, id, parentID int64) error {
	seen := make(map[int64]bool)
	for cur := &parentID; cur != nil; {
		if *cur == id {
			return invalidf("category %d cannot be moved under itself or a descendant", id)
		}
		if seen[*cur] {
			return invalidf("category tree already contains a cycle at %d", *cur)
		}
		seen[*cur] = true

		c, err := s.store.GetCategory(ctx, *cur)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalidf("parent category %d does not exist", *cur)
			}
			return classify("get category", err)
		}
		cur = c.ParentID
	}
	return nil
}

// CreateUser validates and stores a staff account with a bcrypt password hash.
func (s *Service) CreateUser(ctx context.Context, nu NewUser) (*User, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	nu.Email = strings.TrimSpace(nu.Email)
	if nu.Role == "" {
		nu.Role = RoleUser
	}

	switch {
	case nu.Username == "":
		return nil, invalidf("username is required")
	case !emailRegex.MatchString(nu.Email):
		return nil, invalidf("email is not a valid address")
	case len(nu.Password) < minPasswordLen:
		return nil, invalidf("password must be at least %d characters", minPasswordLen)
	}
	switch nu.Role {
	case RoleAdmin, RoleManager, RoleUser:
	default:
		return nil, invalidf("unknown role %q", nu.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, invalidf("password cannot be hashed: %v", err)
	}

	u, err := s.store.CreateUser(ctx, User{
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: string(hash),
		Role:         nu.Role,
		IsActive:     true,
	})
	if err != nil {
		return nil, classify("create user", err)
	}
	return u, nil
}

// ListImportRuns returns recent import history, newest first.
func (s *Service) ListImportRuns(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	runs, err := s.store.ListImportRuns(ctx, limit)
	if err != nil {
		return nil, classify("list import runs", err)
	}
	if runs == nil {
		runs = []ImportRun{}
	}
	return runs, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(u *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
