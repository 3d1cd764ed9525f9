package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/orbit/internal/database/repository"
)

// MaxNameLength bounds account names in runes.
const MaxNameLength = 80

var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = fmt.Errorf("name must be at most %d characters", MaxNameLength)
	ErrInvalidTier  = errors.New("tier must be Enterprise, Growth or Starter")
	ErrNegativeARR  = errors.New("ARR cannot be negative")
	ErrHealthRange  = errors.New("health must be between 0 and 100")
	ErrNotFound     = errors.New("account not found")
)

// AccountService owns account writes and the timeline entries they produce.
type AccountService struct {
	Accounts   *repository.AccountRepo
	Activities *repository.ActivityRepo
	Log        *logrus.Logger

	// Now is overridable in tests.
	Now func() time.Time
}

// Normalize trims free-text fields and canonicalizes the tier spelling.
func Normalize(a repository.Account) repository.Account {
	a.ID = strings.TrimSpace(a.ID)
	a.Name = strings.Join(strings.Fields(a.Name), " ")
	a.Industry = strings.TrimSpace(a.Industry)
	a.Owner = strings.TrimSpace(a.Owner)
	for _, t := range repository.Tiers() {
		if strings.EqualFold(strings.TrimSpace(a.Tier), t) {
			a.Tier = t
		}
	}
	return a
}

// Validate returns the first rule a violates.
func Validate(a repository.Account) error {
	if a.Name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(a.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	valid := false
	for _, t := range repository.Tiers() {
		if a.Tier == t {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidTier
	}
	if a.ARRCents < 0 {
		return ErrNegativeARR
	}
	if a.Health < 0 || a.Health > 100 {
		return ErrHealthRange
	}
	return nil
}

// Save creates the account when a.ID is empty and updates it otherwise. It
// returns the stored row and whether it was created.
func (s *AccountService) Save(ctx context.Context, a repository.Account) (repository.Account, bool, error) {
	a = Normalize(a)
	if err := Validate(a); err != nil {
		return repository.Account{}, false, err
	}

	created := a.ID == ""
	var before *repository.Account
	if created {
		a.ID = uuid.NewString()
	} else {
		existing, err := s.Accounts.Get(ctx, a.ID)
		if err != nil {
			return repository.Account{}, false, fmt.Errorf("load account %s: %w", a.ID, err)
		}
		if existing == nil {
			return repository.Account{}, false, fmt.Errorf("%w: %s", ErrNotFound, a.ID)
		}
		before = existing
	}

	if err := s.Accounts.Upsert(ctx, a); err != nil {
		return repository.Account{}, false, fmt.Errorf("save account: %w", err)
	}

	entry := repository.Activity{
		ID:         uuid.NewString(),
		AccountID:  a.ID,
		Kind:       repository.ActivityCreated,
		Summary:    "Account created",
		OccurredAt: s.now(),
	}
	if !created {
		entry.Kind = repository.ActivityUpdated
		entry.Summary = describeChanges(*before, a)
	}
	if s.Activities != nil {
		if err := s.Activities.Insert(ctx, entry); err != nil {
			return repository.Account{}, false, fmt.Errorf("record activity: %w", err)
		}
	}

	stored, err := s.Accounts.Get(ctx, a.ID)
	if err != nil {
		return repository.Account{}, false, fmt.Errorf("reload account: %w", err)
	}
	if stored == nil {
		return repository.Account{}, false, fmt.Errorf("%w: %s", ErrNotFound, a.ID)
	}

	s.logger().WithFields(logrus.Fields{
		"account": stored.ID,
		"name":    stored.Name,
		"created": created,
	}).Info("account saved")
	return *stored, created, nil
}

func (s *AccountService) List(ctx context.Context) ([]repository.Account, error) {
	return s.Accounts.List(ctx)
}

// Get returns ErrNotFound when no account has the id.
func (s *AccountService) Get(ctx context.Context, id string) (repository.Account, error) {
	a, err := s.Accounts.Get(ctx, id)
	if err != nil {
		return repository.Account{}, err
	}
	if a == nil {
		return repository.Account{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *a, nil
}

func (s *AccountService) Activity(ctx context.Context, accountID string, limit int) ([]repository.Activity, error) {
	if s.Activities == nil {
		return nil, nil
	}
	return s.Activities.ListByAccount(ctx, accountID, limit)
}

func (s *AccountService) Recent(ctx context.Context, limit int) ([]repository.Activity, error) {
	if s.Activities == nil {
		return nil, nil
	}
	return s.Activities.Recent(ctx, limit)
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AccountService) logger() *logrus.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}

func describeChanges(before, after repository.Account) string {
	var changed []string
	if before.Name != after.Name {
		changed = append(changed, "name")
	}
	if before.Tier != after.Tier {
		changed = append(changed, fmt.Sprintf("tier %s → %s", before.Tier, after.Tier))
	}
	if before.Industry != after.Industry {
		changed = append(changed, "industry")
	}
	if before.Owner != after.Owner {
		changed = append(changed, "owner")
	}
	if before.ARRCents != after.ARRCents {
		changed = append(changed, "ARR")
	}
	if before.Health != after.Health {
		changed = append(changed, fmt.Sprintf("health %d → %d", before.Health, after.Health))
	}
	if len(changed) == 0 {
		return "Account saved without changes"
	}
	return "Updated " + strings.Join(changed, ", ")
}
