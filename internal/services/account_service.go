package services

import (
	"context"
	"net/mail"
	"strings"
	"unicode"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/config"
	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

// AccountService owns the master-account/profile pair: one auth record in
// the accounts collection fronting exactly one role profile record.
type AccountService struct {
	app core.App
	seq *SequenceService
	cfg *config.Config
}

func NewAccountService(app core.App, seq *SequenceService, cfg *config.Config) *AccountService {
	return &AccountService{app: app, seq: seq, cfg: cfg}
}

type RegisterParams struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     models.Role   `json:"role"`
	Profile  ProfileParams `json:"profile"`
}

type ProfileParams struct {
	// user fields
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	BirthYear int    `json:"birth_year"`

	// organizer fields
	OrgName      string `json:"org_name"`
	ContactEmail string `json:"contact_email"`
	Website      string `json:"website"`
	Facebook     string `json:"facebook"`
	Instagram    string `json:"instagram"`

	// shared
	Phone string `json:"phone"`
}

// RoleCollection maps a role tag to its profile collection.
func RoleCollection(role models.Role) string {
	switch role {
	case models.RoleOrganizer:
		return "organizers"
	case models.RoleAdmin:
		return "admins"
	default:
		return "users"
	}
}

// Register creates the master account and its role profile atomically.
// Self-registration is limited to user and organizer roles; admins are
// created by other admins.
func (s *AccountService) Register(ctx context.Context, params RegisterParams) (*core.Record, *core.Record, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" {
		return nil, nil, status.Validation("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, status.Validation("email", "is not a valid address")
	}
	if len(params.Password) < s.cfg.RegisterPasswordMinLength {
		return nil, nil, status.Validation("password", "is too short")
	}
	if !params.Role.Valid() || params.Role == models.RoleAdmin {
		return nil, nil, status.Validation("role", "must be user or organizer")
	}
	if params.Role == models.RoleOrganizer && strings.TrimSpace(params.Profile.OrgName) == "" {
		return nil, nil, status.Validation("org_name", "is required for organizers")
	}

	if existing, _ := s.app.FindAuthRecordByEmail("accounts", email); existing != nil {
		return nil, nil, status.ErrDuplicateEmail
	}

	accountNo, err := s.seq.Next(ctx, "accounts")
	if err != nil {
		return nil, nil, status.Internal(err)
	}
	roleNo, err := s.seq.Next(ctx, string(params.Role)+"s")
	if err != nil {
		return nil, nil, status.Internal(err)
	}

	var account, profile *core.Record
	err = s.app.RunInTransaction(func(txApp core.App) error {
		accounts, err := txApp.FindCollectionByNameOrId("accounts")
		if err != nil {
			return err
		}
		account = core.NewRecord(accounts)
		account.SetEmail(email)
		account.SetPassword(params.Password)
		account.Set("role", string(params.Role))
		account.Set("account_no", accountNo)
		account.Set("role_no", roleNo)
		if err := txApp.Save(account); err != nil {
			return err
		}

		profiles, err := txApp.FindCollectionByNameOrId(RoleCollection(params.Role))
		if err != nil {
			return err
		}
		profile = core.NewRecord(profiles)
		profile.Set("account", account.Id)
		switch params.Role {
		case models.RoleOrganizer:
			profile.Set("organizer_no", roleNo)
			profile.Set("name", params.Profile.OrgName)
			profile.Set("contact_email", params.Profile.ContactEmail)
			profile.Set("phone", params.Profile.Phone)
			profile.Set("website", params.Profile.Website)
			profile.Set("facebook", params.Profile.Facebook)
			profile.Set("instagram", params.Profile.Instagram)
			profile.Set("status", string(models.OrganizerPending))
			profile.Set("event_count", 0)
		default:
			profile.Set("user_no", roleNo)
			profile.Set("first_name", params.Profile.FirstName)
			profile.Set("last_name", params.Profile.LastName)
			profile.Set("phone", params.Profile.Phone)
			profile.Set("gender", params.Profile.Gender)
			profile.Set("birth_year", params.Profile.BirthYear)
		}
		return txApp.Save(profile)
	})
	if err != nil {
		// two registrations can race past the email pre-check; the unique
		// index on accounts.email catches the loser inside the transaction
		if isUniqueEmailViolation(err) {
			return nil, nil, status.ErrDuplicateEmail
		}
		return nil, nil, status.From(err)
	}
	return account, profile, nil
}

// isUniqueEmailViolation recognizes the errors a duplicate email save
// produces, either PocketBase's record validation or the raw sqlite
// unique-index failure.
func isUniqueEmailViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "must be unique") ||
		strings.Contains(msg, "already in use")
}

// DecodeAccount maps the auth record onto the transport model, which
// carries no credential fields.
func DecodeAccount(record *core.Record) models.MasterAccount {
	account := models.MasterAccount{
		ID:        record.Id,
		AccountNo: int64(record.GetInt("account_no")),
		Email:     record.Email(),
		Role:      models.Role(record.GetString("role")),
		RoleNo:    int64(record.GetInt("role_no")),
		Verified:  record.Verified(),
	}
	if t := record.GetDateTime("last_login").Time(); !t.IsZero() {
		account.LastLogin = &t
	}
	return account
}

// DecodeProfile converts a role profile record into its transport model.
func DecodeProfile(role models.Role, record *core.Record) any {
	switch role {
	case models.RoleOrganizer:
		return models.OrganizerProfile{
			ID:             record.Id,
			OrganizerNo:    int64(record.GetInt("organizer_no")),
			AccountID:      record.GetString("account"),
			Name:           record.GetString("name"),
			ContactEmail:   record.GetString("contact_email"),
			Phone:          record.GetString("phone"),
			Website:        record.GetString("website"),
			Facebook:       record.GetString("facebook"),
			Instagram:      record.GetString("instagram"),
			Logo:           record.GetString("logo"),
			Status:         models.OrganizerStatus(record.GetString("status")),
			EventCount:     record.GetInt("event_count"),
			ModerationNote: record.GetString("moderation_note"),
		}
	case models.RoleAdmin:
		return models.AdminProfile{
			ID:          record.Id,
			AdminNo:     int64(record.GetInt("admin_no")),
			AccountID:   record.GetString("account"),
			DisplayName: strings.TrimSpace(record.GetString("first_name") + " " + record.GetString("last_name")),
		}
	default:
		return models.UserProfile{
			ID:        record.Id,
			UserNo:    int64(record.GetInt("user_no")),
			AccountID: record.GetString("account"),
			FirstName: record.GetString("first_name"),
			LastName:  record.GetString("last_name"),
			Phone:     record.GetString("phone"),
			Avatar:    record.GetString("avatar"),
			Gender:    record.GetString("gender"),
			BirthYear: record.GetInt("birth_year"),
		}
	}
}

// ProfileFor resolves the single role profile owned by an account.
func (s *AccountService) ProfileFor(account *core.Record) (*core.Record, error) {
	role := models.Role(account.GetString("role"))
	profile, err := s.app.FindFirstRecordByFilter(
		RoleCollection(role),
		"account = {:account}",
		map[string]any{"account": account.Id},
	)
	if err != nil {
		return nil, status.NotFound("profile")
	}
	return profile, nil
}

// UpdateProfile applies the role-appropriate subset of the params to the
// account's profile. Numbering, status and moderation fields are never
// client-writable.
func (s *AccountService) UpdateProfile(ctx context.Context, account *core.Record, params ProfileParams) (*core.Record, error) {
	profile, err := s.ProfileFor(account)
	if err != nil {
		return nil, err
	}

	switch models.Role(account.GetString("role")) {
	case models.RoleOrganizer:
		if strings.TrimSpace(params.OrgName) != "" {
			profile.Set("name", params.OrgName)
		}
		profile.Set("contact_email", params.ContactEmail)
		profile.Set("phone", params.Phone)
		profile.Set("website", params.Website)
		profile.Set("facebook", params.Facebook)
		profile.Set("instagram", params.Instagram)
	case models.RoleAdmin:
		profile.Set("first_name", params.FirstName)
		profile.Set("last_name", params.LastName)
		profile.Set("phone", params.Phone)
	default:
		profile.Set("first_name", params.FirstName)
		profile.Set("last_name", params.LastName)
		profile.Set("phone", params.Phone)
		profile.Set("gender", params.Gender)
		if params.BirthYear > 0 {
			profile.Set("birth_year", params.BirthYear)
		}
	}

	if err := s.app.Save(profile); err != nil {
		return nil, status.Internal(err)
	}
	return profile, nil
}

// ChangePassword verifies the current password and applies the stricter
// change-time policy: minimum length plus at least one digit and one
// special character.
func (s *AccountService) ChangePassword(ctx context.Context, account *core.Record, oldPassword, newPassword string) error {
	if !account.ValidatePassword(oldPassword) {
		return status.Validation("old_password", "does not match")
	}
	if err := CheckPasswordPolicy(newPassword, s.cfg.ChangePasswordMinLength); err != nil {
		return err
	}
	account.SetPassword(newPassword)
	if err := s.app.Save(account); err != nil {
		return status.Internal(err)
	}
	return nil
}

// CheckPasswordPolicy enforces the password-change policy.
func CheckPasswordPolicy(password string, minLength int) error {
	if len(password) < minLength {
		return status.Validation("password", "is too short")
	}
	var hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			hasSpecial = true
		}
	}
	if !hasDigit {
		return status.Validation("password", "must contain at least one digit")
	}
	if !hasSpecial {
		return status.Validation("password", "must contain at least one special character")
	}
	return nil
}

// RemoveAccount hard-deletes an account together with its profile. Admin
// only; the sole hard-delete path in the system.
func (s *AccountService) RemoveAccount(ctx context.Context, accountID string) error {
	account, err := s.app.FindRecordById("accounts", accountID)
	if err != nil {
		return status.NotFound("account")
	}
	profile, err := s.ProfileFor(account)
	if err != nil {
		return err
	}
	err = s.app.RunInTransaction(func(txApp core.App) error {
		if err := txApp.Delete(profile); err != nil {
			return err
		}
		return txApp.Delete(account)
	})
	if err != nil {
		return status.Internal(err)
	}
	return nil
}
