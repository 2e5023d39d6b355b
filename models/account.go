package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// MasterAccount is the single authentication identity. Exactly one role
// profile exists per account, resolved by (Role, RoleNo).
type MasterAccount struct {
	ID        string     `json:"id"`
	AccountNo int64      `json:"account_no"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	RoleNo    int64      `json:"role_no"`
	Verified  bool       `json:"verified"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type UserProfile struct {
	ID        string `json:"id"`
	UserNo    int64  `json:"user_no"`
	AccountID string `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Gender    string `json:"gender,omitempty"`
	BirthYear int    `json:"birth_year,omitempty"`
}

type OrganizerProfile struct {
	ID             string          `json:"id"`
	OrganizerNo    int64           `json:"organizer_no"`
	AccountID      string          `json:"account_id"`
	Name           string          `json:"name"`
	ContactEmail   string          `json:"contact_email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Website        string          `json:"website,omitempty"`
	Facebook       string          `json:"facebook,omitempty"`
	Instagram      string          `json:"instagram,omitempty"`
	Logo           string          `json:"logo,omitempty"`
	Status         OrganizerStatus `json:"status"`
	EventCount     int             `json:"event_count"`
	ModerationNote string          `json:"moderation_note,omitempty"`
}

type AdminProfile struct {
	ID          string `json:"id"`
	AdminNo     int64  `json:"admin_no"`
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
}
