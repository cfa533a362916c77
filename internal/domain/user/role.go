package user

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role is the closed set of account roles.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleCreator
	RoleMember
)

func (r Role) String() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleMember:
		return "member"
	default:
		return ""
	}
}

func (r Role) Valid() bool { return r == RoleCreator || r == RoleMember }

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "creator":
		return RoleCreator, nil
	case "member":
		return RoleMember, nil
	default:
		return RoleUnknown, fmt.Errorf("invalid role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role by name so rows stay readable outside the service.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	case nil:
		*r = RoleUnknown
		return nil
	default:
		return fmt.Errorf("role: unsupported scan type %T", src)
	}
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsCreator() bool { return p.Role == RoleCreator }
