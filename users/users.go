package users

// Profile is the authenticated principal as the platform reports it from
// the /auth/me endpoint. Role is the primary role name; Roles and
// Permissions carry the granular grants used for authorization decisions.
type Profile struct {
	ID              string   `json:"id,omitempty"`
	Email           string   `json:"email,omitempty"`
	Name            string   `json:"name,omitempty"`
	LastName        string   `json:"lastName,omitempty"`
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	Role            string   `json:"role,omitempty"`
	Roles           []string `json:"roles,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
	EmailVerifiedAt *string  `json:"emailVerifiedAt,omitempty"`
	BlockedAt       *string  `json:"blockedAt,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}

// ProfileUpdate carries the fields an administrator may change on their
// own profile. Nil fields are left untouched by the server.
type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// HasRole reports whether the profile carries the named granular role.
func (p *Profile) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// HasPermission reports whether the profile carries the named permission.
func (p *Profile) HasPermission(name string) bool {
	for _, perm := range p.Permissions {
		if perm == name {
			return true
		}
	}
	return false
}

func (p *Profile) Verified() bool {
	return p.EmailVerifiedAt != nil && *p.EmailVerifiedAt != ""
}

func (p *Profile) Blocked() bool {
	return p.BlockedAt != nil && *p.BlockedAt != ""
}
