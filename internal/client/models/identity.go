package models

// Identity is the signed-in user as described by the access token claims.
// It is never stored on its own; it is re-derived from the stored token.
type Identity struct {
	UserID       int64
	FullName     string
	Roles        Roles
	PhoneNumber  string
	ProfilePhoto string
}

// IdentityPatch carries the display fields that may change after a profile
// edit. Nil fields are left untouched.
type IdentityPatch struct {
	FullName     *string
	PhoneNumber  *string
	ProfilePhoto *string
}

// Apply returns a copy of id with the non-nil fields of p merged in.
func (p IdentityPatch) Apply(id Identity) Identity {
	if p.FullName != nil {
		id.FullName = *p.FullName
	}
	if p.PhoneNumber != nil {
		id.PhoneNumber = *p.PhoneNumber
	}
	if p.ProfilePhoto != nil {
		id.ProfilePhoto = *p.ProfilePhoto
	}
	id.Roles = append(Roles(nil), id.Roles...)
	return id
}

// TokenPair is the access/refresh pair issued by the login endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (t TokenPair) IsZero() bool {
	return t.Access == "" && t.Refresh == ""
}
