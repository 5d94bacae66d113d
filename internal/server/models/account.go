package models

// Role is an authority granted to an account, e.g. ROLE_USER.
type Role struct {
	ID    int64  `json:"id" db:"id"`
	Code  string `json:"code" db:"code"`
	Label string `json:"label" db:"label"`
}

// Account carries the credentials and status flags consulted during
// authentication. The password is a bcrypt hash and is never serialized.
type Account struct {
	TransactionalEntity
	Username           string `json:"username" db:"username"`
	Password           string `json:"-" db:"password"`
	Enabled            bool   `json:"enabled" db:"enabled"`
	Expired            bool   `json:"expired" db:"expired"`
	CredentialsExpired bool   `json:"credentialsExpired" db:"credentials_expired"`
	Locked             bool   `json:"locked" db:"locked"`
	Roles              []Role `json:"roles"`
}

// Authorities returns the authority strings derived from the account's
// role set.
func (a *Account) Authorities() []string {
	codes := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		codes = append(codes, r.Code)
	}
	return codes
}
