package domain

// User is a stored account. VerificationToken is empty when none was issued.
type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	Role              Role
	IsActive          bool
	VerificationToken string
}

// Claims is the authorization snapshot carried by access and refresh tokens.
type Claims struct {
	Username string
	Role     Role
	IsActive bool
	Email    string
}

func (u User) Claims() Claims {
	return Claims{
		Username: u.Username,
		Role:     u.Role,
		IsActive: u.IsActive,
		Email:    u.Email,
	}
}
