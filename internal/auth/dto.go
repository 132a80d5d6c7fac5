package auth

// LoginDTO carries the credential pair posted to the login endpoint.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidationError marks a malformed auth request so handlers can map it
// to 400 instead of the 401 used for rejected credentials.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}
