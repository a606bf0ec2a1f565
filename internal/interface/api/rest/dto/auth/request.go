package auth

type (
	SignupRequest struct {
		Email           string `form:"email"`
		Password        string `form:"password"`
		ConfirmPassword string `form:"confirmPassword"`
	}
	LoginRequest struct {
		Email    string `form:"email"`
		Password string `form:"password"`
	}
)
