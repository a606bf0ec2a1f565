package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"file-uploader/internal/interface/api/rest/dto/auth"
	"file-uploader/internal/interface/api/rest/dto/folder"
)

const (
	minPasswordLen   = 8
	maxPasswordLen   = 72 // bcrypt safe
	maxFolderNameLen = 255

	MsgPasswordsDoNotMatch = "Passwords do not match"
)

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// ValidateSignup returns field errors keyed by form field name.
func ValidateSignup(r auth.SignupRequest) map[string]string {
	errs := make(map[string]string)

	validateEmail(errs, r.Email)

	password := r.Password
	if strings.TrimSpace(password) == "" {
		errs["password"] = "Password is required"
	} else if l := len(password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "Password must be 8–72 characters"
	}

	if r.Password != r.ConfirmPassword {
		errs["confirmPassword"] = MsgPasswordsDoNotMatch
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	validateEmail(errs, r.Email)
	if r.Password == "" {
		errs["password"] = "Password is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateFolder(r folder.Request) map[string]string {
	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		return map[string]string{"name": "Folder name is required"}
	case utf8.RuneCountInString(name) > maxFolderNameLen:
		return map[string]string{"name": "Folder name is too long"}
	}
	return nil
}

func validateEmail(errs map[string]string, raw string) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		errs["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Invalid email format"
	}
}
