package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/studyhub/core"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	LMSToken     string    `json:"-" db:"lms_token"` // opaque; forwarded to the LMS as is
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) HasLMSToken() bool {
	return u.LMSToken != ""
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username string `form:"username" validate:"required,notblank"`
	Password string `form:"password" validate:"required"`
	LMSToken string `form:"token" validate:"required,notblank"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Username = core.CleanString(nu.Username)
	nu.LMSToken = core.CleanString(nu.LMSToken)
	return validate.Struct(nu)
}
