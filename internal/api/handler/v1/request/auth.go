package request

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	// At least 6 characters, not all of them blank.
	passwordRegexPattern = `^(?=.*\S).{6,}$`

	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

var passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)

var (
	errInvalidPassword         = errors.New("the password must be at least 6 characters and not blank")
	errPasswordTooLong         = errors.New("the password must be at most 72 bytes")
	errConfirmPasswordMismatch = errors.New("confirm password doesn't match the password")
)

type credentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (c *credentials) validate() error {
	err := validation.ValidateStruct(
		c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required),
		validation.Field(&c.ConfirmPassword, validation.Required),
	)
	if err != nil {
		return err
	}

	return validatePassword(c.Password, c.ConfirmPassword)
}

func validatePassword(password, confirm string) error {
	if len(password) > maxPasswordBytes {
		return errPasswordTooLong
	}

	ok, err := passwordExp.MatchString(password)
	if err != nil || !ok {
		return errInvalidPassword
	}

	if password != confirm {
		return errConfirmPasswordMismatch
	}

	return nil
}

type UserSignupRequest struct {
	credentials
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

func (req *UserSignupRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Location = strings.TrimSpace(req.Location)

	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Phone, validation.Required, validation.Length(1, 20)),
		validation.Field(&req.Location, validation.Required, validation.Length(1, 100)),
	)
	if err != nil {
		return err
	}

	return req.credentials.validate()
}

type OrganizationSignupRequest struct {
	credentials
	Name        string `json:"name"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
	Address     string `json:"address"`
}

func (req *OrganizationSignupRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Contact = strings.TrimSpace(req.Contact)

	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Contact, validation.Required, validation.Length(1, 100)),
	)
	if err != nil {
		return err
	}

	return req.credentials.validate()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}
