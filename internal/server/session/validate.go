package session

import "github.com/iudanet/gophauth/internal/validation"

func validateRegister(in RegisterInput) error {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := validation.ValidateName("first_name", in.FirstName); err != nil {
		return err
	}
	if err := validation.ValidateName("last_name", in.LastName); err != nil {
		return err
	}
	return validation.ValidatePassword(in.Password)
}

func validateEmail(email string) error {
	return validation.ValidateEmail(email)
}

func validatePassword(password string) error {
	return validation.ValidatePassword(password)
}

// validateResetPassword applies the shorter policy of the reset flow.
func validateResetPassword(password string) error {
	return validation.ValidateResetPassword(password)
}
