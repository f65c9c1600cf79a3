package userservice

import (
	"github.com/sushihentaime/cleanblog/internal/common"
)

func validateName(v *common.Validator, name string) {
	v.Check(common.NotBlank(name), "name", "must be provided")
	v.Check(v.CheckStringLength(name, 0, 1000), "name", "must not be more than 1000 characters long")
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(v.CheckStringLength(email, 0, 250), "email", "must not be more than 250 characters long")
	v.Check(common.EmailRX.MatchString(email), "email", "must be a valid email address")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(v.CheckStringLength(password, 8, 250), "password", "must be between 8 and 250 characters long")
}

func validatePasswordProvided(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
}
