package mailservice

import (
	"github.com/sushihentaime/cleanblog/internal/common"
)

func validateContactMessage(v *common.Validator, msg *ContactMessage) {
	v.Check(common.NotBlank(msg.Name), "name", "must be provided")
	v.Check(common.NotBlank(msg.Email), "email", "must be provided")
	v.Check(common.EmailRX.MatchString(msg.Email), "email", "must be a valid email address")
	v.Check(common.NotBlank(msg.Phone), "phone", "must be provided")
	v.Check(common.NotBlank(msg.Message), "message", "must be provided")
}
