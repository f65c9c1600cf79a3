package blogservice

import (
	"fmt"

	"github.com/sushihentaime/cleanblog/internal/common"
)

func validateRequired(v *common.Validator, value, field string, max int) {
	v.Check(common.NotBlank(value), field, "must be provided")
	v.Check(v.CheckStringLength(value, 0, max), field, fmt.Sprintf("must not be more than %d characters long", max))
}

func validatePost(v *common.Validator, in *PostInput) {
	validateRequired(v, in.Title, "title", 250)
	validateRequired(v, in.Subtitle, "subtitle", 250)
	validateRequired(v, in.Author, "author", 250)
	validateRequired(v, in.ImgURL, "img_url", 250)
	v.Check(common.IsURL(in.ImgURL), "img_url", "must be a valid URL")
	v.Check(common.NotBlank(in.Body), "body", "must be provided")
}

func validateComment(v *common.Validator, text string) {
	v.Check(common.NotBlank(text), "comment", "must be provided")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
