package blogservice

import "github.com/svidalco/mdxblog/internal/common"

func validateTitle(v *common.Validator, title string) {
	v.Check(v.NotBlank(title), "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateBody(v *common.Validator, body string) {
	v.Check(v.NotBlank(body), "content", "must be provided")
}

func validateID(v *common.Validator, id int, name string) {
	v.Check(id > 0, name, "must be greater than zero")
}
