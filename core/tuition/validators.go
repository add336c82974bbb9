package tuition

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/hometuition/portal/core"
)

var (
	schoolClassTag  = "schoolclass"
	schoolClassText = "{0} is not a valid class"

	inquirySubjectTag = "inquirysubject"
	teacherSubjectTag = "teachersubject"
	subjectText       = "{0} is not a valid subject"
)

// InitValidators registers the tuition form validation tags and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(schoolClassTag, choiceValidation(Classes))
	core.RegisterCustomTranslation(validate, translator, schoolClassTag, schoolClassText)

	_ = validate.RegisterValidation(inquirySubjectTag, choiceValidation(InquirySubjects))
	core.RegisterCustomTranslation(validate, translator, inquirySubjectTag, subjectText)

	_ = validate.RegisterValidation(teacherSubjectTag, choiceValidation(TeacherSubjects))
	core.RegisterCustomTranslation(validate, translator, teacherSubjectTag, subjectText)
}

func choiceValidation(choices []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, c := range choices {
			if val == c {
				return true
			}
		}
		return false
	}
}
