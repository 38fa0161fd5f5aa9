package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/linguaplay/scoring-service/internal/errors"
	"github.com/linguaplay/scoring-service/internal/models"
)

const maxUserIDLength = 64

// Validator combines struct tag validation with exercise content rules.
type Validator struct {
	structValidator   *validator.Validate
	exerciseValidator *ExerciseValidator
}

func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		exerciseValidator: NewExerciseValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and returns errors.ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := errors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateExercise runs struct tags and then the per-type content rules.
func (v *Validator) ValidateExercise(ex *models.Exercise) error {
	if err := v.Validate(ex); err != nil {
		return err
	}
	if errs := v.exerciseValidator.Validate(ex); len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *Validator) Exercise() *ExerciseValidator {
	return v.exerciseValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("exercise_type", validateExerciseType)
	validate.RegisterValidation("leveling_strategy", validateLevelingStrategy)
	validate.RegisterValidation("user_id", validateUserID)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateExerciseType(fl validator.FieldLevel) bool {
	return models.ExerciseType(fl.Field().String()).IsValid()
}

func validateLevelingStrategy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "continuous", "tiered":
		return true
	}
	return false
}

func validateUserID(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	return value != "" && len(value) <= maxUserIDLength
}
