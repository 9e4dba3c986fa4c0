// Package validation checks request payloads against statically declared rules
// and reports failures as a field to message map.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	appErrors "github.com/noah-isme/classfee-api/pkg/errors"
)

// Custom validation tags.
const (
	notBlankTag    = "notblank"
	phoneTag       = "phone10"
	decimalTag     = "decimal"
	nonNegativeTag = "nonnegative"
	monthTag       = "billing_month"
	yearTag        = "billing_year"
	statusTag      = "payment_status"
)

// customTranslations are the fallback English messages for the custom tags
// when a request type has no message of its own.
var customTranslations = map[string]string{
	notBlankTag:    "{0} cannot be blank",
	phoneTag:       "{0} must be 10 digits",
	decimalTag:     "{0} must be a number",
	nonNegativeTag: "{0} must not be negative",
	monthTag:       "{0} must be between 1 and 12",
	yearTag:        "{0} must be a four-digit year",
	statusTag:      "{0} must be either paid or unpaid",
}

var phoneRegex = regexp.MustCompile(`^\d{10}$`)

// Messages maps "field.tag" (json field name) to the message reported for that failure.
type Messages map[string]string

// Validator wraps go-playground/validator with English translations and per-type messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
	messages   map[reflect.Type]Messages
}

// New builds a Validator with the custom tags registered.
func New() *Validator {
	validate := validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(phoneTag, phoneNumber)
	_ = validate.RegisterValidation(decimalTag, decimal)
	_ = validate.RegisterValidation(nonNegativeTag, nonNegative)
	_ = validate.RegisterValidation(monthTag, billingMonth)
	_ = validate.RegisterValidation(yearTag, billingYear)
	_ = validate.RegisterValidation(statusTag, paymentStatus)

	for tag, text := range customTranslations {
		tag, text := tag, text
		_ = validate.RegisterTranslation(tag, translator, func(t ut.Translator) error {
			return t.Add(tag, text, true)
		}, translateCustom)
	}

	v := &Validator{
		validate:   validate,
		translator: translator,
		messages:   make(map[reflect.Type]Messages),
	}
	registerRequestMessages(v)
	return v
}

// Register attaches custom messages to the request type of sample.
func (v *Validator) Register(sample interface{}, messages Messages) {
	v.messages[indirectType(sample)] = messages
}

// Struct validates s. It returns nil or a VALIDATION_ERROR carrying one message per failing field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	custom := v.messages[indirectType(s)]
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe)
		if _, seen := fields[field]; seen {
			continue
		}
		if msg, ok := custom[field+"."+fe.Tag()]; ok {
			fields[field] = msg
			continue
		}
		fields[field] = fe.Translate(v.translator)
	}
	return appErrors.Validation(fields)
}

// fieldPath strips the root struct name from the namespace, e.g. "studentIds[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func indirectType(s interface{}) reflect.Type {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func translateCustom(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func phoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func decimal(fl validator.FieldLevel) bool {
	_, err := dto.Number(fl.Field().String()).Float64()
	return err == nil
}

func nonNegative(fl validator.FieldLevel) bool {
	v, err := dto.Number(fl.Field().String()).Float64()
	return err == nil && v >= 0
}

func billingMonth(fl validator.FieldLevel) bool {
	m, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && m >= 1 && m <= 12
}

func billingYear(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	y, err := strconv.Atoi(raw)
	return err == nil && len(raw) == 4 && y >= 1000
}

func paymentStatus(fl validator.FieldLevel) bool {
	return models.PaymentStatus(fl.Field().String()).Valid()
}
