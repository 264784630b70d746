package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestPrecision_Round(t *testing.T) {
	tests := []struct {
		name string
		prec Precision
		v    float64
		want float64
	}{
		{"half up", 1, 80.25, 80.3},
		{"thirds", 2, 1.0 / 3, 0.33},
		{"integer", 0, 77.5, 78},
		{"negative half away from zero", 0, -2.5, -3},
		{"already rounded", 1, 90, 90},
		{"negative precision", -1, 12.345, 12.345},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.prec.Round(tt.v))
		})
	}
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Budi Santoso", CleanString("  Budi Santoso \n"))
	assert.Equal(t, "budi@school.id", CleanString(" Budi@School.ID ", true))
	assert.Equal(t, "", CleanString("   "))
}

func TestCleanOrdering(t *testing.T) {
	ordering := []DBOrdering{
		{Field: " Name ", Ascending: true},
		{Field: "password"},
		{Field: "created_at"},
	}
	assert.Equal(t,
		[]DBOrdering{{Field: "name", Ascending: true}, {Field: "created_at"}},
		CleanOrdering(ordering, "id", "name", "created_at"),
	)
	assert.Nil(t, CleanOrdering(nil, "id"))
	assert.Equal(t, "name ASC", DBOrdering{Field: "name", Ascending: true}.String())
	assert.Equal(t, "id DESC", DBOrdering{Field: "id"}.String())
}

func TestErrors(t *testing.T) {
	notFound := NewNotFoundError("subject")
	assert.Equal(t, "subject not found", notFound.Error())
	assert.True(t, IsNotFound(errors.Wrap(notFound, "getting subject")))
	assert.False(t, IsNotFound(errors.New("subject not found")))

	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("db gone"), "querying")))
	assert.False(t, IsShutdown(notFound))

	vErr := NewValidationError(nil, FieldError{Field: "code", Error: "taken"})
	assert.Equal(t, "code: taken", vErr.Error())
	vErr = NewValidationError(errors.New("bad input"))
	assert.Equal(t, "bad input", vErr.Error())
}

func TestTranslateErrors(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
		Code string `json:"code" validate:"required,alphanum_"`
		Note string `json:"note" validate:"notblank"`
	}
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	err := validate.Struct(payload{Code: "MT-K", Note: "  "})
	var vErrs validator.ValidationErrors
	if assert.True(t, errors.As(err, &vErrs)) {
		assert.Equal(t, map[string]string{
			"name": requiredText,
			"code": alphaNumUnderText,
			"note": notBlankText,
		}, TranslateErrors(vErrs, translator))
	}
}
