package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "regdesk/pkg/domain-errors"
)

type sampleForm struct {
	Mobile  string `validate:"required,len=10,digits"`
	Aadhaar string `validate:"required,len=12,digits"`
	PAN     string `validate:"required,pan"`
	Gender  string `validate:"required,oneof=male female other"`
	State   string `validate:"required,notblank"`
}

func validSample() sampleForm {
	return sampleForm{
		Mobile:  "9876543210",
		Aadhaar: "123456789012",
		PAN:     "ABCDE1234F",
		Gender:  "female",
		State:   "Kerala",
	}
}

func TestValidate_Passes(t *testing.T) {
	form := validSample()
	require.NoError(t, Validate(&form))
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*sampleForm)
		message string
	}{
		{
			name:    "short mobile",
			mutate:  func(f *sampleForm) { f.Mobile = "12345" },
			message: "mobile must be exactly 10 characters",
		},
		{
			name:    "mobile with letters",
			mutate:  func(f *sampleForm) { f.Mobile = "987654321x" },
			message: "mobile must contain only digits",
		},
		{
			name:    "aadhaar too short",
			mutate:  func(f *sampleForm) { f.Aadhaar = "1234" },
			message: "aadhaar must be exactly 12 characters",
		},
		{
			name:    "lowercase pan",
			mutate:  func(f *sampleForm) { f.PAN = "abcde1234f" },
			message: "pan must match the PAN format (5 letters, 4 digits, 1 letter)",
		},
		{
			name:    "unknown gender",
			mutate:  func(f *sampleForm) { f.Gender = "none" },
			message: "gender must be one of [male female other]",
		},
		{
			name:    "blank state",
			mutate:  func(f *sampleForm) { f.State = "   " },
			message: "state must not be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validSample()
			tt.mutate(&form)

			err := Validate(&form)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}
