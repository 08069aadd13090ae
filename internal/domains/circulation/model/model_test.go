package model

import (
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanDuration(t *testing.T) {
	out := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	in := out.Add(90 * time.Minute)

	d := LoanDuration(&out, in)
	require.NotNil(t, d)
	assert.Equal(t, int64(90*60*1000), *d)

	assert.Nil(t, LoanDuration(nil, in))
	assert.Nil(t, LoanDuration(&time.Time{}, in))
}

func TestCheckoutRequest_Normalize(t *testing.T) {
	cls := "C2"
	req := CheckoutRequest{StudentName: "  Bo ", ClassID: &cls}

	req.Normalize()

	assert.Equal(t, "Bo", req.BorrowerName)
	require.NotNil(t, req.Classification)
	assert.Equal(t, "C2", *req.Classification)
}

func TestCheckoutRequest_NormalizePrefersNewFields(t *testing.T) {
	a, b := "A", "B"
	req := CheckoutRequest{BorrowerName: "Ana", Classification: &a, StudentName: "Bo", ClassID: &b}

	req.Normalize()

	assert.Equal(t, "Ana", req.BorrowerName)
	assert.Equal(t, "A", *req.Classification)
}

func TestCheckoutRequest_Validate(t *testing.T) {
	req := CheckoutRequest{BorrowerName: "   "}
	req.Normalize()

	err := req.Validate()

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "borrower_name")

	assert.NoError(t, CheckoutRequest{BorrowerName: "Ana"}.Validate())
}
