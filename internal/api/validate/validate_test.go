package validate

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/campus-booking/internal/api/dto"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

func TestStructAcceptsValidPayload(t *testing.T) {
	req := dto.CreateBookingRequest{
		User:        "7f1c3c1e-3f7a-4d1e-9d55-4b1f0e0b6a10",
		Resource:    "0b9f7f4e-5d0a-4f43-8a55-9e3fb1c4a111",
		BookingDate: "2024-01-10",
		TimeSlot:    "10:00-11:00",
	}
	assert.NoError(t, Struct(req))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(dto.CreateBookingRequest{BookingDate: "10/01/2024", TimeSlot: "10:00-11:00"})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "This field is required.", de.Details["user"])
	assert.Equal(t, "This field is required.", de.Details["resource"])
	assert.Contains(t, de.Details["booking_date"], "YYYY-MM-DD")
	assert.NotContains(t, de.Details, "time_slot")
}

func TestStructSingleFieldMessage(t *testing.T) {
	err := Struct(dto.CreateResourceRequest{Name: "Lab 1", Type: "GARAGE", Capacity: 10})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, `"GARAGE" is not a valid choice.`, de.Message)
	assert.Equal(t, de.Message, de.Details["type"])
}

func TestStructPartialUpdate(t *testing.T) {
	assert.NoError(t, Struct(dto.UpdateUserRequest{}))

	bad := "not-an-email"
	err := Struct(dto.UpdateUserRequest{Email: &bad})
	assert.Equal(t, "Enter a valid email address.", apperrors.ToDomainError(err).Details["email"])

	zero := 0
	err = Struct(dto.UpdateResourceRequest{Capacity: &zero})
	assert.Equal(t, "Ensure this value is greater than 0.", apperrors.ToDomainError(err).Details["capacity"])
}
