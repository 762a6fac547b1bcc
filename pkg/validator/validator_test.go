package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productRequest struct {
	ID        int64  `json:"id" validate:"gt=0"`
	Title     string `json:"title" validate:"required,max=10"`
	Thumbnail string `json:"thumbnail" validate:"omitempty,url"`
	Screen    string `json:"screen" validate:"omitempty,oneof=home cart"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(productRequest{ID: 1, Title: "Mascara", Thumbnail: "https://cdn.example.com/1.png", Screen: "home"})
	assert.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	err := Validate(productRequest{ID: 0, Title: "", Thumbnail: "not a url", Screen: "checkout"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be greater than 0", fields["ID"])
	assert.Equal(t, "is required", fields["Title"])
	assert.Equal(t, "must be a valid URL", fields["Thumbnail"])
	assert.Equal(t, "must be one of: home cart", fields["Screen"])
}

func TestValidate_Max(t *testing.T) {
	err := Validate(productRequest{ID: 1, Title: "Extra long title"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Title"], "at most 10")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(productRequest{ID: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Title'")
	assert.Contains(t, err.Error(), "is required")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"id":7,"title":"Lipstick","price":12.5,"unknown":true}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var p productRequest
	require.NoError(t, DecodeAndValidate(req, &p))
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Lipstick", p.Title)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var p productRequest
	err := DecodeAndValidate(req, &p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":-1,"title":"x"}`))

	var p productRequest
	err := DecodeAndValidate(req, &p)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
