package paymentsvc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FixedStatus struct {
	approved bool
	message  string
}

func (f FixedStatus) GetStatus() (bool, string) {
	return f.approved, f.message
}

func charge(t *testing.T, server *httptest.Server, req ChargeRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(server.URL+"/api/v1/charges", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func validCharge() ChargeRequest {
	return ChargeRequest{
		OrderCode: "20260901-120000-0001",
		Amount:    761600,
		Currency:  "CLP",
		CardToken: "tok-abc",
	}
}

func TestCharge_Approved(t *testing.T) {
	handler := NewHandler(FixedStatus{approved: true}, zerolog.Nop())
	server := httptest.NewServer(handler.Router())
	defer server.Close()

	resp := charge(t, server, validCharge())
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ChargeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Approved)
	assert.NotEmpty(t, got.TransactionRef)
	assert.Empty(t, got.ResponseMessage)
}

func TestCharge_Declined(t *testing.T) {
	handler := NewHandler(FixedStatus{message: "Insufficient funds"}, zerolog.Nop())
	server := httptest.NewServer(handler.Router())
	defer server.Close()

	resp := charge(t, server, validCharge())
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ChargeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.False(t, got.Approved)
	assert.Empty(t, got.TransactionRef)
	assert.Equal(t, "Insufficient funds", got.ResponseMessage)
}

func TestCharge_InvalidRequests(t *testing.T) {
	handler := NewHandler(FixedStatus{approved: true}, zerolog.Nop())
	server := httptest.NewServer(handler.Router())
	defer server.Close()

	missingToken := validCharge()
	missingToken.CardToken = ""
	resp := charge(t, server, missingToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	zeroAmount := validCharge()
	zeroAmount.Amount = 0
	resp = charge(t, server, zeroAmount)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRandomStatus_DeclineCarriesMessage(t *testing.T) {
	// regardless of the draw, exactly one of the two outcome fields is set
	for i := 0; i < 200; i++ {
		approved, message := RandomStatus{}.GetStatus()
		if approved {
			assert.Empty(t, message)
		} else {
			assert.Contains(t, declineMessages, message)
		}
	}
}
