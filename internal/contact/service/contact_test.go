package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaero/storefront/contact/pkg/request"
	"github.com/smartaero/storefront/internal/config"
)

var testMessage = request.ContactMessage{
	Name:    "Ada Lovelace",
	Email:   "ada@example.com",
	Subject: "Tower pump replacement",
	Message: "The pump on my tower garden stopped circulating.",
}

func TestSendContactEmail(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

			reqBody := sendEmailRequest{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
			assert.Equal(t, "store@smartaero.io", reqBody.From)
			assert.Equal(t, []string{"support@smartaero.io"}, reqBody.To)
			assert.Equal(t, "Contact Form: Tower pump replacement", reqBody.Subject)
			assert.Contains(t, reqBody.Html, "Ada Lovelace")
			assert.Contains(t, reqBody.Html, "ada@example.com")

			w.WriteHeader(http.StatusOK)
		}),
	)
	defer server.Close()

	svc := NewContactService(config.Email{
		Endpoint:  server.URL,
		ApiKey:    "test-api-key",
		Sender:    "store@smartaero.io",
		Recipient: "support@smartaero.io",
		TimeoutMs: 1000,
	})
	assert.NoError(t, svc.SendContactEmail(context.Background(), testMessage))
}

func TestSendContactEmailSurfacesRemoteError(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			require.NoError(t, json.NewEncoder(w).Encode(map[string]string{
				"message": "sender domain not verified",
			}))
		}),
	)
	defer server.Close()

	svc := NewContactService(config.Email{
		Endpoint:  server.URL,
		ApiKey:    "test-api-key",
		Sender:    "store@smartaero.io",
		Recipient: "support@smartaero.io",
		TimeoutMs: 1000,
	})
	err := svc.SendContactEmail(context.Background(), testMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender domain not verified")
}

func TestSendContactEmailHonorsTimeout(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}),
	)
	defer server.Close()

	svc := NewContactService(config.Email{
		Endpoint:  server.URL,
		ApiKey:    "test-api-key",
		Sender:    "store@smartaero.io",
		Recipient: "support@smartaero.io",
		TimeoutMs: 50,
	})
	err := svc.SendContactEmail(context.Background(), testMessage)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
