package wildapricot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/eventwatch/internal/domain"
)

func newClientForTest(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"access_token": "tok-1",
			"refresh_token": "ref-1",
			"expires_in": 1800,
			"Permissions": [{"AccountId": 42}]
		}`)
	})
	mux.Handle("/", handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	clock := &fakeClock{now: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)}
	tokens := NewTokenManager(server.URL+"/auth/token", "", "", server.Client(), clock)
	require.NoError(t, tokens.AuthenticateAPIKey(context.Background(), "key-1", ""))

	return NewClient(server.URL, server.Client(), tokens)
}

func TestExecuteGetAttachesBearerToken(t *testing.T) {
	var gotAuth, gotAccept, gotMethod string

	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotMethod = r.Method
		fmt.Fprint(w, `{"ok": true}`)
	}))

	value, err := client.Execute(context.Background(), "/v2/accounts/42/contacts", nil, "")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, http.MethodGet, gotMethod)

	obj, ok := value.Object()
	require.True(t, ok)
	okField, ok := obj.Bool("ok")
	require.True(t, ok)
	assert.True(t, okField)
}

func TestExecuteDefaultsToPostWithBody(t *testing.T) {
	var gotMethod, gotBody string

	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		fmt.Fprint(w, `{}`)
	}))

	body := domain.NewObject()
	body.Set("Name", domain.StringValue("Open House"))
	bodyValue := domain.ObjectValue(body)

	_, err := client.Execute(context.Background(), "/v2/accounts/42/events", &bodyValue, "")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.JSONEq(t, `{"Name":"Open House"}`, gotBody)
}

func TestExecuteBadRequestCarriesRawBody(t *testing.T) {
	payload := `{"Code":"InvalidArgument","Message":"bad filter"}`

	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, payload, http.StatusBadRequest)
	}))

	_, err := client.Execute(context.Background(), "/v2/accounts/42/events", nil, "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.JSONEq(t, payload, strings.TrimSpace(string(apiErr.Body)))
}

func TestExecuteOtherStatusIsPlainError(t *testing.T) {
	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Execute(context.Background(), "/v2/accounts/42/events", nil, "")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "only 400 maps to APIError")
	assert.Contains(t, err.Error(), "502")
}

func TestExecuteResolvesAbsoluteURLs(t *testing.T) {
	var gotPath string

	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{}`)
	}))

	_, err := client.Execute(context.Background(), client.baseURL+"/v2/other", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "/v2/other", gotPath)
}

func TestEventsReturnsInnerCollection(t *testing.T) {
	var gotPath string

	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Events": []map[string]any{
				{"Id": 1, "Name": "First"},
				{"Id": 2, "Name": "Second"},
			},
		})
	}))

	events, err := client.Events(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/v2/accounts/42/events", gotPath)
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Name())
	assert.Equal(t, int64(2), events[1].ID())
}

func TestEventsFailsOnMissingCollection(t *testing.T) {
	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"Total": 0}`)
	}))

	_, err := client.Events(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Events")
}

func TestExecuteRequiresAuthentication(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	t.Cleanup(server.Close)

	tokens := NewTokenManager(server.URL, "", "", server.Client(), nil)
	client := NewClient(server.URL, server.Client(), tokens)

	_, err := client.Execute(context.Background(), "/v2/accounts/0/events", nil, "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}
