package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pick-your-pour/signup-service/internal/domain"
	"github.com/pick-your-pour/signup-service/internal/signup"
)

func TestCheckUnique(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/check-uniqueness", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "username", req["field"])

		json.NewEncoder(w).Encode(map[string]bool{"isUnique": req["value"] != "taken"})
	}))
	defer srv.Close()

	c := New(srv.URL)

	free, err := c.CheckUnique(context.Background(), domain.FieldUsername, "newuser")
	require.NoError(t, err)
	assert.True(t, free)

	free, err = c.CheckUnique(context.Background(), domain.FieldUsername, "taken")
	require.NoError(t, err)
	assert.False(t, free)
}

func TestCheckUniqueServerErrorIsNotAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CheckUnique(context.Background(), domain.FieldEmail, "x@y.com")
	assert.Error(t, err)
}

func TestCreateAccountSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/create-user", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "newuser", req["username"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "User created successfully",
			"user": map[string]any{
				"id":       "u-1",
				"username": "newuser",
				"email":    "new@x.com",
			},
		})
	}))
	defer srv.Close()

	user, err := New(srv.URL).CreateAccount(context.Background(), "newuser", "new@x.com", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
}

func TestCreateAccountConflictNamesField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "email already exists",
			"field": "email",
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateAccount(context.Background(), "newuser", "taken@x.com", nil, nil)

	var conflict *signup.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.FieldEmail, conflict.Field)
}

func TestUploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload-profile", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "draft-1", r.FormValue("userId"))

		file, header, err := r.FormFile("profileImage")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message":  "Profile image uploaded successfully",
			"imageUrl": "https://cdn.test/staging/draft-1/a.jpg",
		})
	}))
	defer srv.Close()

	url, err := New(srv.URL).UploadImage(context.Background(), "draft-1", []byte("jpegdata"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/staging/draft-1/a.jpg", url)
}

func TestTrack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/track-event", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "Event tracked successfully"})
	}))
	defer srv.Close()

	err := New(srv.URL).Track(context.Background(), "transition", "signup-modal", "committed")
	assert.NoError(t, err)
}
