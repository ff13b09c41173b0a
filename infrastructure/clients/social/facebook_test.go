package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-publisher/domain/model"
	"social-publisher/infrastructure/configuration"
)

func TestFacebookClient_MissingCredentials(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewFacebookClient(configuration.Facebook{}, &recordingNotifier{}, nil)
	client.baseURL = server.URL

	result := client.Publish(context.Background(), &model.ContentVariant{}, model.PublishMedia{})
	assert.Equal(t, model.PublishError, result.Status)
	assert.Equal(t, "Faltan credenciales", result.Message)
	assert.False(t, called, "no request may be sent without credentials")
}

func TestFacebookClient_TextPost(t *testing.T) {
	var gotPath, gotMessage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotMessage = r.FormValue("message")
		w.Write([]byte(`{"id":"100_200"}`))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := NewFacebookClient(configuration.Facebook{PageID: "100", AccessToken: "tok"}, notifier, nil)
	client.baseURL = server.URL

	variant := &model.ContentVariant{
		Platform:    model.PlatformFacebook,
		AdaptedText: "Lanzamiento",
		Hashtags:    []string{"#Tech", "#Go"},
	}
	result := client.Publish(context.Background(), variant, model.PublishMedia{})

	require.Equal(t, model.PublishSuccess, result.Status)
	assert.Equal(t, "100_200", result.ExternalID)
	assert.Equal(t, "https://www.facebook.com/100_200", result.URL)
	assert.Equal(t, "/100/feed", gotPath)
	assert.Equal(t, "Lanzamiento\n\n#Tech #Go", gotMessage)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, http.StatusOK, notifier.calls[0].status)
}

func TestFacebookClient_RemoteImageUsesPhotosEndpoint(t *testing.T) {
	var gotPath, gotURL, gotCaption string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotURL = r.FormValue("url")
		gotCaption = r.FormValue("caption")
		w.Write([]byte(`{"id":"img-1","post_id":"100_300"}`))
	}))
	defer server.Close()

	client := NewFacebookClient(configuration.Facebook{PageID: "100", AccessToken: "tok"}, &recordingNotifier{}, nil)
	client.baseURL = server.URL

	variant := &model.ContentVariant{AdaptedText: "Con foto"}
	result := client.Publish(context.Background(), variant, model.PublishMedia{ImageURL: "https://cdn.example.com/a.jpg"})

	require.Equal(t, model.PublishSuccess, result.Status)
	assert.Equal(t, "100_300", result.ExternalID, "post_id wins over id")
	assert.Equal(t, "/100/photos", gotPath)
	assert.Equal(t, "https://cdn.example.com/a.jpg", gotURL)
	assert.Equal(t, "Con foto", gotCaption)
}

func TestFacebookClient_GraphError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer server.Close()

	client := NewFacebookClient(configuration.Facebook{PageID: "100", AccessToken: "bad"}, &recordingNotifier{}, nil)
	client.baseURL = server.URL

	result := client.Publish(context.Background(), &model.ContentVariant{AdaptedText: "x"}, model.PublishMedia{})
	assert.Equal(t, model.PublishError, result.Status)
	assert.Contains(t, result.Message, "Invalid OAuth access token")
}
