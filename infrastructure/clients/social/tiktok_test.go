package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-publisher/domain/model"
)

func TestTikTokClient_NoStoredCredential(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewTikTokClient(&stubCredentials{}, &recordingNotifier{})
	client.baseURL = server.URL

	variant := &model.ContentVariant{MediaURL: strPtr(server.URL + "/video.mp4")}
	result := client.Publish(context.Background(), variant, model.PublishMedia{})

	assert.Equal(t, model.PublishError, result.Status)
	assert.Contains(t, result.Message, "No hay token de TikTok")
	assert.False(t, called, "nothing may be downloaded without a credential")
}

func TestTikTokClient_DirectPost(t *testing.T) {
	video := []byte("fake-mp4-bytes")
	var initBody tiktokInitRequest
	var uploadRange string
	var uploaded []byte

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/video.mp4":
			w.Write(video)
		case strings.HasPrefix(r.URL.Path, "/v2/post/publish/video/init/"):
			assert.Equal(t, "Bearer act.stored", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&initBody))
			fmt.Fprintf(w, `{"data":{"publish_id":"pub-1","upload_url":"%s/upload"}}`, server.URL)
		case r.URL.Path == "/upload":
			assert.Equal(t, http.MethodPut, r.Method)
			uploadRange = r.Header.Get("Content-Range")
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			uploaded = body
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	creds := &stubCredentials{cred: &model.PlatformCredential{Platform: model.PlatformTikTok, AccessToken: "act.stored"}}
	client := NewTikTokClient(creds, &recordingNotifier{})
	client.baseURL = server.URL

	variant := &model.ContentVariant{
		AdaptedText: "Mira este video",
		Hashtags:    []string{"#fyp"},
		MediaURL:    strPtr(server.URL + "/video.mp4"),
	}
	result := client.Publish(context.Background(), variant, model.PublishMedia{})

	require.Equal(t, model.PublishSuccess, result.Status)
	assert.Equal(t, "pub-1", result.ExternalID)
	assert.Equal(t, "https://www.tiktok.com/@me/video/pub-1", result.URL)

	assert.Equal(t, "FILE_UPLOAD", initBody.SourceInfo.Source)
	assert.Equal(t, len(video), initBody.SourceInfo.VideoSize)
	assert.Equal(t, len(video), initBody.SourceInfo.ChunkSize)
	assert.Equal(t, 1, initBody.SourceInfo.TotalChunkCount)
	require.NotNil(t, initBody.PostInfo)
	assert.Equal(t, "Mira este video\n\n#fyp", initBody.PostInfo.Title)
	assert.Equal(t, "SELF_ONLY", initBody.PostInfo.PrivacyLevel)

	assert.Equal(t, fmt.Sprintf("bytes 0-%d/%d", len(video)-1, len(video)), uploadRange)
	assert.Equal(t, video, uploaded)
}

func TestTikTokClient_CaptionTruncatedTo150Runes(t *testing.T) {
	var initBody tiktokInitRequest
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/video.mp4":
			w.Write([]byte("v"))
		case strings.HasPrefix(r.URL.Path, "/v2/post/publish/video/init/"):
			require.NoError(t, json.NewDecoder(r.Body).Decode(&initBody))
			fmt.Fprintf(w, `{"data":{"publish_id":"pub-2","upload_url":"%s/upload"}}`, server.URL)
		}
	}))
	defer server.Close()

	creds := &stubCredentials{cred: &model.PlatformCredential{Platform: model.PlatformTikTok, AccessToken: "act"}}
	client := NewTikTokClient(creds, &recordingNotifier{})
	client.baseURL = server.URL

	variant := &model.ContentVariant{
		AdaptedText: strings.Repeat("ñ", 200),
		MediaURL:    strPtr(server.URL + "/video.mp4"),
	}
	result := client.Publish(context.Background(), variant, model.PublishMedia{})

	require.Equal(t, model.PublishSuccess, result.Status)
	assert.Equal(t, 150, len([]rune(initBody.PostInfo.Title)))
}

func TestTikTokClient_KnownErrorCodes(t *testing.T) {
	tests := []struct {
		code    string
		message string
		want    string
	}{
		{"access_token_invalid", "token bad", "Token expirado"},
		{"scope_not_authorized", "missing scope", "video.publish"},
		{"rate_limit_exceeded", "too many requests", "Error de TikTok: too many requests (Codigo: rate_limit_exceeded)"},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/video.mp4" {
					w.Write([]byte("v"))
					return
				}
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, `{"error":{"code":"%s","message":"%s"}}`, tc.code, tc.message)
			}))
			defer server.Close()

			creds := &stubCredentials{cred: &model.PlatformCredential{Platform: model.PlatformTikTok, AccessToken: "act"}}
			client := NewTikTokClient(creds, &recordingNotifier{})
			client.baseURL = server.URL

			variant := &model.ContentVariant{MediaURL: strPtr(server.URL + "/video.mp4")}
			result := client.Publish(context.Background(), variant, model.PublishMedia{})

			assert.Equal(t, model.PublishError, result.Status)
			assert.Contains(t, result.Message, tc.want)
		})
	}
}

func TestTikTokClient_VideoDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	creds := &stubCredentials{cred: &model.PlatformCredential{Platform: model.PlatformTikTok, AccessToken: "act"}}
	client := NewTikTokClient(creds, &recordingNotifier{})
	client.baseURL = server.URL

	variant := &model.ContentVariant{MediaURL: strPtr(server.URL + "/missing.mp4")}
	result := client.Publish(context.Background(), variant, model.PublishMedia{})

	assert.Equal(t, model.PublishError, result.Status)
	assert.Contains(t, result.Message, "No se pudo descargar el video")
}
