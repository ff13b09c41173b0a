package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
)

const tiktokAPIBaseURL = "https://open.tiktokapis.com"

// tiktokCaptionLimit is the maximum caption length TikTok accepts.
const tiktokCaptionLimit = 150

// TikTokClient publishes a video through the Content Posting API (direct
// post). It needs a stored OAuth credential obtained via the PKCE flow; the
// video is downloaded into memory first and uploaded as a single chunk, which
// sidesteps TikTok's domain verification of pull-from-URL sources.
type TikTokClient struct {
	credentials repository.ICredential
	baseURL     string
	http        *http.Client
	notifier    repository.INotifier
}

func NewTikTokClient(credentials repository.ICredential, notifier repository.INotifier) *TikTokClient {
	return &TikTokClient{
		credentials: credentials,
		baseURL:     tiktokAPIBaseURL,
		http:        defaultHTTPClient(),
		notifier:    notifier,
	}
}

type tiktokInitRequest struct {
	SourceInfo tiktokSourceInfo `json:"source_info"`
	PostInfo   *tiktokPostInfo  `json:"post_info,omitempty"`
}

type tiktokSourceInfo struct {
	Source          string `json:"source"`
	VideoSize       int    `json:"video_size"`
	ChunkSize       int    `json:"chunk_size"`
	TotalChunkCount int    `json:"total_chunk_count"`
}

type tiktokPostInfo struct {
	Title                 string `json:"title"`
	PrivacyLevel          string `json:"privacy_level"`
	DisableDuet           bool   `json:"disable_duet"`
	DisableComment        bool   `json:"disable_comment"`
	DisableStitch         bool   `json:"disable_stitch"`
	VideoCoverTimestampMs int    `json:"video_cover_timestamp_ms"`
}

type tiktokInitResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
		UploadURL string `json:"upload_url"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *TikTokClient) Publish(ctx context.Context, variant *model.ContentVariant, media model.PublishMedia) model.PublishResult {
	credential, err := c.credentials.GetByPlatform(ctx, model.PlatformTikTok)
	if err != nil {
		return model.ErrorResult(model.PlatformTikTok,
			"No hay token de TikTok. Debes autenticarte primero en /auth/tiktok")
	}

	videoURL := media.VideoURL
	if videoURL == "" && variant.MediaURL != nil {
		videoURL = *variant.MediaURL
	}

	video, result := c.downloadVideo(ctx, videoURL)
	if result != nil {
		return *result
	}

	initResp, result := c.initUpload(ctx, credential.AccessToken, variant, len(video))
	if result != nil {
		return *result
	}

	if result := c.uploadChunk(ctx, initResp.Data.UploadURL, video); result != nil {
		return *result
	}

	publishID := initResp.Data.PublishID
	return model.PublishResult{
		Platform:   model.PlatformTikTok,
		Status:     model.PublishSuccess,
		ExternalID: publishID,
		URL:        fmt.Sprintf("https://www.tiktok.com/@me/video/%s", publishID),
		Message:    "Video publicado exitosamente en TikTok",
	}
}

func (c *TikTokClient) downloadVideo(ctx context.Context, videoURL string) ([]byte, *model.PublishResult) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		result := model.ErrorResult(model.PlatformTikTok, fmt.Sprintf("Error descargando video: %v", err))
		return nil, &result
	}
	status, body, err := do(c.http, req)
	if err != nil {
		result := model.ErrorResult(model.PlatformTikTok, fmt.Sprintf("Error descargando video: %v", err))
		return nil, &result
	}
	if status != http.StatusOK {
		result := model.ErrorResult(model.PlatformTikTok, "No se pudo descargar el video de la URL proporcionada")
		return nil, &result
	}
	return body, nil
}

func (c *TikTokClient) initUpload(ctx context.Context, accessToken string, variant *model.ContentVariant, videoSize int) (*tiktokInitResponse, *model.PublishResult) {
	initReq := tiktokInitRequest{
		SourceInfo: tiktokSourceInfo{
			Source:          "FILE_UPLOAD",
			VideoSize:       videoSize,
			ChunkSize:       videoSize,
			TotalChunkCount: 1,
		},
	}
	if caption := truncateRunes(variant.FullText(), tiktokCaptionLimit); caption != "" {
		initReq.PostInfo = &tiktokPostInfo{
			Title: caption,
			// Unaudited apps may only post privately.
			PrivacyLevel:          "SELF_ONLY",
			VideoCoverTimestampMs: 1000,
		}
	}

	payload, err := json.Marshal(initReq)
	if err != nil {
		result := model.ErrorResult(model.PlatformTikTok, err.Error())
		return nil, &result
	}

	initURL := c.baseURL + "/v2/post/publish/video/init/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, initURL, bytes.NewReader(payload))
	if err != nil {
		result := model.ErrorResult(model.PlatformTikTok, err.Error())
		return nil, &result
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	status, body, err := do(c.http, req)
	if err != nil {
		result := model.ErrorResult(model.PlatformTikTok, err.Error())
		return nil, &result
	}
	c.notifier.APICall(model.PlatformTikTok, initURL, status, body)

	var initResp tiktokInitResponse
	if err := json.Unmarshal(body, &initResp); err != nil {
		result := model.ErrorResult(model.PlatformTikTok, string(body))
		return nil, &result
	}
	if status != http.StatusOK || initResp.Data.UploadURL == "" {
		result := tiktokErrorResult(initResp.Error.Code, initResp.Error.Message)
		return nil, &result
	}
	return &initResp, nil
}

func (c *TikTokClient) uploadChunk(ctx context.Context, uploadURL string, video []byte) *model.PublishResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(video))
	if err != nil {
		result := model.ErrorResult(model.PlatformTikTok, err.Error())
		return &result
	}
	req.Header.Set("Content-Type", "video/mp4")
	req.Header.Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", len(video)-1, len(video)))
	req.ContentLength = int64(len(video))

	status, body, err := do(c.http, req)
	if err != nil {
		result := model.ErrorResult(model.PlatformTikTok, err.Error())
		return &result
	}
	if status != http.StatusOK && status != http.StatusCreated {
		result := model.ErrorResult(model.PlatformTikTok, fmt.Sprintf("Error subiendo binario: %s", string(body)))
		return &result
	}
	return nil
}

// tiktokErrorResult maps the documented error codes to actionable messages.
func tiktokErrorResult(code, message string) model.PublishResult {
	switch code {
	case "access_token_invalid":
		return model.ErrorResult(model.PlatformTikTok,
			"Token expirado. Vuelve a autenticarte en /auth/tiktok")
	case "scope_not_authorized":
		return model.ErrorResult(model.PlatformTikTok,
			"Falta el permiso 'video.publish'. Solicitalo en el Portal de TikTok y re-autenticate.")
	}
	if message == "" {
		message = "Error desconocido"
	}
	if code == "" {
		code = "unknown"
	}
	return model.ErrorResult(model.PlatformTikTok,
		fmt.Sprintf("Error de TikTok: %s (Codigo: %s)", message, code))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
