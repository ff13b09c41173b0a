package gemini

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"social-publisher/domain/model"
	"social-publisher/infrastructure/configuration"
	"social-publisher/infrastructure/logger"
)

const (
	geminiBaseURL       = "https://generativelanguage.googleapis.com"
	pollinationsBaseURL = "https://image.pollinations.ai"
)

// Client adapts source content into per-platform variants through the Gemini
// generateContent REST API.
type Client struct {
	cfg             configuration.Gemini
	baseURL         string
	pollinationsURL string
	rest            *resty.Client
}

func NewClient(cfg configuration.Gemini) *Client {
	return &Client{
		cfg:             cfg,
		baseURL:         geminiBaseURL,
		pollinationsURL: pollinationsBaseURL,
		rest:            resty.New().SetTimeout(90 * time.Second),
	}
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Adapt asks the model for one adaptation per platform and attaches a
// Pollinations image URL to the Instagram and Facebook entries when the model
// suggested an image prompt.
func (c *Client) Adapt(ctx context.Context, title, body string) (map[model.Platform]*model.Adaptation, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	reqBody := generateContentRequest{
		Contents:         []content{{Parts: []part{{Text: buildPrompt(title, body)}}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}

	var respBody generateContentResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", c.cfg.APIKey).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&respBody).
		Post(fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gemini returned %d: %s", resp.StatusCode(), respBody.Error.Message)
	}
	if len(respBody.Candidates) == 0 || len(respBody.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	raw := respBody.Candidates[0].Content.Parts[0].Text
	adaptations := map[model.Platform]*model.Adaptation{}
	if err := json.Unmarshal([]byte(raw), &adaptations); err != nil {
		return nil, fmt.Errorf("decode adaptations: %w", err)
	}

	c.attachImage(adaptations)
	return adaptations, nil
}

// attachImage derives the image URL from the suggested prompt and shares it
// between Instagram and Facebook, matching how the post image is reused.
func (c *Client) attachImage(adaptations map[model.Platform]*model.Adaptation) {
	instagram, ok := adaptations[model.PlatformInstagram]
	if !ok || instagram.SuggestedImagePrompt == "" {
		return
	}
	imageURL := c.pollinationsImageURL(instagram.SuggestedImagePrompt)
	instagram.GeneratedImageURL = imageURL
	if facebook, ok := adaptations[model.PlatformFacebook]; ok {
		facebook.GeneratedImageURL = imageURL
	}
	logger.GetLogger().WithField("image_url", imageURL).Info("Generated image URL attached")
}

// pollinationsImageURL builds the public Pollinations URL for an image
// prompt. The image is generated lazily on first fetch; nothing is
// downloaded here. The random seed varies the output between posts.
func (c *Client) pollinationsImageURL(prompt string) string {
	seed := make([]byte, 2)
	_, _ = rand.Read(seed)
	return fmt.Sprintf("%s/prompt/%s?nologo=true&seed=%s",
		c.pollinationsURL, url.PathEscape(prompt), hex.EncodeToString(seed))
}

func buildPrompt(title, body string) string {
	return fmt.Sprintf(`Eres un experto en marketing de redes sociales. Tu tarea es adaptar el siguiente contenido para 5 plataformas.
Para Instagram, tambien debes sugerir un prompt para una IA de generacion de imagenes.
Para TikTok, tambien debes sugerir un "gancho" para el video.

Contenido Original:
Titulo: %q
Contenido: %q

Debes retornar UNICAMENTE un objeto JSON valido, sin ningun texto antes o despues. La estructura debe ser la siguiente:

{
  "facebook": {
    "text": "Texto adaptado para Facebook (tono casual/informativo, maximo 500 caracteres).",
    "hashtags": ["#Innovacion", "#Tecnologia"],
    "character_count": 0
  },
  "instagram": {
    "text": "Texto adaptado para Instagram (tono visual/casual, maximo 200 caracteres, con emojis).",
    "hashtags": ["#Tech", "#Innovation", "#NewFeature"],
    "character_count": 0,
    "suggested_image_prompt": "Prompt para IA de imagen (ej. 'Modern tech interface, abstract lines, vibrant colors, high detail')"
  },
  "linkedin": {
    "text": "Texto adaptado para LinkedIn (tono profesional, maximo 600 caracteres, con estructura profesional).",
    "hashtags": ["#Technology", "#Innovation", "#Negocios"],
    "character_count": 0,
    "tone": "professional"
  },
  "tiktok": {
    "text": "Texto adaptado para TikTok (tono joven/trending, maximo 150 caracteres, con emojis).",
    "hashtags": ["#Tech", "#Viral", "#NewFeature"],
    "character_count": 0,
    "video_hook": "Frase corta y muy llamativa para el inicio de un video de TikTok (max 15 palabras)."
  },
  "whatsapp": {
    "text": "Texto adaptado para WhatsApp (tono conversacional/directo, maximo 300 caracteres, con emojis).",
    "character_count": 0,
    "format": "conversational"
  }
}

Instrucciones Adicionales:
- Reemplaza los textos de ejemplo con el contenido real adaptado.
- Calcula el 'character_count' real para cada texto.
- NO incluyas marcadores de bloque de codigo en la respuesta. Solo el JSON.`, title, body)
}
