package model

// Adaptation is the per-platform output of the generative text service.
type Adaptation struct {
	Text                 string   `json:"text"`
	Hashtags             []string `json:"hashtags"`
	CharacterCount       int      `json:"character_count"`
	SuggestedImagePrompt string   `json:"suggested_image_prompt,omitempty"`
	GeneratedImageURL    string   `json:"generated_image_url,omitempty"`
	VideoHook            string   `json:"video_hook,omitempty"`
	Tone                 string   `json:"tone,omitempty"`
	Format               string   `json:"format,omitempty"`
}
