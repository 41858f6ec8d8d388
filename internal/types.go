package internal

import "time"

// TranslationRequest is what the presentation layer submits: two display
// names from the language registry and the text to translate.
type TranslationRequest struct {
	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`
	Text       string `json:"text"`
}

type TranslationResult struct {
	SourceCode     string        `json:"source_code"`
	TargetCode     string        `json:"target_code"`
	ModelID        string        `json:"model_id"`
	TranslatedText string        `json:"translated_text"`
	Detected       bool          `json:"detected"`
	CacheHit       bool          `json:"cache_hit"`
	Latency        time.Duration `json:"latency"`
	// OutputWarning is set when the translation does not look like the
	// target language.
	OutputWarning string `json:"output_warning,omitempty"`
}
