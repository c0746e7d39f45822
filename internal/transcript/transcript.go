// Package transcript defines the value types shared by the client facade and
// the server-side extraction pipeline: timed transcript segments, video
// metadata, availability reports, and the method tags stamped on every result.
package transcript

// Extraction method tags. Every successful result carries the method that
// produced it so degraded fallback content stays visibly distinguishable from
// true transcripts.
const (
	MethodAPI     = "primary-api"
	MethodBrowser = "browser-fallback"
	MethodManual  = "manual-fallback"
	MethodFailed  = "failed_all_methods"
)

// Segment is one timed piece of transcript text.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Result is the outcome of a transcript fetch. Immutable once produced.
type Result struct {
	Success       bool      `json:"success"`
	Transcript    []Segment `json:"transcript,omitempty"`
	FullText      string    `json:"full_text,omitempty"`
	Language      string    `json:"language,omitempty"`
	TotalSegments int       `json:"total_segments,omitempty"`
	Duration      float64   `json:"duration,omitempty"`
	Method        string    `json:"method,omitempty"`
	VideoID       string    `json:"video_id,omitempty"`
	VideoURL      string    `json:"video_url,omitempty"`

	// FallbackLanguage marks a transcript served in English because the
	// requested language was unavailable.
	FallbackLanguage bool `json:"fallback_language,omitempty"`

	// FallbackContent marks degraded substitute content (title/description)
	// that is not the true transcript. Note explains the degradation.
	FallbackContent bool   `json:"fallback_content,omitempty"`
	Note            string `json:"note,omitempty"`

	Err string `json:"error,omitempty"`
}

// Metadata is the outcome of a video metadata fetch.
type Metadata struct {
	Success     bool   `json:"success"`
	VideoID     string `json:"video_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Channel     string `json:"channel,omitempty"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Views       string `json:"views,omitempty"`
	URL         string `json:"url,omitempty"`
	Err         string `json:"error,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}

// Language describes one available transcript language.
type Language struct {
	Language       string `json:"language"`
	LanguageCode   string `json:"language_code"`
	IsGenerated    bool   `json:"is_generated"`
	IsTranslatable bool   `json:"is_translatable"`
}

// Availability reports whether transcripts exist for a video and in which
// languages. AvailableLanguages is empty when none are available.
type Availability struct {
	Success              bool       `json:"success"`
	VideoID              string     `json:"video_id,omitempty"`
	TranscriptsAvailable bool       `json:"transcripts_available"`
	AvailableLanguages   []Language `json:"available_languages"`
	TotalLanguages       int        `json:"total_languages"`
	Err                  string     `json:"error,omitempty"`
	VideoURL             string     `json:"video_url,omitempty"`
}
