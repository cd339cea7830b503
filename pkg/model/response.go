package model

// InlineData is a base64 payload carried inside a response part.
type InlineData struct {
	MIMEType string
	Data     string
}

type Part struct {
	Text       string
	InlineData *InlineData
}

// ContentResponse is a provider response reduced to what the decoders need.
type ContentResponse struct {
	Text     string
	Parts    []Part
	Metadata GenerationMetadata
}

// Operation is a handle to an asynchronous provider job.
type Operation struct {
	Name      string
	Done      bool
	ResultURI string
}

// Blob is a downloaded asset held in memory. URI is where it was fetched
// from, without credentials.
type Blob struct {
	URI      string
	MIMEType string
	Data     []byte
}

type GenerationMetadata map[string]string

const (
	MetadataKeyProvider          = "provider"
	MetadataKeyModel             = "model"
	MetadataKeyLatencyMs         = "latency_ms"
	MetadataKeyInputTokens       = "input_tokens"
	MetadataKeyOutputTokens      = "output_tokens"
	MetadataKeyTotalTokens       = "total_tokens"
	MetadataKeyCachedInputTokens = "cached_input_tokens"
	MetadataKeyReasoningTokens   = "reasoning_tokens"
	MetadataKeyResponseID        = "response_id"
	MetadataKeyResponseStatus    = "response_status"
)
