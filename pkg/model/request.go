package model

// GenerationConfig holds the per-capability options of a single request.
// The encoder copies it into the ProviderRequest, so later changes by the
// caller do not reach an issued request.
type GenerationConfig struct {
	SystemInstruction string
	Voice             Voice
	AspectRatio       string
	Resolution        string
	NumberOfVideos    int
	History           []Turn
}

type TurnRole string

const (
	TurnRoleUser  TurnRole = "user"
	TurnRoleModel TurnRole = "model"
)

// Turn is one earlier message of a chat.
type Turn struct {
	Role TurnRole
	Text string
}

// ProviderRequest is the encoded form of a prompt for one capability.
type ProviderRequest struct {
	Capability Capability
	// Prompt is the text sent to the provider, already templated for the capability.
	Prompt string
	// SourcePrompt is the caller's prompt before templating.
	SourcePrompt string
	Config       GenerationConfig
}
