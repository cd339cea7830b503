package gateway

import (
	"context"
	"errors"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

const (
	TextFailureMessage       = "Analysis failed. Check the API connection."
	ImageFailureMessage      = "Image generation failed."
	SpeechFailureMessage     = "Speech synthesis failed."
	VideoFailureMessage      = "Video generation failed. Please check your billing or try a simpler prompt."
	CredentialFailureMessage = "API key error. Please re-select a paid project key."

	entityNotFound = "Requested entity was not found"
)

var failureMessages = map[model.Capability]string{
	model.CapabilityText:   TextFailureMessage,
	model.CapabilityImage:  ImageFailureMessage,
	model.CapabilitySpeech: SpeechFailureMessage,
	model.CapabilityVideo:  VideoFailureMessage,
}

// Failure is the user-facing form of a generation error. Err keeps the
// underlying cause for diagnostics.
type Failure struct {
	Capability         model.Capability
	Message            string
	ReselectCredential bool
	Err                error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure reports whether err carries a Failure.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// fail converts err into a Failure and logs it. Invalid input is not a
// generation failure and is returned untouched.
func fail(ctx context.Context, capability model.Capability, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrInvalidInput) {
		return err
	}
	if _, ok := AsFailure(err); ok {
		return err
	}

	f := &Failure{
		Capability: capability,
		Message:    failureMessages[capability],
		Err:        err,
	}
	if utils.ContainsErrorSubstring(err, entityNotFound) {
		f.ReselectCredential = true
		f.Message = CredentialFailureMessage
	}

	logging.NewLogger(ctx).
		WithField("capability", string(capability)).
		WithField("reselect_credential", f.ReselectCredential).
		Errorf("error: %v", err)
	return f
}
