package model

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrTransport             = errors.New("transport error")
	ErrNoImageData           = errors.New("no image data found in response")
	ErrNoAudioData           = errors.New("no audio data generated")
	ErrMissingAsset          = errors.New("video generation finished without an asset")
	ErrMalformedAudio        = errors.New("malformed pcm audio")
	ErrUnsupportedCapability = errors.New("capability not supported by provider")
)
