package model

import (
	"fmt"
	"strings"
)

type Capability string

const (
	CapabilityText   Capability = "text"
	CapabilityImage  Capability = "image"
	CapabilitySpeech Capability = "speech"
	CapabilityVideo  Capability = "video"
)

func (c Capability) Valid() bool {
	switch c {
	case CapabilityText, CapabilityImage, CapabilitySpeech, CapabilityVideo:
		return true
	default:
		return false
	}
}

// Voice is one of the provider's prebuilt speech voices.
type Voice string

const (
	VoiceKore   Voice = "Kore"
	VoicePuck   Voice = "Puck"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
)

var voiceDescriptions = map[Voice]string{
	VoiceKore:   "Balanced & Clear",
	VoicePuck:   "Energetic & Bright",
	VoiceCharon: "Deep & Authoritative",
	VoiceFenrir: "Warm & Natural",
}

func Voices() []Voice {
	return []Voice{VoiceKore, VoicePuck, VoiceCharon, VoiceFenrir}
}

func (v Voice) Description() string {
	return voiceDescriptions[v]
}

func ParseVoice(value string) (Voice, error) {
	for _, v := range Voices() {
		if strings.EqualFold(string(v), strings.TrimSpace(value)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown voice %q", ErrInvalidInput, value)
}
