package model

// AudioBuffer is decoded PCM audio, one slice of normalized samples per channel.
type AudioBuffer struct {
	SampleRate  int
	ChannelData [][]float32
}

func (b AudioBuffer) NumberOfChannels() int {
	return len(b.ChannelData)
}

// Length returns the number of frames per channel.
func (b AudioBuffer) Length() int {
	if len(b.ChannelData) == 0 {
		return 0
	}
	return len(b.ChannelData[0])
}
