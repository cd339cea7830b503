package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/compustack/aether/pkg/audio"
	"github.com/compustack/aether/pkg/model"
	"github.com/spf13/cobra"
)

var imageFlags struct {
	out         string
	aspectRatio string
}

var speakFlags struct {
	voice string
	out   string
}

var videoFlags struct {
	out         string
	aspectRatio string
	resolution  string
}

var imageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Generate an image; prints a data URI unless --out is set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}
		uri, err := gw.GenerateImage(cmd.Context(), strings.Join(args, " "), model.GenerationConfig{AspectRatio: imageFlags.aspectRatio})
		if err != nil {
			return userError(err)
		}
		if imageFlags.out == "" {
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		}

		data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
		if err != nil {
			return err
		}
		if err := os.WriteFile(imageFlags.out, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", imageFlags.out, len(data))
		return nil
	},
}

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Synthesize speech into a WAV file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		voice, err := model.ParseVoice(speakFlags.voice)
		if err != nil {
			return err
		}
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}
		speech, err := gw.GenerateSpeech(cmd.Context(), strings.Join(args, " "), voice)
		if err != nil {
			return userError(err)
		}

		var buf bytes.Buffer
		if err := audio.EncodeWAV(&buf, speech.PCM, speech.Audio.SampleRate, speech.Audio.NumberOfChannels()); err != nil {
			return err
		}
		if err := os.WriteFile(speakFlags.out, buf.Bytes(), 0o644); err != nil {
			return err
		}

		duration := time.Duration(speech.Audio.Length()) * time.Second / time.Duration(speech.Audio.SampleRate)
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, voice %s, %s)\n", speakFlags.out, duration.Round(time.Millisecond), voice, voice.Description())
		return nil
	},
}

var videoCmd = &cobra.Command{
	Use:   "video <prompt>",
	Short: "Generate a video clip; this can take several minutes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}

		status := cmd.ErrOrStderr()
		blob, err := gw.GenerateVideo(cmd.Context(), strings.Join(args, " "), model.GenerationConfig{
			AspectRatio: videoFlags.aspectRatio,
			Resolution:  videoFlags.resolution,
		}, func(s string) {
			fmt.Fprintln(status, s)
		})
		if err != nil {
			return userError(err)
		}

		if err := os.WriteFile(videoFlags.out, blob.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %s)\n", videoFlags.out, len(blob.Data), blob.MIMEType)
		return nil
	},
}

func init() {
	imageCmd.Flags().StringVar(&imageFlags.out, "out", "", "write the PNG to this file")
	imageCmd.Flags().StringVar(&imageFlags.aspectRatio, "aspect-ratio", "", "aspect ratio (default 1:1)")

	speakCmd.Flags().StringVar(&speakFlags.voice, "voice", string(model.VoiceKore), "voice: Kore, Puck, Charon or Fenrir")
	speakCmd.Flags().StringVar(&speakFlags.out, "out", "speech.wav", "output WAV file")

	videoCmd.Flags().StringVar(&videoFlags.out, "out", "video.mp4", "output video file")
	videoCmd.Flags().StringVar(&videoFlags.aspectRatio, "aspect-ratio", "", "aspect ratio (default 16:9)")
	videoCmd.Flags().StringVar(&videoFlags.resolution, "resolution", "", "resolution (default 720p)")

	rootCmd.AddCommand(imageCmd, speakCmd, videoCmd)
}
