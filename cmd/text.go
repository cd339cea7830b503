package cmd

import (
	"fmt"
	"strings"

	"github.com/compustack/aether/pkg/crm"
	"github.com/compustack/aether/pkg/model"
	"github.com/spf13/cobra"
)

const assistantInstruction = "You are Aether, a sophisticated AI assistant. Keep responses helpful and concise."

var askFlags struct {
	system string
}

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send one prompt and print the full answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}
		text, err := gw.Ask(cmd.Context(), strings.Join(args, " "), model.GenerationConfig{SystemInstruction: askFlags.system})
		if err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Stream the assistant's reply to one message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		shown := ""
		_, err = gw.Chat(cmd.Context(), strings.Join(args, " "), model.GenerationConfig{SystemInstruction: assistantInstruction}, func(text string) {
			// Each value replaces the previous one; print only what was added.
			if strings.HasPrefix(text, shown) {
				fmt.Fprint(out, text[len(shown):])
			} else {
				fmt.Fprint(out, "\n"+text)
			}
			shown = text
		})
		fmt.Fprintln(out)
		if err != nil {
			return userError(err)
		}
		return nil
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights [question]",
	Short: "Ask for business recommendations based on the CRM dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}
		prompt := newWorkspace().InsightsPrompt(strings.Join(args, " "))
		text, err := gw.Ask(cmd.Context(), prompt, model.GenerationConfig{SystemInstruction: crm.InsightsInstruction})
		if err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askFlags.system, "system", "", "system instruction")
	rootCmd.AddCommand(askCmd, chatCmd, insightsCmd)
}
