package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aide/internal/listener"
	"aide/internal/logger"
	"aide/internal/orchestrator"
)

var orc *orchestrator.Orchestrator

var rootCmd = &cobra.Command{
	Use:   "aide",
	Short: "A deterministic conversational assistant for web extraction missions",
	Long: `aide turns chat messages into explicit, approvable missions. Commands that
are missing a target or object get a clarifying question instead of a guess;
complete commands get a restated mission that runs only after you say yes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listener.Init(); err != nil {
			fmt.Println("Failed to init terminal input:", err)
			os.Exit(1)
		}
		defer listener.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sessionID := uuid.New().String()[:8]
		logger.Log.Infof("session %s started", sessionID)

		listener.Println("Hello! Tell me what to do, e.g. \"extract the titles from example.com\". (type 'exit' or press Ctrl+D to quit)")

		for {
			input, err := listener.GetInput()
			if err != nil {
				break
			}
			if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
				break
			}
			if input == "" {
				continue
			}

			resp := orc.ProcessMessage(ctx, sessionID, input)
			listener.Println(resp.Message)

			if ctx.Err() != nil {
				break
			}
		}
		fmt.Println("Goodbye!")
	},
}

// Execute runs the chat loop against the given dispatcher.
func Execute(o *orchestrator.Orchestrator) {
	orc = o
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
