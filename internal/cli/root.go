package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "wordchain",
		Short: "CLI tool for the word-chain game API",
		Long: `wordchain is a CLI tool for playing 끝말잇기 through the game's JSON API.

Join a game, take turns submitting words that start with the last character
of the previous word, and follow the game with the events command.
Player ids returned by join are remembered per game in the state directory.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: WORDCHAIN_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "Directory for saved player ids (env: WORDCHAIN_STATE_DIR)")
	rootCmd.PersistentFlags().StringVar(&cfg.PlayerID, "player", "", "Player id, overriding the saved one")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newTimeoutCmd())
	rootCmd.AddCommand(newLeaveCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRoundsCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
