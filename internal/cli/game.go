package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordchain-go/internal/api/response"
)

func newJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join a game, creating it if needed",
		Long: `Join a game by id. The first player to join creates the game and becomes host.
The returned player id is saved in the state directory and used by later commands.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID := args[0]

			var result ActionResult
			if err := client.Action(cmd.Context(), gameID, "join_game", map[string]string{"name": name}, &result); err != nil {
				return err
			}

			if err := cfg.SavePlayer(gameID, result.PlayerID); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// newPlayerActionCmd builds a command that sends an action on behalf of the saved player
func newPlayerActionCmd(use, short, action string, extra func(args []string) map[string]string, nargs int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID := args[0]

			playerID, err := cfg.ResolvePlayer(gameID)
			if err != nil {
				return err
			}

			payload := map[string]string{"player_id": playerID}
			if extra != nil {
				for k, v := range extra(args) {
					payload[k] = v
				}
			}

			var result ActionResult
			if err := client.Action(cmd.Context(), gameID, action, payload, &result); err != nil {
				return err
			}

			if action == "leave_game" {
				if err := cfg.ForgetPlayer(gameID); err != nil {
					return err
				}
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newStartCmd() *cobra.Command {
	return newPlayerActionCmd("start <game-id>", "Start or restart the round (host only)", "start_game", nil, 1)
}

func newSubmitCmd() *cobra.Command {
	return newPlayerActionCmd("submit <game-id> <word>", "Submit the next word on your turn", "submit_word",
		func(args []string) map[string]string { return map[string]string{"word": args[1]} }, 2)
}

func newTimeoutCmd() *cobra.Command {
	return newPlayerActionCmd("timeout <game-id>", "Report that the turn timer ran out", "timeout", nil, 1)
}

func newLeaveCmd() *cobra.Command {
	return newPlayerActionCmd("leave <game-id>", "Leave a game", "leave_game", nil, 1)
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Room
			if err := client.Get(cmd.Context(), GamePath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RoomList
			if err := client.Get(cmd.Context(), "/api/v1/games", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newRoundsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rounds <game-id>",
		Short: "Show finished rounds, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := GamePath(args[0], "/rounds")
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result response.RoundList
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rounds to show")

	return cmd
}
