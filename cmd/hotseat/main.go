// Command hotseat plays tic-tac-toe for two people sharing one terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

func newRootCmd() *cobra.Command {
	one, two := tictactoe.DefaultPlayers()

	var (
		oneName, oneMark string
		twoName, twoMark string
	)

	cmd := &cobra.Command{
		Use:          "hotseat",
		Short:        "Two-player tic-tac-toe on one terminal",
		Long:         "Players take turns entering \"row column\" (0-2 each). Type \"reset\" for a new round or \"quit\" to leave.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			game, err := tictactoe.NewGame(
				tictactoe.Player{Name: oneName, Mark: tictactoe.Mark(oneMark)},
				tictactoe.Player{Name: twoName, Mark: tictactoe.Mark(twoMark)},
			)
			if err != nil {
				return fmt.Errorf("failed to set up players: %w", err)
			}

			return newConsole(game, cmd.OutOrStdout()).run(cmd.InOrStdin())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&oneName, "player-one-name", one.Name, "name of the player who moves first")
	flags.StringVar(&oneMark, "player-one-mark", string(one.Mark), "mark of the player who moves first")
	flags.StringVar(&twoName, "player-two-name", two.Name, "name of the second player")
	flags.StringVar(&twoMark, "player-two-mark", string(two.Mark), "mark of the second player")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
