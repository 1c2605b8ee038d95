package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

var errBadInput = errors.New(`expected "row column", "reset" or "quit"`)

type console struct {
	game *tictactoe.Game
	out  io.Writer
}

func newConsole(game *tictactoe.Game, out io.Writer) *console {
	return &console{game: game, out: out}
}

// run - reads one command per line until quit or end of input.
func (that *console) run(in io.Reader) error {
	that.show()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Fprintln(that.out, "bye")
			return nil
		case "r", "reset":
			that.game.ResetRound()
			that.show()
			continue
		}

		row, column, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(that.out, err)
			continue
		}

		that.play(row, column)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *console) play(row, column int) {
	moved, err := that.game.PlayRound(row, column)

	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		fmt.Fprintln(that.out, `game is over, type "reset" or "quit"`)
		return
	case errors.Is(err, apperror.ErrOutOfRange):
		fmt.Fprintf(that.out, "row and column must be between 0 and %d\n", tictactoe.Size-1)
		return
	case err != nil:
		fmt.Fprintln(that.out, err)
		return
	case !moved:
		fmt.Fprintln(that.out, "that cell is taken, pick another")
		return
	}

	that.show()
}

func (that *console) show() {
	renderBoard(that.out, that.game.Snapshot())
	fmt.Fprintln(that.out, that.game.StatusMessage())
}

func parseMove(line string) (int, int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) != 2 {
		return 0, 0, errBadInput
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, errBadInput
	}

	column, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, errBadInput
	}

	return row, column, nil
}
