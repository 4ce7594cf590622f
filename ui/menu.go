package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/protocol"
)

const (
	menuPrompt = "Menu: [h]elp [n]ew, [p]rint, [m]ove, [s]ave, [l]oad, [q]uit? "
	winMessage = "\nWinner winner Chicken Dinner.\n"

	helpText = `
--------------------- Game Manual ---------------------
  [h]elp:  Show this manual
  [n]ew:   Ask for a size and start over with a new board of that size
  [p]rint: Show the current board
  [m]ove:  Ask for a tile and slide it into the blank if it is next to it
  [s]ave:  Save the current board to a file
  [l]oad:  Replace the board with a saved one
  [q]uit:  Quit the game
-------------------------------------------------------
`
)

// Game is the request surface the menu drives
type Game interface {
	New(size int) (bool, error)
	Move(tile int) (bool, error)
	Load(name string) (bool, error)
	Save(name string) (bool, error)
	CheckWin() (bool, error)
	FetchBoard() (protocol.Board, error)
}

// Menu runs the interactive loop against a Game
type Menu struct {
	game   Game
	words  *bufio.Scanner
	out    io.Writer
	errOut io.Writer
}

// NewMenu creates a menu reading commands from in. Normal output goes to out
// and failure messages to errOut.
func NewMenu(game Game, in io.Reader, out, errOut io.Writer) *Menu {
	words := bufio.NewScanner(in)
	words.Split(bufio.ScanWords)
	return &Menu{game: game, words: words, out: out, errOut: errOut}
}

// Run loops until the user quits, input ends or ctx is cancelled. Only
// channel failures are returned as errors.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		won, err := m.game.CheckWin()
		if err != nil {
			return err
		}
		if won {
			fmt.Fprint(m.out, winMessage)
		}

		fmt.Fprint(m.out, menuPrompt)
		word, ok := m.next()
		if !ok {
			fmt.Fprintln(m.out)
			return m.words.Err()
		}

		quit, err := m.dispatch(word[0])
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (m *Menu) dispatch(cmd byte) (quit bool, err error) {
	switch cmd {
	case 'h':
		fmt.Fprint(m.out, helpText)
	case 'n':
		err = m.newGame()
	case 'p':
		err = m.print()
	case 'm':
		err = m.move()
	case 's':
		err = m.save()
	case 'l':
		err = m.load()
	case 'q':
		fmt.Fprintln(m.out, "Ending the game")
		return true, nil
	default:
		fmt.Fprintln(m.out, "Invalid input! Please enter one of the characters in the menu option...")
	}
	return false, err
}

func (m *Menu) newGame() error {
	fmt.Fprintf(m.out, "Please input an integer (%d-%d) for the size of your gameboard!\n",
		engine.MinBoardSize, engine.MaxBoardSize)

	size, ok := m.nextInt()
	if !ok {
		fmt.Fprintf(m.errOut, "Invalid gameboard size. Size must be between %d & %d.\n",
			engine.MinBoardSize, engine.MaxBoardSize)
		return nil
	}

	created, err := m.game.New(size)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintln(m.out, "New board Successfully created.")
	} else {
		fmt.Fprintf(m.errOut, "Invalid gameboard size. Size must be between %d & %d.\n",
			engine.MinBoardSize, engine.MaxBoardSize)
	}
	return nil
}

func (m *Menu) print() error {
	board, err := m.game.FetchBoard()
	if err != nil {
		return err
	}
	fmt.Fprint(m.out, "\n Current Game Board.... \n")
	fmt.Fprint(m.out, board.String())
	fmt.Fprintln(m.out)
	return nil
}

func (m *Menu) move() error {
	fmt.Fprint(m.out, "Which tile would you like to move? ")

	tile, ok := m.nextInt()
	if !ok {
		fmt.Fprintln(m.errOut, "Invalid Tile move")
		return nil
	}

	moved, err := m.game.Move(tile)
	if err != nil {
		return err
	}
	if moved {
		fmt.Fprintln(m.out, "Tile Successfully Moved")
	} else {
		fmt.Fprintln(m.errOut, "Invalid Tile move")
	}
	return nil
}

func (m *Menu) save() error {
	name, ok := m.filename()
	if !ok {
		return nil
	}

	saved, err := m.game.Save(name)
	if err != nil {
		return err
	}
	if saved {
		fmt.Fprintln(m.out, "Progress Successfully Saved")
	} else {
		fmt.Fprintln(m.errOut, "An Error Occurred with saving the file")
	}
	return nil
}

func (m *Menu) load() error {
	name, ok := m.filename()
	if !ok {
		return nil
	}

	loaded, err := m.game.Load(name)
	if err != nil {
		return err
	}
	if loaded {
		fmt.Fprintln(m.out, "Progress Successfully Loaded")
	} else {
		fmt.Fprintln(m.errOut, "An Error Occurred with loading the file")
	}
	return nil
}

func (m *Menu) filename() (string, bool) {
	fmt.Fprintf(m.out, "Input filename (%d characters max)\n", protocol.MaxFilenameLen)
	return m.next()
}

func (m *Menu) next() (string, bool) {
	if !m.words.Scan() {
		return "", false
	}
	return m.words.Text(), true
}

// nextInt consumes one word and parses it as an int32, the width of the wire
// field. A non-number or out-of-range word is consumed anyway.
func (m *Menu) nextInt() (int, bool) {
	word, ok := m.next()
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
