// Command coldclear-cli is a readline-driven demo client exercising the
// entire client boundary interactively, grounded on
// domino14-macondo/shell/shell.go's ShellController.Loop and
// domino14-macondo/bot/shell.go's command-switch shape, tokenizing input
// with github.com/kballard/go-shellquote exactly as macondo's shell
// autocomplete does.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/client"
	"github.com/MinusKelvin/cold-clear/config"
	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/piece"
)

type session struct {
	handle *client.Handle
}

func main() {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mcoldclear>\033[0m ",
		HistoryFile:     "/tmp/coldclear-cli.history",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	s := &session{}
	defer func() {
		if s.handle != nil {
			s.handle.Destroy()
		}
	}()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields, err := shellquote.Split(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		if err := s.dispatch(fields); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	log.Debug().Msg("exiting coldclear-cli")
}

func (s *session) dispatch(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "launch":
		if err := s.launch(fields[1:]); err != nil {
			return err
		}
		fmt.Println("launched")
	case "add":
		return s.add(fields[1:])
	case "request":
		return s.request(fields[1:])
	case "poll":
		s.poll()
	case "block":
		s.block()
	case "reset":
		if err := s.reset(); err != nil {
			return err
		}
		fmt.Println("reset")
	case "stats":
		return s.stats()
	case "destroy":
		if s.handle != nil {
			s.handle.Destroy()
			s.handle = nil
		}
		fmt.Println("destroyed")
	case "quit", "exit":
		os.Exit(0)
	default:
		return fmt.Errorf("unknown command %q (try: launch, add, request, poll, block, reset, stats, destroy, quit)", fields[0])
	}
	return nil
}

// launch starts a fresh bot. With a trailing "--weights-script <path>"
// argument, weight overrides are read from a Lua script via
// config.LoadWeightsScript instead of using the standard defaults.
func (s *session) launch(args []string) error {
	if s.handle != nil {
		s.handle.Destroy()
	}
	opts := config.DefaultOptions()
	opts.MinNodes = 0

	weights := eval.StandardWeights()
	if len(args) == 2 && args[0] == "--weights-script" {
		w, err := config.LoadWeightsScript(args[1], weights)
		if err != nil {
			return err
		}
		weights = w
	}

	s.handle = client.Launch(opts, weights)
	return nil
}

// reset discards the current search tree and starts over from an empty
// board on the already-launched handle, exercising client.Handle.Reset
// the way spec.md §6's reset barrier is meant to be driven.
func (s *session) reset() error {
	if s.handle == nil {
		return fmt.Errorf("no bot launched; run 'launch' first")
	}
	var empty [board.Width * board.VisibleHeight]bool
	s.handle.Reset(empty, false, 0)
	return nil
}

// stats prints the spread of backed-up values across the root's
// children, a quick read on how confident the search is in its current
// top move.
func (s *session) stats() error {
	if s.handle == nil {
		return fmt.Errorf("no bot launched; run 'launch' first")
	}
	mean, stddev, ok := s.handle.RootChildStats()
	if !ok {
		fmt.Println("stats: not enough of the root expanded yet")
		return nil
	}
	fmt.Printf("stats: mean=%.2f stddev=%.2f\n", mean, stddev)
	return nil
}

var kindNames = map[string]piece.Kind{
	"I": piece.I, "O": piece.O, "T": piece.T,
	"L": piece.L, "J": piece.J, "S": piece.S, "Z": piece.Z,
}

func (s *session) add(args []string) error {
	if s.handle == nil {
		return fmt.Errorf("no bot launched; run 'launch' first")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: add <I|O|T|L|J|S|Z>")
	}
	k, ok := kindNames[strings.ToUpper(args[0])]
	if !ok {
		return fmt.Errorf("unknown piece kind %q", args[0])
	}
	s.handle.AddNextPiece(k)
	return nil
}

func (s *session) request(args []string) error {
	if s.handle == nil {
		return fmt.Errorf("no bot launched; run 'launch' first")
	}
	garbage := 0
	if len(args) == 1 {
		g, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("garbage must be an integer: %w", err)
		}
		garbage = g
	}
	return s.handle.RequestNextMove(garbage)
}

func (s *session) poll() {
	if s.handle == nil {
		fmt.Println("no bot launched")
		return
	}
	printResult(s.handle.PollNextMove())
}

func (s *session) block() {
	if s.handle == nil {
		fmt.Println("no bot launched")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	printResult(s.handle.BlockNextMove(ctx))
}

func printResult(res client.PollResult) {
	switch res.State {
	case client.Waiting:
		fmt.Println("waiting")
	case client.Dead:
		fmt.Println("dead")
	case client.Provided:
		mv := res.Move
		fmt.Printf("move: hold=%v cells=%v spin=%v cleared=%d nodes=%d movements=%v\n",
			mv.Hold, zip(mv.ExpectedX, mv.ExpectedY), mv.Spin, mv.Cleared, mv.Nodes, mv.Movements)
		for i, step := range res.Plan {
			fmt.Printf("  plan[%d]: %v %v cells=%v\n", i, step.Kind, step.Spin, step.Cells)
		}
	}
}

func zip(xs, ys [4]int) [4][2]int {
	var out [4][2]int
	for i := range xs {
		out[i] = [2]int{xs[i], ys[i]}
	}
	return out
}
