// Package listener owns the interactive terminal line editor. Approval and
// clarification replies arrive as ordinary chat lines, so the surface is
// just: read a line, print a block.
package listener

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

var rl *readline.Instance
var mu sync.Mutex

// ErrClosed is returned by GetInput on Ctrl-D or a closed terminal.
var ErrClosed = errors.New("listener: input closed")

func Init() error {
	var err error
	rl, err = readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	return err
}

func Close() {
	if rl != nil {
		_ = rl.Close()
	}
}

// GetInput blocks for the next line. A Ctrl-C on a non-empty line clears it
// and reads again; on an empty line it closes the session.
func GetInput() (string, error) {
	if rl == nil {
		return "", ErrClosed
	}
	for {
		line, err := rl.Readline()
		switch {
		case err == nil:
			return strings.TrimSpace(line), nil
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) > 0 {
				continue
			}
			return "", ErrClosed
		case errors.Is(err, io.EOF):
			return "", ErrClosed
		default:
			return "", err
		}
	}
}

// Println writes a block above the prompt and redraws it.
func Println(s string) {
	mu.Lock()
	defer mu.Unlock()
	if rl == nil {
		fmt.Println(s)
		return
	}
	_, _ = rl.Write([]byte(s + "\r\n"))
	rl.Refresh()
}
