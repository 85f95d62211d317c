package main

import (
	"fmt"
	"io"
	"sync"
)

// consoleUI prints the conversion narrative, colored on terminals.
type consoleUI struct {
	mu       sync.Mutex
	out      io.Writer
	colorize bool
}

func newConsoleUI(out io.Writer, colorize bool) *consoleUI {
	return &consoleUI{out: out, colorize: colorize}
}

func (u *consoleUI) Info(msg string)             { u.write("", msg) }
func (u *consoleUI) Success(msg string)          { u.write(ansiGreen, msg) }
func (u *consoleUI) Warning(msg string)          { u.write(ansiYellow, msg) }
func (u *consoleUI) Error(msg string)            { u.write(ansiRed, msg) }
func (u *consoleUI) ProcessingStatus(msg string) { u.write(ansiBlue, msg) }

func (u *consoleUI) write(color, msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.colorize && color != "" {
		fmt.Fprintln(u.out, color+msg+ansiReset)
		return
	}
	fmt.Fprintln(u.out, msg)
}
