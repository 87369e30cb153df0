package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
)

// Input describes where the text comes from.
type Input struct {
	// Path of a file to read. Empty or "-" means stdin.
	Path string

	// Clipboard reads the system clipboard instead of a file or stdin.
	Clipboard bool

	// Stdin defaults to os.Stdin.
	Stdin *os.File
}

// Read returns the text for in. It fails with ErrNoInput when stdin is an
// interactive terminal and nothing else was given, and with ErrEmptyText
// when the text is blank.
func Read(in Input) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case in.Clipboard:
		text, err = clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("unable to read clipboard: %w", err)
		}
	case in.Path != "" && in.Path != "-":
		text, err = ExtractText(in.Path)
		if err != nil {
			return "", err
		}
	default:
		text, err = readStdin(in.Stdin)
		if err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func readStdin(f *os.File) (string, error) {
	if f == nil {
		f = os.Stdin
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return "", ErrNoInput
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("unable to read stdin: %w", err)
	}
	return string(data), nil
}
