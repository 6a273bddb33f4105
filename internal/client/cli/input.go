package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Swapped out in tests.
var (
	readPassword = term.ReadPassword
	askPassword  = askSecret
)

// readLine returns the next line without its line ending. A final line
// without a newline is returned as is; io.EOF is reported only when nothing
// was read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask shows prompt followed by a "> " marker and returns the trimmed answer.
func ask(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprintf(w, "%s\n> ", prompt)
	line, err := readLine(r)
	return strings.TrimSpace(line), err
}

func askSecret(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// askMultiline collects lines up to the first empty one (or EOF) and joins
// them with "\n".
func askMultiline(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprintf(w, "%s\n(press Enter on an empty line to finish)\n", prompt)

	var lines []string
	for {
		line, err := readLine(r)
		if err != nil {
			if len(lines) == 0 {
				return "", err
			}
			break
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// askYesNo treats anything but y/yes as no.
func askYesNo(r *bufio.Reader, w io.Writer, prompt string) (bool, error) {
	s, err := ask(r, w, prompt)
	if err != nil {
		return false, err
	}
	s = strings.ToLower(s)
	return s == "y" || s == "yes", nil
}

// lineReader hands out at most one line per Read, so a bufio.Scanner on top
// of it never buffers input that the prompt helpers still need to see.
type lineReader struct {
	r       *bufio.Reader
	pending []byte
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.pending = line
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
