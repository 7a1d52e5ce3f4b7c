package console

import (
	"bufio"
	"io"
)

// Prompt writes the prompt and reads one line of input. The reader is
// shared across the session so buffered bytes survive between prompts.
func Prompt(w io.Writer, r *bufio.Reader, prompt string) (string, error) {
	if _, err := w.Write([]byte(prompt)); err != nil {
		return "", err
	}

	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}
