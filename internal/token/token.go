// Package token loads the bot credential from disk.
package token

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrEmptyToken = errors.New("token file is empty")

// Load returns the first line of the file at path, trimmed. The file is read
// once at startup; a missing file or an empty first line is an error.
func Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read token file: %w", err)
		}
		return "", fmt.Errorf("%s: %w", path, ErrEmptyToken)
	}

	tok := strings.TrimSpace(sc.Text())
	if tok == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyToken)
	}
	return tok, nil
}
