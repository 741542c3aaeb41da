package credential

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/apimgr/hostscout/src/model"
)

// Prompt asks for an API key on out and reads it from in. Input is not
// echoed when in is a terminal.
func Prompt(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter your Shodan API key: ")

	var key string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		key = string(b)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		key = line
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", model.ErrMissingAPIKey
	}
	return key, nil
}

// Resolve loads the key, prompting and saving it when none is stored.
// A broken key file is returned as is and never triggers a prompt.
func Resolve(s *Store, in io.Reader, out io.Writer) (string, error) {
	key, _, err := s.Load()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, model.ErrMissingAPIKey) {
		return "", err
	}
	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) {
		return "", err
	}

	key, err = Prompt(in, out)
	if err != nil {
		return "", err
	}
	if err := s.Save(key); err != nil {
		return "", err
	}
	fmt.Fprintf(out, "API key saved to %s\n", s.Path)
	return key, nil
}
