package auth

import (
	"strings"

	"github.com/chzyer/readline"
)

// promptLine reads one line from the terminal.
func promptLine(label string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: label})
	if err != nil {
		return "", err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a line without echoing it.
func promptPassword(label string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{})
	if err != nil {
		return "", err
	}
	defer rl.Close()

	pw, err := rl.ReadPassword(label)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// credentials fills in whichever of username and password were not given as flags.
func credentials(username, password string) (string, string, error) {
	var err error
	if username == "" {
		if username, err = promptLine("Username: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = promptPassword("Password: "); err != nil {
			return "", "", err
		}
	}
	return username, password, nil
}
