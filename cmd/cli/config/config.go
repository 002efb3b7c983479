package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:4001"

const sessionFileName = ".taskboard_session"

// ErrNoSession is returned by LoadSession when nobody is logged in.
var ErrNoSession = errors.New("not logged in: run `taskctl login` first")

// APIURL returns the base URL for the taskboard API.
// It can be overridden with the TASKBOARD_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("TASKBOARD_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// Session is what login leaves behind for later commands.
type Session struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	Token    string `json:"token"`
}

// SessionPath is ~/.taskboard_session.
func SessionPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(dir, sessionFileName), nil
}

// SaveSession writes s readable only by the current user.
func SaveSession(s Session) error {
	path, err := SessionPath()
	if err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func LoadSession() (Session, error) {
	var s Session
	path, err := SessionPath()
	if err != nil {
		return s, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, ErrNoSession
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// ClearSession removes the session file. It reports false when there was none.
func ClearSession() (bool, error) {
	path, err := SessionPath()
	if err != nil {
		return false, err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
