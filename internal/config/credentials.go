package config

import (
	"fmt"
	"os"
	"strings"
)

// MissingCredentialError reports a required API key that is not set.
type MissingCredentialError struct {
	Name string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s is not set in the environment or .env file.", e.Name)
}

// RequireEnv returns the trimmed value of name or a *MissingCredentialError.
func RequireEnv(name string) (string, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return "", &MissingCredentialError{Name: name}
	}
	return v, nil
}

func RequireOpenAIKey() (string, error) { return RequireEnv(EnvOpenAIKey) }

func RequireGeminiKey() (string, error) { return RequireEnv(EnvGeminiKey) }
