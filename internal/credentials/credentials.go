// Package credentials loads the API secrets the service needs from local YAML files.
// Secrets are read once at startup and never refreshed.
package credentials

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/fleveque/quote-service/internal/config"
)

// ErrMissingCredential is returned when a credentials file has no value for a required key.
var ErrMissingCredential = errors.New("missing credential")

// Credentials holds the secrets for the text-generation and image-search services.
// OpenAI and the image-search key are required; Anthropic and Gemini are optional
// and only enable the models served by those backends.
type Credentials struct {
	OpenAIKey      string
	AnthropicKey   string
	GeminiKey      string
	ImageSearchKey string
}

// Load reads both credentials files named in cfg. Any missing file, unparseable
// file, or missing required key is an error; callers treat it as fatal.
func Load(cfg config.CredentialsConfig) (*Credentials, error) {
	textFile, err := readFile(cfg.TextGenerationFile)
	if err != nil {
		return nil, fmt.Errorf("reading text generation credentials: %w", err)
	}

	imageFile, err := readFile(cfg.ImageSearchFile)
	if err != nil {
		return nil, fmt.Errorf("reading image search credentials: %w", err)
	}

	creds := &Credentials{
		OpenAIKey:      textFile.GetString(cfg.OpenAIKey),
		AnthropicKey:   textFile.GetString(cfg.AnthropicKey),
		GeminiKey:      textFile.GetString(cfg.GeminiKey),
		ImageSearchKey: imageFile.GetString(cfg.ImageSearchKey),
	}

	if creds.OpenAIKey == "" {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingCredential, cfg.OpenAIKey, cfg.TextGenerationFile)
	}
	if creds.ImageSearchKey == "" {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingCredential, cfg.ImageSearchKey, cfg.ImageSearchFile)
	}

	return creds, nil
}

// readFile parses one YAML mapping. A fresh viper instance per file keeps the
// two files' keys from shadowing each other.
func readFile(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
