/*
Copyright © 2024-2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/blacktop/bfl/pkg/client"
)

const (
	envAPIKey  = "BFL_API_KEY"
	envBaseURL = "BFL_BASE_URL"
)

// loadEnv loads the first .env file found in the working directory or the
// user config directory. Variables already set in the environment win.
func loadEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		if home, err := os.UserHomeDir(); err == nil {
			xdgConfig = filepath.Join(home, ".config")
		}
	}
	if xdgConfig != "" {
		if err := godotenv.Load(filepath.Join(xdgConfig, "bfl", ".env")); err == nil {
			return
		}
	}
	logger.Debug("No .env file found, using environment variables")
}

// clientConfig resolves flags and environment into a client.Config.
func clientConfig() (client.Config, error) {
	cfg := client.DefaultConfig()
	cfg.APIKey = apiToken
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envAPIKey)
	}
	if cfg.APIKey == "" {
		return cfg, errors.New(envAPIKey + " environment variable not set (or pass --api-token)")
	}
	switch {
	case baseURL != "":
		cfg.BaseURL = baseURL
	case os.Getenv(envBaseURL) != "":
		cfg.BaseURL = os.Getenv(envBaseURL)
	}
	if pollTimeout > 0 {
		cfg.PollTimeout = pollTimeout
	}
	return cfg, nil
}

func newClient() (*client.Client, error) {
	cfg, err := clientConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg, client.WithLogger(logger))
}
