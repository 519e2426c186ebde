// Copyright (c) 2025 BVK Chaitanya

// Package setup implements subcommands to configure service credentials.
package setup

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/itad"
	"github.com/bvk/dealbot/server"
)

type ITAD struct {
	dataDir     string
	skipTesting bool

	apiKey string
}

func (c *ITAD) Purpose() string {
	return "Setup configures the IsThereAnyDeal service API key"
}

func (c *ITAD) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("itad", flag.ContinueOnError)
	fset.StringVar(&c.dataDir, "data-dir", "", "path to the data directory")
	fset.StringVar(&c.apiKey, "api-key", "", "IsThereAnyDeal service API key")
	fset.BoolVar(&c.skipTesting, "skip-testing", false, "don't test the parameters")
	return "itad", fset, cli.CmdFunc(c.run)
}

func (c *ITAD) Description() string {
	return `

Command "itad" saves the IsThereAnyDeal service API key, which is required
to look up game prices. An API key can be created for free at
https://isthereanydeal.com/apps/.

  $ dealbot setup itad --api-key=2fa1...79de

`
}

func (c *ITAD) run(ctx context.Context, args []string) error {
	if len(c.dataDir) == 0 {
		c.dataDir = filepath.Join(os.Getenv("HOME"), ".dealbot")
	}
	if _, err := os.Stat(c.dataDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not stat data directory %q: %w", c.dataDir, err)
		}
		if err := os.MkdirAll(c.dataDir, 0700); err != nil {
			return fmt.Errorf("could not create data directory %q: %w", c.dataDir, err)
		}
	}
	dataDir, err := filepath.Abs(c.dataDir)
	if err != nil {
		return fmt.Errorf("could not determine data-dir %q absolute path: %w", c.dataDir, err)
	}

	secretsPath := filepath.Join(dataDir, "secrets.json")
	secrets, err := server.SecretsFromFile(secretsPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if secrets == nil {
		secrets = &server.Secrets{}
	}

	secrets.ITAD = &itad.Credentials{
		Key: c.apiKey,
	}
	if err := secrets.Check(); err != nil {
		return err
	}

	if !c.skipTesting {
		// Resolve a well-known title to validate the key.
		client, err := itad.New(secrets.ITAD.Key, nil)
		if err != nil {
			return err
		}
		if _, err := client.ResolveID(ctx, "Portal"); err != nil {
			return fmt.Errorf("could not verify the api key: %w", err)
		}
	}

	js, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(secretsPath, js, os.FileMode(0600)); err != nil {
		return err
	}
	return nil
}
