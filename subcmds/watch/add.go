// Copyright (c) 2025 BVK Chaitanya

// Package watch implements subcommands to manage price watches.
package watch

import (
	"context"
	"flag"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/subcmds/cmdutil"
)

type Add struct {
	cmdutil.ClientFlags

	watchType string
	schedule  string
	country   string
	platform  string
	target    string
}

func (c *Add) Purpose() string {
	return "Adds a new price watch for a game"
}

func (c *Add) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("add", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.watchType, "type", "", `watch type: "all-time-low", "lower-than" or "discount"`)
	fset.StringVar(&c.schedule, "schedule", "0 9 * * *", "cron expression for the evaluation schedule")
	fset.StringVar(&c.country, "country", "", "two-letter country code (default US)")
	fset.StringVar(&c.platform, "platform", "", "game platform (default Windows)")
	fset.StringVar(&c.target, "target", "", "target price or discount percentage")
	return "add", fset, cli.CmdFunc(c.run)
}

func (c *Add) Description() string {
	return `

Command "add" registers a price watch for a game. The game name must match
the title known to the price tracking service.

  $ dealbot watch add -type=lower-than -target=20 "Hades II"
  $ dealbot watch add -type=all-time-low -schedule="0 9 * * 1" "Hades II"
  $ dealbot watch add -type=discount -target=50 "Hades II"

`
}

func (c *Add) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (game name) argument")
	}

	req := &api.WatchAddRequest{
		Name:     args[0],
		Type:     c.watchType,
		Schedule: c.schedule,
		Country:  c.country,
		Platform: c.platform,
	}
	if len(c.target) != 0 {
		target, err := decimal.NewFromString(c.target)
		if err != nil {
			return fmt.Errorf("invalid target value %q: %w", c.target, err)
		}
		req.TargetValue = &target
	}

	resp, err := cmdutil.Post[api.WatchAddResponse](ctx, &c.ClientFlags, api.WatchAddPath, req)
	if err != nil {
		return err
	}
	fmt.Printf("added %q watch for %q with game id %s\n", resp.Watch.Type, resp.Watch.Name, resp.Watch.ID)
	return nil
}
