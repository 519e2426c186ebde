// Copyright (c) 2025 BVK Chaitanya

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

type Update struct {
	cmdutil.ClientFlags

	name        string
	watchType   string
	schedule    string
	country     string
	platform    string
	target      string
	clearTarget bool
}

func (c *Update) Purpose() string {
	return "Updates fields of an existing price watch"
}

func (c *Update) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("update", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.name, "name", "", "new game name")
	fset.StringVar(&c.watchType, "type", "", "new watch type")
	fset.StringVar(&c.schedule, "schedule", "", "new cron expression")
	fset.StringVar(&c.country, "country", "", "new two-letter country code")
	fset.StringVar(&c.platform, "platform", "", "new game platform")
	fset.StringVar(&c.target, "target", "", "new target price or discount percentage")
	fset.BoolVar(&c.clearTarget, "clear-target", false, "removes the target value")
	return "update", fset, cli.CmdFunc(c.run)
}

func (c *Update) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (game id) argument")
	}

	req := &api.WatchUpdateRequest{
		ID:               args[0],
		ClearTargetValue: c.clearTarget,
	}
	if len(c.name) != 0 {
		req.Name = &c.name
	}
	if len(c.watchType) != 0 {
		req.Type = &c.watchType
	}
	if len(c.schedule) != 0 {
		req.Schedule = &c.schedule
	}
	if len(c.country) != 0 {
		req.Country = &c.country
	}
	if len(c.platform) != 0 {
		req.Platform = &c.platform
	}
	if len(c.target) != 0 {
		target, err := decimal.NewFromString(c.target)
		if err != nil {
			return fmt.Errorf("invalid target value %q: %w", c.target, err)
		}
		req.TargetValue = &target
	}

	resp, err := cmdutil.Post[api.WatchUpdateResponse](ctx, &c.ClientFlags, api.WatchUpdatePath, req)
	if err != nil {
		return err
	}
	fmt.Printf("updated watch for %q\n", resp.Watch.Name)
	return nil
}
