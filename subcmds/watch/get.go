// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"context"
	"flag"
	"fmt"

	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/subcmds/cmdutil"
)

type Get struct {
	cmdutil.ClientFlags
}

func (c *Get) Purpose() string {
	return "Prints details of a price watch"
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "get", fset, cli.CmdFunc(c.run)
}

func (c *Get) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (game id or name) argument")
	}
	resp, err := cmdutil.Post[api.WatchGetResponse](ctx, &c.ClientFlags, api.WatchGetPath, &api.WatchGetRequest{IDOrName: args[0]})
	if err != nil {
		return err
	}

	w := resp.Watch
	fmt.Printf("id: %s\n", w.ID)
	fmt.Printf("name: %s\n", w.Name)
	fmt.Printf("type: %s\n", w.Type)
	if w.TargetValue != nil {
		fmt.Printf("target: %s\n", w.TargetValue.String())
	}
	fmt.Printf("schedule: %s\n", w.Schedule)
	fmt.Printf("country: %s\n", w.Country)
	fmt.Printf("platform: %s\n", w.Platform)
	return nil
}
