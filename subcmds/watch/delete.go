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

type Delete struct {
	cmdutil.ClientFlags
}

func (c *Delete) Purpose() string {
	return "Deletes a price watch by game id or name"
}

func (c *Delete) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("delete", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "delete", fset, cli.CmdFunc(c.run)
}

func (c *Delete) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (game id or name) argument")
	}
	resp, err := cmdutil.Post[api.WatchDeleteResponse](ctx, &c.ClientFlags, api.WatchDeletePath, &api.WatchDeleteRequest{IDOrName: args[0]})
	if err != nil {
		return err
	}
	fmt.Printf("deleted watch for %q\n", resp.Watch.Name)
	return nil
}
