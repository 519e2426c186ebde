// Copyright (c) 2025 BVK Chaitanya

package main

import (
	"context"
	"log"
	"os"

	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/subcmds"
	"github.com/bvk/dealbot/subcmds/db"
	"github.com/bvk/dealbot/subcmds/price"
	"github.com/bvk/dealbot/subcmds/setup"
	"github.com/bvk/dealbot/subcmds/watch"
)

func main() {
	watchCmds := []cli.Command{
		new(watch.Add),
		new(watch.List),
		new(watch.Get),
		new(watch.Update),
		new(watch.Delete),
		new(watch.Schedule),
	}

	priceCmds := []cli.Command{
		new(price.Lowest),
		new(price.AllTimeLow),
		new(price.Deals),
	}

	dbCmds := []cli.Command{
		new(db.Get),
		new(db.List),
		new(db.Delete),
	}

	setupCmds := []cli.Command{
		new(setup.ITAD),
		new(setup.Telegram),
		new(setup.PushOver),
	}

	cmds := []cli.Command{
		new(subcmds.Run),
		new(subcmds.Status),
		cli.NewGroup("watch", "Manage price watches", watchCmds...),
		cli.NewGroup("price", "Query game prices directly", priceCmds...),
		cli.NewGroup("db", "View/update database directly", dbCmds...),
		cli.NewGroup("setup", "Configure service credentials", setupCmds...),
	}
	if err := cli.Run(context.Background(), cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
