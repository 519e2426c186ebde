// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/telegram"
)

// defaultSchedule is used when a bot user registers a watch without a cron
// expression.
const defaultSchedule = "0 9 * * *"

func (s *Server) addTelegramCommands(ctx context.Context) error {
	cmds := []struct {
		name    string
		purpose string
		handler telegram.CmdFunc
	}{
		{"add_watch", "Adds a price watch: add_watch \"<game>\" <type> [target] [cron expression]", s.addWatchCmd},
		{"update_watch", "Updates a watch field: update_watch \"<game>\" <field> <value>", s.updateWatchCmd},
		{"delete_watch", "Deletes a watch: delete_watch \"<game>\"", s.deleteWatchCmd},
		{"all_games", "Lists all watched game names", s.allGamesCmd},
		{"list_all", "Lists all watches with their details", s.listAllCmd},
		{"game_info", "Prints game metadata: game_info \"<game>\"", s.gameInfoCmd},
		{"get_schedule", "Prints a watch schedule: get_schedule \"<game>\"", s.getScheduleCmd},
		{"get_lowest", "Prints the lowest current price: get_lowest \"<game>\" [country] [platform]", s.getLowestCmd},
		{"get_all_time_low", "Prints the all-time low price: get_all_time_low \"<game>\" [country]", s.getAllTimeLowCmd},
		{"get_best_deal", "Prints the best current deal: get_best_deal \"<game>\" [country] [platform]", s.getBestDealCmd},
	}
	for _, c := range cmds {
		if err := s.telegramClient.AddCommand(ctx, c.name, c.purpose, c.handler); err != nil {
			return fmt.Errorf("could not add %q command: %w", c.name, err)
		}
	}
	return nil
}

func (s *Server) addWatchCmd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("needs a game name and a watch type: %w", os.ErrInvalid)
	}
	req := &api.WatchAddRequest{
		Name: args[0],
		Type: args[1],
	}
	rest := args[2:]

	typ, err := parseType(req.Type)
	if err != nil {
		return err
	}
	if typ.NeedsTarget() {
		if len(rest) == 0 {
			return fmt.Errorf("%q watches need a target value: %w", typ, os.ErrInvalid)
		}
		target, err := decimal.NewFromString(rest[0])
		if err != nil {
			return fmt.Errorf("invalid target value %q: %w", rest[0], err)
		}
		req.TargetValue = &target
		rest = rest[1:]
	}

	req.Schedule = defaultSchedule
	if len(rest) > 0 {
		req.Schedule = strings.Join(rest, " ")
	}

	resp, err := s.doWatchAdd(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.Stdout(ctx), "Added %q watch for %q with schedule %q", resp.Watch.Type, resp.Watch.Name, resp.Watch.Schedule)
	return nil
}

func (s *Server) updateWatchCmd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("needs a game name, a field name and a value: %w", os.ErrInvalid)
	}
	w, err := s.resolveWatch(ctx, args[0])
	if err != nil {
		return err
	}

	req := &api.WatchUpdateRequest{ID: w.ID}
	field, values := strings.ToLower(args[1]), args[2:]
	value := strings.Join(values, " ")
	switch field {
	case "name":
		req.Name = &value
	case "type":
		req.Type = &value
	case "schedule":
		req.Schedule = &value
	case "country":
		req.Country = &value
	case "platform":
		req.Platform = &value
	case "target":
		target, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("invalid target value %q: %w", value, err)
		}
		req.TargetValue = &target
	case "clear-target":
		req.ClearTargetValue = true
	default:
		return fmt.Errorf("unknown field %q: %w", field, os.ErrInvalid)
	}
	if field != "clear-target" && len(value) == 0 {
		return fmt.Errorf("field %q needs a value: %w", field, os.ErrInvalid)
	}

	resp, err := s.doWatchUpdate(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.Stdout(ctx), "Updated watch for %q", resp.Watch.Name)
	return nil
}

func (s *Server) deleteWatchCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs a game name: %w", os.ErrInvalid)
	}
	resp, err := s.doWatchDelete(ctx, &api.WatchDeleteRequest{IDOrName: args[0]})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.Stdout(ctx), "Deleted watch for %q", resp.Watch.Name)
	return nil
}

func (s *Server) allGamesCmd(ctx context.Context, args []string) error {
	resp, err := s.doWatchList(ctx, &api.WatchListRequest{})
	if err != nil {
		return err
	}
	stdout := cli.Stdout(ctx)
	if len(resp.Watches) == 0 {
		fmt.Fprint(stdout, "No games are being watched")
		return nil
	}
	for _, w := range resp.Watches {
		fmt.Fprintln(stdout, w.Name)
	}
	return nil
}

func (s *Server) listAllCmd(ctx context.Context, args []string) error {
	resp, err := s.doWatchList(ctx, &api.WatchListRequest{})
	if err != nil {
		return err
	}
	stdout := cli.Stdout(ctx)
	if len(resp.Watches) == 0 {
		fmt.Fprint(stdout, "No games are being watched")
		return nil
	}
	for _, w := range resp.Watches {
		if w.TargetValue != nil {
			fmt.Fprintf(stdout, "%s: %s %s (%s, %s) schedule %q\n", w.Name, w.Type, w.TargetValue.String(), w.Country, w.Platform, w.Schedule)
		} else {
			fmt.Fprintf(stdout, "%s: %s (%s, %s) schedule %q\n", w.Name, w.Type, w.Country, w.Platform, w.Schedule)
		}
	}
	return nil
}

func (s *Server) gameInfoCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs a game name: %w", os.ErrInvalid)
	}
	id, _, _, err := s.resolveGame(ctx, args[0], "", "")
	if err != nil {
		return err
	}
	info, err := s.gateway.GameInfo(ctx, id)
	if err != nil {
		return err
	}

	stdout := cli.Stdout(ctx)
	fmt.Fprintf(stdout, "Title: %s\n", info.Title)
	if len(info.ReleaseDate) != 0 {
		fmt.Fprintf(stdout, "Released: %s\n", info.ReleaseDate)
	}
	for _, d := range info.Developers {
		fmt.Fprintf(stdout, "Developer: %s\n", d.Name)
	}
	for _, p := range info.Publishers {
		fmt.Fprintf(stdout, "Publisher: %s\n", p.Name)
	}
	if len(info.URLs.Game) != 0 {
		fmt.Fprintf(stdout, "More: %s\n", info.URLs.Game)
	}
	return nil
}

func (s *Server) getScheduleCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs a game name: %w", os.ErrInvalid)
	}
	resp, err := s.doWatchSchedule(ctx, &api.WatchScheduleRequest{IDOrName: args[0]})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.Stdout(ctx), "%s (next check at %s)", resp.Description, resp.Next.Format("2006-01-02 15:04 MST"))
	return nil
}

func (s *Server) getLowestCmd(ctx context.Context, args []string) error {
	req := new(api.PriceLowestRequest)
	switch len(args) {
	case 3:
		req.Platform = args[2]
		fallthrough
	case 2:
		req.Country = args[1]
		fallthrough
	case 1:
		req.Name = args[0]
	default:
		return fmt.Errorf("needs a game name with optional country and platform: %w", os.ErrInvalid)
	}

	resp, err := s.doPriceLowest(ctx, req)
	if err != nil {
		return err
	}
	d := resp.Deal
	fmt.Fprintf(cli.Stdout(ctx), "%s %s at %s (regular %s)", d.Price.StringFixed(2), d.Currency, d.Shop, d.Regular.StringFixed(2))
	return nil
}

func (s *Server) getAllTimeLowCmd(ctx context.Context, args []string) error {
	req := new(api.PriceAllTimeLowRequest)
	switch len(args) {
	case 2:
		req.Country = args[1]
		fallthrough
	case 1:
		req.Name = args[0]
	default:
		return fmt.Errorf("needs a game name with optional country: %w", os.ErrInvalid)
	}

	resp, err := s.doPriceAllTimeLow(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.Stdout(ctx), "All-time low is %s %s", resp.Price.StringFixed(2), resp.Currency)
	return nil
}

func (s *Server) getBestDealCmd(ctx context.Context, args []string) error {
	req := new(api.PriceDealsRequest)
	switch len(args) {
	case 3:
		req.Platform = args[2]
		fallthrough
	case 2:
		req.Country = args[1]
		fallthrough
	case 1:
		req.Name = args[0]
	default:
		return fmt.Errorf("needs a game name with optional country and platform: %w", os.ErrInvalid)
	}

	resp, err := s.doPriceDeals(ctx, req)
	if err != nil {
		return err
	}
	if len(resp.Deals) == 0 {
		return fmt.Errorf("no deals available: %w", os.ErrNotExist)
	}
	d := resp.Deals[0]
	fmt.Fprintf(cli.Stdout(ctx), "%s %s at %s\n%s", d.Price.StringFixed(2), d.Currency, d.Shop, d.URL)
	return nil
}
