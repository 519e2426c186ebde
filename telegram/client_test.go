// Copyright (c) 2025 BVK Chaitanya

package telegram

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/bvkgo/kv/kvmemdb"
	"github.com/go-telegram/bot/models"
)

var testingSecrets *Secrets

func checkSecrets() bool {
	if testingSecrets != nil {
		return true
	}
	data, err := os.ReadFile("telegram-creds.json")
	if err != nil {
		return false
	}
	s := new(Secrets)
	if err := json.Unmarshal(data, s); err != nil {
		return false
	}
	if err := s.Check(); err != nil {
		return false
	}
	testingSecrets = s
	return true
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	if !checkSecrets() {
		t.Skip("no credentials")
		return
	}

	db := kvmemdb.New()
	c, err := New(ctx, db, testingSecrets)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}
	}()

	t.Logf("Authorized on account %s with owner %s", c.BotUserName(), c.OwnerUserName())

	c.SendMessage(ctx, time.Now(), "hello")
}

func TestHandlerIgnoresMessagelessUpdates(t *testing.T) {
	ctx := context.Background()
	c := &Client{
		secrets:    &Secrets{OwnerID: "owner"},
		commandMap: make(map[string]*Command),
	}

	// Updates like edited_message, channel_post or my_chat_member carry no
	// message or sender; the handler must drop them without touching the bot.
	c.handler(ctx, nil, &models.Update{})
	c.handler(ctx, nil, &models.Update{Message: &models.Message{}})
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"lower than 20", []string{"lower", "than", "20"}},
		{`"Elden Ring" discount 50`, []string{"Elden Ring", "discount", "50"}},
		{`add "Baldur's Gate 3"`, []string{"add", "Baldur's Gate 3"}},
	}
	for _, tc := range tests {
		got := splitArgs(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("splitArgs(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitArgs(%q) = %v, want %v", tc.in, got, tc.want)
				break
			}
		}
	}
}
