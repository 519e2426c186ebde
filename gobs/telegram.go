// Copyright (c) 2025 BVK Chaitanya

package gobs

type TelegramState struct {
	// UserChatIDMap remembers the chat id for every authorized user that has
	// messaged the bot, so that notifications can be sent without waiting for
	// the user to talk first.
	UserChatIDMap map[string]int64
}
