package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/config"
	"github.com/mvolkoff/beseda/internal/profile"
)

func main() {
	serverFlag := flag.String("server", "", "server base URL (overrides config)")
	userFlag := flag.Int64("user", 0, "user id (overrides config)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		cfg = config.Default()
	}
	if *serverFlag != "" {
		cfg.ServerURL = *serverFlag
	}
	if *userFlag != 0 {
		cfg.UserID = *userFlag
	}

	src, err := adapter.NewHTTP(cfg.ServerURL, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch args[0] {
	case "chats":
		cmdChats(ctx, src, cfg.UserID, *jsonFlag)
	case "messages":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: besedactl messages <chat-id>")
			os.Exit(1)
		}
		cmdMessages(ctx, src, args[1], *jsonFlag)
	case "send":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: besedactl send <chat-id> <text>")
			os.Exit(1)
		}
		cmdSend(ctx, src, cfg.UserID, args[1], args[2])
	case "calls":
		cmdCalls(ctx, src, cfg.UserID, *jsonFlag)
	case "whoami":
		cmdWhoami(ctx, src, cfg.UserID, *jsonFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: besedactl [--server <url>] [--user <id>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  chats                 List chats")
	fmt.Fprintln(os.Stderr, "  messages <chat-id>    List messages of a chat")
	fmt.Fprintln(os.Stderr, "  send <chat-id> <text> Send a text message")
	fmt.Fprintln(os.Stderr, "  calls                 Show call history")
	fmt.Fprintln(os.Stderr, "  whoami                Show the configured user's profile")
}

func cmdChats(ctx context.Context, src *adapter.HTTP, userID int64, jsonOut bool) {
	chats, err := src.ListChats(ctx, userID)
	if err != nil {
		fail(err)
	}
	if jsonOut {
		outputJSON(chats)
		return
	}
	for _, c := range chats {
		marker := " "
		if c.Unread > 0 {
			marker = "*"
		}
		fmt.Printf("%s %-4d %-30s %s\n", marker, c.ID, c.Name, c.LastMessage)
	}
}

func cmdMessages(ctx context.Context, src *adapter.HTTP, rawChatID string, jsonOut bool) {
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		fail(fmt.Errorf("invalid chat id %q", rawChatID))
	}
	msgs, err := src.ListMessages(ctx, chatID)
	if err != nil {
		fail(err)
	}
	if jsonOut {
		outputJSON(msgs)
		return
	}
	for _, m := range msgs {
		body := m.Content
		if m.Kind == adapter.MessageVoice {
			body = fmt.Sprintf("%s (%ds)", m.Content, m.Duration)
		}
		fmt.Printf("[%s] %s: %s\n", m.SentAt.Format("2006-01-02 15:04"), m.SenderName, body)
	}
}

func cmdSend(ctx context.Context, src *adapter.HTTP, userID int64, rawChatID, text string) {
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		fail(fmt.Errorf("invalid chat id %q", rawChatID))
	}
	err = src.AppendMessage(ctx, adapter.Append{
		ChatID:   chatID,
		SenderID: userID,
		Content:  text,
		Kind:     adapter.MessageText,
	})
	if err != nil {
		fail(err)
	}
	fmt.Println("sent")
}

func cmdCalls(ctx context.Context, src *adapter.HTTP, userID int64, jsonOut bool) {
	calls, err := src.ListCalls(ctx, userID)
	if err != nil {
		fail(err)
	}
	if jsonOut {
		outputJSON(calls)
		return
	}
	for _, c := range calls {
		dur := ""
		if c.Status == adapter.CallCompleted {
			dur = fmt.Sprintf(" %ds", c.Duration)
		}
		fmt.Printf("[%s] %-6s %-10s %s%s\n",
			c.StartedAt.Format("2006-01-02 15:04"), c.Kind, c.Status, c.ChatName, dur)
	}
}

func cmdWhoami(ctx context.Context, src *adapter.HTTP, userID int64, jsonOut bool) {
	u, err := src.GetUser(ctx, userID)
	if err != nil {
		fail(err)
	}
	if jsonOut {
		outputJSON(u)
		return
	}
	fmt.Printf("Name:       %s\n", u.FullName)
	fmt.Printf("Position:   %s\n", u.Position)
	fmt.Printf("Department: %s\n", u.Department)
	fmt.Printf("Email:      %s\n", u.Email)
	fmt.Printf("Status:     %s\n", u.Presence)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
