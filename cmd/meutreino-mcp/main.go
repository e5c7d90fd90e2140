package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meutreino/skill/internal/coach"
	"github.com/meutreino/skill/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "MeuTreino server URL (e.g. https://meutreino.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("MEUTREINO_AUTH_API_KEY"), "API key for the turn endpoints")
	userID := flag.String("user", "local", "user id the turns are run as")
	email := flag.String("email", "", "email used to look up workouts")
	lists := flag.Bool("lists", true, "grant the list permission")
	reminders := flag.Bool("reminders", true, "grant the reminder permission")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(Version)
		return
	}
	if *serverURL == "" || *apiKey == "" {
		fmt.Fprintln(os.Stderr, "usage: meutreino-mcp -server URL -api-key KEY [-user ID] [-email EMAIL]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	identity := coach.Identity{
		UserID:      *userID,
		Email:       *email,
		Permissions: coach.Permissions{Lists: *lists, Reminders: *reminders},
	}
	s := mcp.New(mcp.NewHTTPClient(*serverURL, *apiKey), identity, Version, log)

	log.Info("MeuTreino MCP starting", "version", Version, "server", *serverURL)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
