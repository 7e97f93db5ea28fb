/*
Package main is the entry point for the agrisense operator CLI.

Usage:

	agrisense [command]

Available Commands:

	migrate     Create or update the login_logs and crop_history tables
	analyze     Analyze one crop and print the result
	logins      Print the login history, newest first
	history     Print the crop query history, newest first

Configuration is read from the environment and an optional .env file, the
same way the server reads it.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"agrisense/internal/cli"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(cli.DefaultLoader).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
