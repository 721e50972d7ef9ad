package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/temirov/llmpack/internal/cli"
	"github.com/temirov/llmpack/internal/utils"
)

const cancelledByUserMessage = "Operation cancelled by user"

// main is the entry point for the llmpack command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() { _ = loggerInstance.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	applicationExecutionError := cli.Execute(ctx)
	if applicationExecutionError == nil {
		return
	}
	if errors.Is(applicationExecutionError, context.Canceled) {
		stop()
		fmt.Fprintln(os.Stderr, "\n"+cancelledByUserMessage)
		os.Exit(1)
	}
	loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
}
