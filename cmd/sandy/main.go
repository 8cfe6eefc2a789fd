// Package main is the entry point for the sandy support chatbot service. It
// wires the intake engine, store, AI client, and maintenance scheduler, and
// exposes a line-based console for talking to the core directly.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/teigesaccord/sandy/internal/catalog"
	"github.com/teigesaccord/sandy/internal/chat"
	"github.com/teigesaccord/sandy/internal/config"
	"github.com/teigesaccord/sandy/internal/database"
	"github.com/teigesaccord/sandy/internal/gemini"
	"github.com/teigesaccord/sandy/internal/intake"
	"github.com/teigesaccord/sandy/internal/logger"
	"github.com/teigesaccord/sandy/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the scheduler and console loop, and
// returns an exit code.
func run(ctx context.Context) int {
	userID := flag.String("user", "console", "User id for the console session")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	cat, err := catalog.New()
	if err != nil {
		log.Error("failed to build question catalog", "error", err)
		return 1
	}
	engine := intake.NewEngine(cat, log)

	aiClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("failed to initialize gemini client", "error", err)
		return 1
	}

	service := chat.NewService(log, store, aiClient, engine, cfg.Chat)

	sched, err := scheduler.New(log, &cfg.Scheduler, scheduler.RegisterTasks(log, store))
	if err != nil {
		log.Error("failed to create scheduler", "error", err)
		return 1
	}
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		return 1
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return console(gctx, service, *userID)
	})
	g.Go(func() error {
		<-gctx.Done()
		return gctx.Err()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("stopped due to error", "error", err)
		return 1
	}

	log.Info("stopped gracefully")
	return 0
}

// console runs a minimal line-based chat loop against the service. It is a
// development harness; production callers sit behind a web layer that is not
// part of this module.
func console(ctx context.Context, service *chat.Service, userID string) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Println("sandy console. Commands: /progress, /recommend, /quit. Anything else is chat.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			switch line {
			case "/quit":
				return nil
			case "/progress":
				sig, err := service.Completion(ctx, userID)
				if err != nil {
					fmt.Printf("error: %v\n", err)
					continue
				}
				next := "done"
				if sig.NextSection != nil {
					next = *sig.NextSection
				}
				fmt.Printf("completion: %d%%, next section: %s\n", sig.CompletionPercentage, next)
			case "/recommend":
				reply, err := service.Recommend(ctx, userID)
				if err != nil {
					fmt.Printf("error: %v\n", err)
					continue
				}
				printReply(reply)
			default:
				reply, err := service.Chat(ctx, userID, line)
				if err != nil {
					fmt.Printf("error: %v\n", err)
					continue
				}
				printReply(reply)
			}
		}
	}
}

func printReply(reply *gemini.Reply) {
	fmt.Println(reply.Text)
	if len(reply.Suggestions) > 0 {
		fmt.Println("suggested actions:")
		for _, s := range reply.Suggestions {
			fmt.Printf("  * %s\n", s)
		}
	}
}
