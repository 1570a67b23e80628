// Command fika-report печатает сводку по Фикаруму: просмотры главной
// страницы и страницы вопросов с даты открытия по сегодня, число вопросов
// и число приглашённых.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/magabrotheeeer/fika-analyzer/internal/app/wiring"
	"github.com/magabrotheeeer/fika-analyzer/internal/config"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/logger"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, time.Now(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, end time.Time, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log := logger.New(cfg.Env, stderr)

	deps, err := wiring.Build(ctx, cfg, log, nil)
	if err != nil {
		log.Error("failed to initialize", sl.Err(err))
		return 1
	}
	defer func() { _ = deps.Close() }()

	rep, err := deps.Service.Report(ctx, end)
	if err != nil {
		log.Error("failed to build report", sl.Err(err))
		return 1
	}

	writeReport(stdout, rep)
	return 0
}

func writeReport(w io.Writer, rep *models.Report) {
	for _, pv := range rep.Pageviews {
		fmt.Fprintf(w, "Pageviews for %s: %d\n", shortTitle(pv.Page), pv.Views)
	}
	fmt.Fprintf(w, "Number of questions: %d\n", rep.Questions)
	fmt.Fprintf(w, "Number of invitees: %d\n", rep.Invitees)
}

// shortTitle убирает пространство имён: "Wikipedia:Fikarummet" -> "Fikarummet".
func shortTitle(page string) string {
	ns, rest, ok := strings.Cut(page, ":")
	if !ok || strings.Contains(ns, "/") {
		return page
	}
	return rest
}
