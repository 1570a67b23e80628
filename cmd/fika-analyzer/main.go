// Command fika-analyzer печатает сумму просмотров страницы вики за период.
//
//	fika-analyzer -p sv.wikipedia.org -v "Wikipedia:Fikarummet" -s 20161209 -e 20170101
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fika-analyzer/internal/app/wiring"
	"github.com/magabrotheeeer/fika-analyzer/internal/config"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/logger"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

// flagNames сопоставляет поля models.MetricsRequest с флагами командной строки.
var flagNames = map[string]string{
	"Project":   "--project",
	"Page":      "--pageview-page",
	"StartDate": "--start-date",
	"EndDate":   "--end-date",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (models.MetricsRequest, error) {
	var req models.MetricsRequest

	fs := flag.NewFlagSet("fika-analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&req.Project, "project", "", "wiki project, e.g. sv.wikipedia.org")
	fs.StringVar(&req.Project, "p", "", "shorthand for --project")
	fs.StringVar(&req.Page, "pageview-page", "", "page title to count views for")
	fs.StringVar(&req.Page, "v", "", "shorthand for --pageview-page")
	fs.StringVar(&req.StartDate, "start-date", "", "first day, YYYYMMDD")
	fs.StringVar(&req.StartDate, "s", "", "shorthand for --start-date")
	fs.StringVar(&req.EndDate, "end-date", "", "last day, YYYYMMDD")
	fs.StringVar(&req.EndDate, "e", "", "shorthand for --end-date")

	if err := fs.Parse(args); err != nil {
		return req, err
	}

	if err := validator.New().Struct(req); err != nil {
		var missing []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				missing = append(missing, flagNames[fe.Field()])
			}
		}
		fmt.Fprintf(stderr, "missing required flags: %s\n", strings.Join(missing, ", "))
		fs.Usage()
		return req, err
	}
	return req, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	req, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

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

	views, err := deps.Service.GetPageviews(ctx, req)
	if err != nil {
		log.Error("failed to get pageviews", sl.Err(err))
		return 1
	}

	fmt.Fprintf(stdout, "Pageviews: %d\n", views)
	return 0
}
