package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/arhyth/transfergo"
	"gopkg.in/yaml.v3"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg transfergo.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	store := transfergo.NewMemoryStore()
	notifier := &transfergo.LogNotifier{Log: &logger}
	dispatcher := transfergo.NewDispatcher(notifier, cfg.Server.NotificationQueue, &logger)
	defer dispatcher.Close()

	svc, err := transfergo.NewService(store, dispatcher, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting service")
	}

	limits := transfergo.NewServiceLimits(cfg.Limits)
	brkrs := transfergo.NewServiceBreaker()
	var wrapped transfergo.Service = svc
	for _, mw := range []transfergo.Middleware{
		transfergo.NewCircuitBreakMiddleware(brkrs),
		transfergo.NewLimitMiddleware(limits),
		transfergo.NewValidationMiddleware(),
	} {
		wrapped = mw(wrapped)
	}
	hndlr := transfergo.NewHTTPHandler(wrapped, &logger)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":3000"
	}
	logger.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, hndlr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
