package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/arhyth/transfergo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// seeder creates the accounts listed in the config file on a running
// server. The store is in-memory and lives inside the server process,
// so seeding goes through the HTTP API.
func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfp := flag.String("config", "config.yml", "path to configuration file")
	base := flag.String("server", "http://localhost:3000", "server base URL")
	flag.Parse()

	var cfg transfergo.Config
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	for _, seed := range cfg.Seed {
		bal, err := decimal.NewFromString(seed.Balance)
		if err != nil {
			logger.Fatal().
				Err(err).
				Str("account_id", seed.AcctID).
				Msg("error parsing seed balance")
		}
		req := transfergo.CreateAccountReq{
			AcctID:  seed.AcctID,
			Balance: bal,
		}
		body, err := json.Marshal(req)
		if err != nil {
			logger.Fatal().Err(err).Msg("error marshalling request")
		}
		resp, err := client.Post(*base+"/v1/accounts", "application/json", bytes.NewReader(body))
		if err != nil {
			logger.Fatal().
				Err(err).
				Str("account_id", seed.AcctID).
				Msg("error creating account")
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			logger.Error().
				Int("status", resp.StatusCode).
				Str("account_id", seed.AcctID).
				Msg("account not created")
			continue
		}
		logger.Info().
			Str("account_id", seed.AcctID).
			Str("balance", seed.Balance).
			Msg("account seeded")
	}
}
