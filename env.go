// FILE: env.go
// Package main – Environment helpers for the DCA bot.
//
// This file provides:
//   1) Small helpers to read environment variables with sane defaults
//      (strings, ints, floats, bools).
//   2) A safe loader (loadDCAEnv) that reads a dca.env file so the bot
//      never requires `export $(cat .env ...)`.
//
// Float values accept a comma decimal separator ("0,5") because the
// original deployment configures amounts in German number format.

package main

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
)

// --------- Env helpers (used across files) ---------

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	// Accept "0,5" as well as "0.5".
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "y", "yes":
		return true
	case "0", "false", "n", "no":
		return false
	default:
		return def
	}
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// --------- dca.env loader ---------

// loadDCAEnv reads the env file named by DCA_ENV_FILE (default "dca.env")
// and sets ONLY the keys the bot needs. It won't override variables already
// in the environment.
func loadDCAEnv() {
	path := getEnv("DCA_ENV_FILE", "dca.env")
	f, err := os.Open(path)
	if err != nil {
		log.Printf("env: %s not found, relying on process env", path)
		return
	}
	defer f.Close()

	needed := map[string]struct{}{
		"KRAKEN_API_KEY": {}, "KRAKEN_API_SECRET": {}, "KRAKEN_API_BASE": {},
		"DCA_PAIR": {}, "DCA_QUOTE_CURRENCY": {},
		"DCA_AMOUNT_EUR": {}, "DCA_DISCOUNT_PCT": {}, "DCA_MIN_FREE_BALANCE": {},
		"DCA_FEE_BUFFER": {}, "DCA_VALIDATE_ORDER": {}, "DCA_POST_ONLY": {},
		"API_MAX_ATTEMPTS": {}, "API_RETRY_BASE_MS": {},
		"SCHEDULE_ENABLED": {}, "SCHEDULE_CRON": {}, "MISFIRE_GRACE_SEC": {},
		"DCA_TIMEZONE": {}, "LOG_LEVEL": {}, "PORT": {},
		"NTFY_ENABLED": {}, "NTFY_SERVER": {}, "NTFY_TOPIC": {}, "NTFY_PRIORITY": {},
	}

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(line[len("export "):])
		}
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		if _, ok := needed[key]; !ok {
			continue
		}
		val := strings.TrimSpace(line[eq+1:])
		if len(val) >= 2 && ((val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'')) {
			// Quoted values keep their content verbatim, '#' included.
			val = val[1 : len(val)-1]
		} else if idx := strings.Index(val, "#"); idx >= 0 {
			val = strings.TrimSpace(val[:idx])
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
	log.Printf("env: loaded %s", path)
}
