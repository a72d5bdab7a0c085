package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	DatabaseURL      string
	DatabaseType     string
	AdminKeySalt     string
	ElectionSlugSalt string
	BaseURL          string
	Verbose          bool
}

// ParseFlags loads .env (if present), then validates flags over env vars
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is fine; real env always wins over the file
	_ = godotenv.Load()

	fs := flag.NewFlagSet("quickly-elect", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL for share links")
	fs.BoolVar(&cfg.Verbose, "v", false, "Log every counting round")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.ElectionSlugSalt, "slug-salt", "", "Election slug salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://quickly-elect.com"
		}
	}

	if !cfg.Verbose {
		if v, err := strconv.ParseBool(os.Getenv("VERBOSE")); err == nil {
			cfg.Verbose = v
		}
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.ElectionSlugSalt == "" {
		cfg.ElectionSlugSalt = os.Getenv("ELECTION_SLUG_SALT")
	}
	if cfg.ElectionSlugSalt == "" {
		return Config{}, errors.New("ELECTION_SLUG_SALT required")
	}

	return cfg, nil
}

// TallyConfig configures the offline spav-tally command
type TallyConfig struct {
	CandidatesPath string
	VotersPath     string
	VotersFormat   string
	Format         string
	Verbose        bool
}

// ParseTallyFlags accepts flags or the two positional file paths
func ParseTallyFlags(args []string) (TallyConfig, error) {
	var cfg TallyConfig

	fs := flag.NewFlagSet("spav-tally", flag.ContinueOnError)
	fs.StringVar(&cfg.CandidatesPath, "c", "", "Candidates file (header, then id,gender,name)")
	fs.StringVar(&cfg.VotersPath, "b", "", "Voters file")
	fs.StringVar(&cfg.VotersFormat, "voters-format", "pairs", "Voters file layout (pairs or rows)")
	fs.StringVar(&cfg.Format, "o", "text", "Output format (text, json or yaml)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Print scores and per-round trace")

	if err := fs.Parse(args); err != nil {
		return TallyConfig{}, err
	}

	rest := fs.Args()
	if cfg.CandidatesPath == "" && len(rest) > 0 {
		cfg.CandidatesPath, rest = rest[0], rest[1:]
	}
	if cfg.VotersPath == "" && len(rest) > 0 {
		cfg.VotersPath, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return TallyConfig{}, fmt.Errorf("unexpected arguments %v: flags go before the file paths", rest)
	}

	if cfg.CandidatesPath == "" || cfg.VotersPath == "" {
		return TallyConfig{}, errors.New("candidates and voters files required")
	}
	if cfg.VotersFormat != "pairs" && cfg.VotersFormat != "rows" {
		return TallyConfig{}, errors.New("voters-format must be pairs or rows")
	}
	switch cfg.Format {
	case "text", "json", "yaml":
	default:
		return TallyConfig{}, errors.New("output format must be text, json or yaml")
	}

	return cfg, nil
}
