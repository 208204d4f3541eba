package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	EnvFile      string
	ElectionFile string
	NomineesPath string
	BallotsPath  string
	MemberAPIKey string
	Serve        bool
	JSON         bool
}

// ParseFlags validates flags and fills gaps from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	flags := flag.NewFlagSet("voc-elections", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	flags.StringVar(&cfg.EnvFile, "env", ".env", "Environment file to load")

	// Election inputs
	flags.StringVar(&cfg.ElectionFile, "c", "", "Election definition (YAML)")
	flags.StringVar(&cfg.NomineesPath, "n", "", "Nominee form CSV")
	flags.StringVar(&cfg.BallotsPath, "b", "", "Voting form CSV")

	// Modes
	flags.BoolVar(&cfg.Serve, "serve", false, "Serve stored results over HTTP")
	flags.BoolVar(&cfg.JSON, "json", false, "Print the report as JSON")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(cfg.EnvFile); err != nil {
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

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "elections.db"
	}

	if cfg.ElectionFile == "" {
		cfg.ElectionFile = os.Getenv("ELECTION_CONFIG")
	}
	if cfg.NomineesPath == "" {
		cfg.NomineesPath = os.Getenv("NOMINEES_CSV")
	}
	if cfg.BallotsPath == "" {
		cfg.BallotsPath = os.Getenv("BALLOTS_CSV")
	}

	// Secret, so env only
	cfg.MemberAPIKey = os.Getenv("VOC_API_KEY")

	// A run needs all three inputs; serving needs none
	if !cfg.Serve {
		if cfg.ElectionFile == "" {
			return Config{}, errors.New("election definition required (use -c or ELECTION_CONFIG env)")
		}
		if cfg.NomineesPath == "" {
			return Config{}, errors.New("nominee CSV required (use -n or NOMINEES_CSV env)")
		}
		if cfg.BallotsPath == "" {
			return Config{}, errors.New("ballot CSV required (use -b or BALLOTS_CSV env)")
		}
	}

	return cfg, nil
}

// loadEnvFile loads variables that are not already set. A missing file is fine.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
