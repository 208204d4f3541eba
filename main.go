package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Atzphere/VOC-Elections/cliparse"
	"github.com/Atzphere/VOC-Elections/db"
	"github.com/Atzphere/VOC-Elections/election"
	"github.com/Atzphere/VOC-Elections/ingest"
	"github.com/Atzphere/VOC-Elections/middleware"
	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/reconcile"
	"github.com/Atzphere/VOC-Elections/report"
	"github.com/Atzphere/VOC-Elections/router"
	"github.com/Atzphere/VOC-Elections/tabulate"
	"github.com/Atzphere/VOC-Elections/verify"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := db.NewStore(dbConn, cfg.DatabaseType)

	if cfg.ElectionFile != "" {
		if _, err := runElection(ctx, cfg, store, os.Stdout); err != nil {
			slog.Error("election run failed", "error", err)
			os.Exit(1)
		}
	}

	if !cfg.Serve {
		return
	}

	// Create router
	mux := router.NewRouter(store)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// runElection reads the inputs, reconciles every position, prints the report
// to out, and stores it
func runElection(ctx context.Context, cfg cliparse.Config, store *db.Store, out io.Writer) (*models.RunReport, error) {
	logger := slog.Default()

	def, err := cliparse.LoadElectionConfig(cfg.ElectionFile)
	if err != nil {
		return nil, err
	}

	ingestCfg := def.IngestConfig()
	if v := def.Verification; v != nil {
		client, err := verify.NewClient(v.APIURL, cfg.MemberAPIKey)
		if err != nil {
			return nil, err
		}
		ingestCfg.BallotFilter = func(rows [][]string) ([][]string, error) {
			return verify.Filter(ctx, rows, v.Columns(), client, logger)
		}
	}

	reg, ballots, err := ingest.Load(cfg.NomineesPath, cfg.BallotsPath, ingestCfg, logger)
	if err != nil {
		return nil, err
	}

	method := def.Method
	if method == "" {
		method = models.MethodPBV
	}
	evaluator, err := tabulate.ForMethod(method)
	if err != nil {
		return nil, err
	}

	elections := election.BuildAll(reg, def.Specs(), ballots, evaluator, logger)

	opts := []reconcile.Option{reconcile.WithLogger(logger)}
	if def.MaxRank > 0 {
		opts = append(opts, reconcile.WithMaxRank(def.MaxRank))
	}
	engine, err := reconcile.New(reg, elections, opts...)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run()
	if err != nil {
		return nil, err
	}

	rep := report.Build(res, method, report.InputsHash(reg, ballots))

	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	} else if err := report.WriteText(out, rep); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	if err := store.SaveReport(ctx, rep); err != nil {
		return nil, err
	}
	slog.Info("Run stored", "id", rep.ID, "problems", len(rep.Problems))
	return rep, nil
}
