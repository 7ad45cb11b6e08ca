package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"facetsearch/catalog"
	"facetsearch/es"
	"facetsearch/server"
	"facetsearch/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()
	v.SetConfigName("facetsearch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("es.addresses", "http://localhost:9200")
	v.SetDefault("es.username", "")
	v.SetDefault("es.password", "")
	v.SetDefault("catalog.path", "catalog.yml")
	v.SetDefault("pg.addr", "")
	v.SetDefault("auth.token", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("read config: %v", err)
		}
	}

	slog.SetLogLoggerLevel(slog.LevelDebug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store.Store
	if pgAddr := v.GetString("pg.addr"); pgAddr != "" {
		dbpool, err := pgxpool.New(ctx, pgAddr)
		if err != nil {
			log.Fatalf("pgxpool: %v", err)
		}
		defer dbpool.Close()
		st = store.NewPostgresStore(dbpool)
	} else {
		cfg, err := catalog.LoadConfig(v.GetString("catalog.path"))
		if err != nil {
			log.Fatalf("load catalog config: %v", err)
		}
		st = store.NewMemoryStore(cfg)
	}

	cat, err := st.Load(ctx)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	for _, t := range cat.Doc().Types {
		log.Printf(" - type %q with %d attribute/s, index %q", t.ID, len(t.Attributes), t.IndexName)
	}
	log.Printf("loaded catalog with %d schema/s", len(cat.Doc().Schemas))

	esClient, err := es.New(es.Config{
		Addresses: strings.Split(v.GetString("es.addresses"), ","),
		Username:  v.GetString("es.username"),
		Password:  v.GetString("es.password"),
	})
	if err != nil {
		log.Fatalf("setting up es client: %v", err)
	}

	var auth server.Authenticator = server.AllowAll{}
	if token := v.GetString("auth.token"); token != "" {
		auth = server.TokenAuth{Token: token}
	}

	srv := server.New(esClient, cat, auth)

	httpAddr := v.GetString("http.addr")
	httpSrv := &http.Server{
		Addr:    httpAddr,
		Handler: srv,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)

	go func() {
		log.Printf("search service listening on %s", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
		log.Printf("http server stopped")
	}()

	<-stopChan
	log.Printf("shutting down")

	go func() {
		<-stopChan
		log.Printf("force shutdown")
		os.Exit(1)
	}()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
