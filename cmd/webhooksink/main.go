// Command webhooksink is a development endpoint for ledger webhooks: it
// accepts event posts and logs them, occasionally failing on purpose so
// the notifier's retry path can be exercised locally.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"bankoffice/internal/app/logger"
	mw "bankoffice/internal/app/middleware"
	"bankoffice/pkg/webhook"
)

func main() {
	// setting up signal capturing
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		osCall := <-stop
		log.Printf("System call: %+v", osCall)
		cancel()
	}()

	l := logger.New(true, true)

	if err := runServer(ctx, "127.0.0.1:8090", l); err != nil {
		l.Fatal().Err(err).Msg("Server run failed")
	}
}

func runServer(ctx context.Context, listenAddr string, l logger.Logger) (err error) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(mw.Log(l))
	r.Post("/events", PostEvent)

	srv := &http.Server{
		Addr:    listenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("Listening on %s", listenAddr)
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("")
		}
	}()

	log.Printf("Server started")
	<-ctx.Done()
	log.Printf("Server stopped")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err = srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Printf("Server exited properly")

	return
}

func PostEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Ctx(ctx).With().Str("method", "PostEvent").Logger()

	e := &webhook.Event{}
	if err := json.NewDecoder(r.Body).Decode(e); err != nil {
		l.Error().Err(err).Msg("Event decode failed")
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	if rand.Float32() < 0.2 {
		http.Error(w, "fail", http.StatusInternalServerError)
		return
	}

	l.Info().
		Str("kind", e.Kind).
		Str("transaction_id", e.TransactionID).
		Str("account_number", e.AccountNumber).
		Str("amount", e.Amount.String()).
		Str("performed_by", e.PerformedBy).
		Msg("Event received")

	w.WriteHeader(http.StatusAccepted)
}
