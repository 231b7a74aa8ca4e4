// cmd/predictord/main.go
//
// predictord is a standalone stand-in for the real prediction service. It
// scores applications with the heuristic model so the advisor can run end
// to end without the trained model being deployed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/model"
	"loan-risk-advisor/internal/models"
	"loan-risk-advisor/internal/predictor"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	zapLog := logger.New("info", "json")
	defer zapLog.Sync()

	scorer := model.NewScorer()

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+predictor.PredictPath, func(w http.ResponseWriter, r *http.Request) {
		var input models.ApplicationInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, &models.PredictionResponse{
				Status: "error",
				Error:  "invalid request body",
			})
			return
		}

		prediction, probability, riskLevel := scorer.Score(&input)
		writeJSON(w, http.StatusOK, &models.PredictionResponse{
			Status:      "success",
			Probability: probability,
			Prediction:  prediction,
			RiskLevel:   riskLevel,
		})

		zapLog.Info("application scored",
			zap.Float64("probability", probability),
			zap.String("risk_level", riskLevel),
		)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		zapLog.Info("predictord listening", zap.String("address", *addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
