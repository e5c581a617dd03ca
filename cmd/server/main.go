/*
 * Copyright (c) 2026, PostPulse, Inc. (https://postpulse.io).
 *
 * PostPulse, Inc. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/postpulse/usage-insights-service/internal/system/config"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	"github.com/postpulse/usage-insights-service/internal/system/log"
	"github.com/postpulse/usage-insights-service/internal/system/managers"
	"github.com/postpulse/usage-insights-service/internal/system/schedulers"
)

const configFile = "/repository/conf/deployment.yaml"

const shutdownTimeout = 10 * time.Second

func main() {
	uisHome := getUISHome()

	envFiles, _ := filepath.Glob("config/*.env")
	if len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	uisConfig, err := config.LoadConfig(uisHome, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.InitializeUISRuntime(uisHome, uisConfig); err != nil {
		stdlog.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := log.Init(uisConfig.Log.LogLevel); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go schedulers.StartRetentionSweepScheduler(ctx,
		time.Duration(uisConfig.Scheduler.RetentionSweepHours)*time.Hour)
	go schedulers.StartBaselineRefreshScheduler(ctx,
		time.Duration(uisConfig.Scheduler.BaselineRefreshMinutes)*time.Minute)

	serverAddr := fmt.Sprintf("%s:%d", uisConfig.Addr.Host, uisConfig.Addr.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: enableCORS(initMultiplexer(), uisConfig.Auth.CORSAllowedOrigins),
	}

	go func() {
		logger.Info("Usage insights service starting on: " + serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve requests.", log.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received; draining requests.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed.", log.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		logger := log.GetLogger()
		logger.Fatal("Failed to register the services.", log.Error(err))
	}
	return mux
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getUISHome() string {

	projectHomeFlag := flag.String("uisHome", "", "Path to the usage insights service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}
	dir, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to get current working directory: %v", err)
	}
	return dir
}
