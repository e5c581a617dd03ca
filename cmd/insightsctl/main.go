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

// insightsctl runs the service's jobs and reports without going through the
// HTTP layer. It exists for the scheduler and compliance collaborators.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	analyticsmodel "github.com/postpulse/usage-insights-service/internal/analytics/model"
	analyticsprovider "github.com/postpulse/usage-insights-service/internal/analytics/provider"
	retentionprovider "github.com/postpulse/usage-insights-service/internal/retention/provider"
	"github.com/postpulse/usage-insights-service/internal/system/config"
	"github.com/postpulse/usage-insights-service/internal/system/log"
	trendprovider "github.com/postpulse/usage-insights-service/internal/trends/provider"
)

const configFile = "/repository/conf/deployment.yaml"

var (
	uisHome    string
	windowDays int
	topN       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "insightsctl",
		Short: "Operations CLI for the usage insights service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initRuntime()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&uisHome, "uis-home", ".",
		"Path to the service home directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a retention sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			retentionService := retentionprovider.NewRetentionProvider().GetRetentionService()
			result, err := retentionService.RunRetentionSweep(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	baselineCmd := &cobra.Command{
		Use:   "baseline",
		Short: "Compute and print the community baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			aggregatorService := analyticsprovider.NewAnalyticsProvider().GetAggregatorService()
			baseline, err := aggregatorService.GetBaseline(cmd.Context(), windowDays)
			if err != nil {
				return err
			}
			return printJSON(baseline)
		},
	}
	baselineCmd.Flags().IntVar(&windowDays, "window-days", 30, "Trailing window in days")

	trendsCmd := &cobra.Command{
		Use:   "trends",
		Short: "Compute and print window-over-window trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().Unix()
			windowSeconds := int64(windowDays) * 86400
			current := analyticsmodel.Window{Start: now - windowSeconds, End: now}
			previous := analyticsmodel.Window{Start: now - 2*windowSeconds, End: now - windowSeconds}

			trendService := trendprovider.NewTrendProvider().GetTrendService()
			entries, err := trendService.ComputeTrends(cmd.Context(), current, previous, topN)
			if err != nil {
				return err
			}
			return printJSON(entries)
		},
	}
	trendsCmd.Flags().IntVar(&windowDays, "window-days", 30, "Trailing window in days")
	trendsCmd.Flags().IntVar(&topN, "top-n", 10, "Entries per dimension")

	rootCmd.AddCommand(sweepCmd, baselineCmd, trendsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initRuntime() error {

	uisConfig, err := config.LoadConfig(uisHome, configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.InitializeUISRuntime(uisHome, uisConfig); err != nil {
		return fmt.Errorf("failed to initialize runtime: %w", err)
	}
	return log.Init(uisConfig.Log.LogLevel)
}

func printJSON(v interface{}) error {

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
