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

// Package schedulers hosts the periodic background jobs: the daily retention
// sweep and the hourly baseline refresh.
package schedulers

import (
	"context"
	"time"

	retentionprovider "github.com/postpulse/usage-insights-service/internal/retention/provider"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

// StartRetentionSweepScheduler runs the retention sweep on a fixed interval
// until ctx is cancelled. The advisory lock inside the sweep keeps
// multi-instance deployments from sweeping twice.
func StartRetentionSweepScheduler(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run once at startup so a freshly deployed instance does not sit on
	// expired data for a full interval.
	runSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runSweep(ctx)
		}
	}
}

func runSweep(ctx context.Context) {

	logger := log.GetLogger()
	retentionService := retentionprovider.NewRetentionProvider().GetRetentionService()
	if _, err := retentionService.RunRetentionSweep(ctx); err != nil {
		logger.Error("Scheduled retention sweep failed.", log.Error(err))
	}
}
