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

package schedulers

import (
	"context"
	"time"

	analyticshandler "github.com/postpulse/usage-insights-service/internal/analytics/handler"
	analyticsprovider "github.com/postpulse/usage-insights-service/internal/analytics/provider"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

// StartBaselineRefreshScheduler keeps the default-window community baseline
// warm so interactive requests rarely pay the compute cost. A failed refresh
// leaves the previous cache entry in place.
func StartBaselineRefreshScheduler(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refreshBaseline(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshBaseline(ctx)
		}
	}
}

func refreshBaseline(ctx context.Context) {

	logger := log.GetLogger()
	aggregatorService := analyticsprovider.NewAnalyticsProvider().GetAggregatorService()
	if err := aggregatorService.RefreshBaseline(ctx, analyticshandler.DefaultWindowDays); err != nil {
		logger.Error("Scheduled baseline refresh failed.", log.Error(err))
	}
}
