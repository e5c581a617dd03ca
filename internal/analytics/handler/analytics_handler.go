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

// Package handler provides the community baseline endpoint.
package handler

import (
	"net/http"
	"strconv"

	"github.com/postpulse/usage-insights-service/internal/analytics/provider"
	"github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
)

// DefaultWindowDays is the trailing window applied when the request does not
// specify one.
const DefaultWindowDays = 30

const maxWindowDays = 365

// AnalyticsHandler handles community baseline requests.
type AnalyticsHandler struct{}

// NewAnalyticsHandler creates a new instance of AnalyticsHandler.
func NewAnalyticsHandler() *AnalyticsHandler {

	return &AnalyticsHandler{}
}

// HandleGetBaseline returns the community baseline for a trailing window,
// served from cache where fresh. A baseline served after a failed
// recomputation carries a stale flag.
func (ah *AnalyticsHandler) HandleGetBaseline(w http.ResponseWriter, r *http.Request) {

	windowDays, err := ParseWindowDays(r.URL.Query().Get("window_days"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	aggregatorService := provider.NewAnalyticsProvider().GetAggregatorService()
	baseline, err := aggregatorService.GetBaseline(r.Context(), windowDays)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, baseline)
}

// ParseWindowDays validates the window_days query parameter, applying the
// default when it is absent.
func ParseWindowDays(raw string) (int, error) {

	if raw == "" {
		return DefaultWindowDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 || days > maxWindowDays {
		return 0, errors.NewClientError(errors.INVALID_WINDOW, http.StatusBadRequest)
	}
	return days, nil
}
