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

// Package handler provides the trend insights endpoint.
package handler

import (
	"net/http"
	"strconv"
	"time"

	analyticshandler "github.com/postpulse/usage-insights-service/internal/analytics/handler"
	analyticsmodel "github.com/postpulse/usage-insights-service/internal/analytics/model"
	"github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
	"github.com/postpulse/usage-insights-service/internal/trends/provider"
)

const (
	defaultTopN = 10
	maxTopN     = 50
)

// TrendHandler handles trend insight requests.
type TrendHandler struct{}

// NewTrendHandler creates a new instance of TrendHandler.
func NewTrendHandler() *TrendHandler {

	return &TrendHandler{}
}

// HandleGetTrends computes hashtag, platform, and tone trends for the
// trailing window against the window immediately before it.
func (th *TrendHandler) HandleGetTrends(w http.ResponseWriter, r *http.Request) {

	windowDays, err := analyticshandler.ParseWindowDays(r.URL.Query().Get("window_days"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	topN := defaultTopN
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil || topN <= 0 || topN > maxTopN {
			utils.HandleError(w, errors.NewClientError(errors.INVALID_WINDOW, http.StatusBadRequest))
			return
		}
	}

	now := time.Now().Unix()
	windowSeconds := int64(windowDays) * 86400
	currentWindow := analyticsmodel.Window{Start: now - windowSeconds, End: now}
	previousWindow := analyticsmodel.Window{Start: now - 2*windowSeconds, End: now - windowSeconds}

	trendService := provider.NewTrendProvider().GetTrendService()
	entries, err := trendService.ComputeTrends(r.Context(), currentWindow, previousWindow, topN)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, entries)
}
