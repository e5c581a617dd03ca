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

// Package handler provides the subject benchmark endpoint.
package handler

import (
	"net/http"

	analyticshandler "github.com/postpulse/usage-insights-service/internal/analytics/handler"
	"github.com/postpulse/usage-insights-service/internal/benchmarks/provider"
	"github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
)

// BenchmarkHandler handles subject benchmark requests.
type BenchmarkHandler struct{}

// NewBenchmarkHandler creates a new instance of BenchmarkHandler.
func NewBenchmarkHandler() *BenchmarkHandler {

	return &BenchmarkHandler{}
}

// HandleGetBenchmarks compares the subject's trailing-window profile against
// the community baseline. Subjects with no data get an insufficient-data
// report, not an error.
func (bh *BenchmarkHandler) HandleGetBenchmarks(w http.ResponseWriter, r *http.Request) {

	subjectID := r.PathValue("subjectId")
	if subjectID == "" {
		utils.HandleError(w, errors.NewClientError(errors.SUBJECT_ID_REQUIRED, http.StatusBadRequest))
		return
	}
	windowDays, err := analyticshandler.ParseWindowDays(r.URL.Query().Get("window_days"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	benchmarkService := provider.NewBenchmarkProvider().GetBenchmarkService()
	report, err := benchmarkService.GetBenchmarks(r.Context(), subjectID, windowDays)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}
