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

// Package handler provides the admin endpoints for the data lifecycle jobs.
// Every operation here requires an admin bearer token.
package handler

import (
	"net/http"

	"github.com/postpulse/usage-insights-service/internal/retention/provider"
	"github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
)

// RetentionHandler handles admin retention and erasure requests.
type RetentionHandler struct{}

// NewRetentionHandler creates a new instance of RetentionHandler.
func NewRetentionHandler() *RetentionHandler {

	return &RetentionHandler{}
}

// HandleRunSweep triggers a retention sweep. Returns 202 with the sweep
// summary; a skipped run (lock held elsewhere) is still a success.
func (rh *RetentionHandler) HandleRunSweep(w http.ResponseWriter, r *http.Request) {

	if err := utils.AuthnAdmin(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	retentionService := provider.NewRetentionProvider().GetRetentionService()
	result, err := retentionService.RunRetentionSweep(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, result)
}

// HandleEraseSubject deletes every event and consent record for a subject
// immediately, bypassing the grace period.
func (rh *RetentionHandler) HandleEraseSubject(w http.ResponseWriter, r *http.Request) {

	if err := utils.AuthnAdmin(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	subjectID := r.PathValue("subjectId")
	if subjectID == "" {
		utils.HandleError(w, errors.NewClientError(errors.SUBJECT_ID_REQUIRED, http.StatusBadRequest))
		return
	}

	retentionService := provider.NewRetentionProvider().GetRetentionService()
	deleted, err := retentionService.EraseSubject(r.Context(), subjectID, log.InitiatorTypeAdmin)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int64{"deleted_events": deleted})
}
