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

// Package handler provides the HTTP intake endpoint for usage events.
package handler

import (
	"encoding/json"
	"net/http"

	model "github.com/postpulse/usage-insights-service/internal/events/model"
	"github.com/postpulse/usage-insights-service/internal/events/provider"
	"github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
)

// EventHandler handles event ingestion requests.
type EventHandler struct{}

// NewEventHandler creates a new instance of EventHandler.
func NewEventHandler() *EventHandler {

	return &EventHandler{}
}

// HandleIngestEvent gates, minimizes, and stores one usage event. A consent
// denial returns 200 with an unaccepted result so clients treat "not tracked"
// as a normal outcome.
func (eh *EventHandler) HandleIngestEvent(w http.ResponseWriter, r *http.Request) {

	var request model.IngestionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "event"),
		}, http.StatusBadRequest))
		return
	}

	ingestionService := provider.NewEventProvider().GetIngestionService()
	result, err := ingestionService.Ingest(request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	status := http.StatusCreated
	if !result.Accepted {
		status = http.StatusOK
	}
	utils.WriteJSON(w, status, result)
}
