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

// Package handler provides HTTP handlers for managing consent state.
package handler

import (
	"encoding/json"
	"net/http"

	model "github.com/postpulse/usage-insights-service/internal/consent/model"
	"github.com/postpulse/usage-insights-service/internal/consent/provider"
	"github.com/postpulse/usage-insights-service/internal/consent/store"
	"github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
)

type setConsentRequest struct {
	Granted bool `json:"granted"`
}

// ConsentHandler handles consent state reads and mutations.
type ConsentHandler struct{}

// NewConsentHandler creates a new instance of ConsentHandler.
func NewConsentHandler() *ConsentHandler {

	return &ConsentHandler{}
}

// HandleGetConsentState returns the effective consent flag for every
// category for the subject. Unknown subjects report every flag false.
func (ch *ConsentHandler) HandleGetConsentState(w http.ResponseWriter, r *http.Request) {

	subjectID := r.PathValue("subjectId")
	if subjectID == "" {
		utils.HandleError(w, errors.NewClientError(errors.SUBJECT_ID_REQUIRED, http.StatusBadRequest))
		return
	}

	consentService := provider.NewConsentProvider().GetConsentService()
	state, err := consentService.GetConsentState(subjectID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

// HandleSetConsent grants or withdraws a single category for the subject.
func (ch *ConsentHandler) HandleSetConsent(w http.ResponseWriter, r *http.Request) {

	subjectID := r.PathValue("subjectId")
	category := r.PathValue("category")

	var request setConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "consent"),
		}, http.StatusBadRequest))
		return
	}

	consentService := provider.NewConsentProvider().GetConsentService()
	record, err := consentService.SetConsent(r.Context(), subjectID, category, request.Granted)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, record)
}

// HandleWithdrawAll withdraws every category and schedules erasure of the
// subject's data after the grace period.
func (ch *ConsentHandler) HandleWithdrawAll(w http.ResponseWriter, r *http.Request) {

	subjectID := r.PathValue("subjectId")
	if subjectID == "" {
		utils.HandleError(w, errors.NewClientError(errors.SUBJECT_ID_REQUIRED, http.StatusBadRequest))
		return
	}

	consentService := provider.NewConsentProvider().GetConsentService()
	schedule, err := consentService.WithdrawAll(r.Context(), subjectID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, schedule)
}

// HandleListAuditEntries returns the compliance audit trail for a hashed
// subject identifier, newest first. Admin-only; the trail never carries raw
// subject identifiers, so the path segment is the hash itself.
func (ch *ConsentHandler) HandleListAuditEntries(w http.ResponseWriter, r *http.Request) {

	if err := utils.AuthnAdmin(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	subjectHash := r.PathValue("subjectHash")
	if subjectHash == "" {
		utils.HandleError(w, errors.NewClientError(errors.SUBJECT_ID_REQUIRED, http.StatusBadRequest))
		return
	}

	repo, err := store.NewAuditRepository(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	defer func() {
		if err := repo.Close(r.Context()); err != nil {
			log.GetLogger().Debug("Failed to close audit trail client.", log.Error(err))
		}
	}()

	entries, err := repo.ListEntries(r.Context(), subjectHash)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	utils.WriteJSON(w, http.StatusOK, entries)
}
