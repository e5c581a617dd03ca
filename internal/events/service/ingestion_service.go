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

// Package service gates, minimizes, and appends usage events. An event only
// reaches the store after the subject's consent for the purpose's category
// has been confirmed against the current store state.
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	consentprovider "github.com/postpulse/usage-insights-service/internal/consent/provider"
	model "github.com/postpulse/usage-insights-service/internal/events/model"
	"github.com/postpulse/usage-insights-service/internal/events/store"
	"github.com/postpulse/usage-insights-service/internal/identity"
	"github.com/postpulse/usage-insights-service/internal/system/config"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

// IngestionServiceInterface defines consent-gated event ingestion.
type IngestionServiceInterface interface {
	Ingest(request model.IngestionRequest) (*model.IngestionResult, error)
}

// IngestionService is the default implementation of the IngestionServiceInterface.
type IngestionService struct{}

// GetIngestionService creates a new instance of IngestionService.
func GetIngestionService() IngestionServiceInterface {

	return &IngestionService{}
}

// Ingest runs the full intake pipeline: schema validation, session hash
// resolution, consent gating, minimization, retention stamping, append.
// A consent denial is a soft outcome reported in the result, never an error.
func (is *IngestionService) Ingest(request model.IngestionRequest) (*model.IngestionResult, error) {

	logger := log.GetLogger()
	if reason := ValidateEvent(request.EventType, request.Payload); reason != "" {
		return &model.IngestionResult{Accepted: false, RejectionReason: reason}, nil
	}
	if request.SubjectID == "" {
		return nil, errors2.NewClientError(errors2.SUBJECT_ID_REQUIRED, 400)
	}

	salt := config.GetUISRuntime().Config.Analytics.HashSalt
	sessionHash, err := is.resolveSessionHash(request, salt)
	if err != nil {
		return nil, err
	}

	requiredCategory := constants.CategoryBasicAnalytics
	retentionDays := constants.DefaultRetentionDays
	if policy, known := constants.PurposePolicies[request.Purpose]; known {
		requiredCategory = policy.RequiredCategory
		retentionDays = policy.RetentionDays
	}

	consentService := consentprovider.NewConsentProvider().GetConsentService()
	granted, err := consentService.HasConsent(request.SubjectID, requiredCategory)
	if err != nil {
		return nil, err
	}
	if !granted {
		logger.Debug(fmt.Sprintf("Event not tracked; no consent for category: %s", requiredCategory))
		return &model.IngestionResult{Accepted: false, RejectionReason: model.RejectionConsentMissing}, nil
	}

	minimized, reason := MinimizePayload(request.Purpose, salt, request.Payload)
	if reason != "" {
		return &model.IngestionResult{Accepted: false, RejectionReason: reason}, nil
	}

	timestamp := request.Timestamp
	if timestamp <= 0 {
		timestamp = time.Now().Unix()
	}
	platform, _ := minimized.Payload[constants.FieldPlatform].(string)

	event := model.Event{
		ID:             uuid.New().String(),
		EventType:      request.EventType,
		SessionHash:    sessionHash,
		SubjectID:      request.SubjectID,
		Platform:       platform,
		Purpose:        request.Purpose,
		Payload:        minimized.Payload,
		Timestamp:      timestamp,
		RetentionUntil: timestamp + int64(retentionDays)*secondsPerDay,
	}
	if err := store.AddEvent(event); err != nil {
		return nil, err
	}

	return &model.IngestionResult{
		Accepted:      true,
		EventID:       event.ID,
		SessionHash:   sessionHash,
		DroppedFields: minimized.Dropped,
	}, nil
}

// resolveSessionHash reuses a well-formed client token, otherwise derives a
// fresh anonymous session identifier from the transient request signals.
func (is *IngestionService) resolveSessionHash(request model.IngestionRequest, salt string) (string, error) {

	if request.SessionToken != "" && identity.ValidSessionID(request.SessionToken) {
		return request.SessionToken, nil
	}
	sessionHash, _, err := identity.DeriveSessionID(identity.Signals{
		UserAgent: request.UserAgent,
		IPAddress: request.IPAddress,
	}, salt)
	if err != nil {
		return "", err
	}
	return sessionHash, nil
}

const secondsPerDay = int64(24 * 60 * 60)
