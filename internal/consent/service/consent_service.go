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

// Package service provides the consent decisions that gate every piece of
// usage data the service touches. Absence of a record always means denial.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	model "github.com/postpulse/usage-insights-service/internal/consent/model"
	store "github.com/postpulse/usage-insights-service/internal/consent/store"
	"github.com/postpulse/usage-insights-service/internal/identity"
	"github.com/postpulse/usage-insights-service/internal/system/config"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

const secondsPerDay = int64(24 * 60 * 60)

// ConsentServiceInterface defines consent state checks and mutations.
type ConsentServiceInterface interface {
	HasConsent(subjectID, category string) (bool, error)
	SetConsent(ctx context.Context, subjectID, category string, granted bool) (*model.ConsentRecord, error)
	WithdrawConsent(ctx context.Context, subjectID, category string) (*model.ConsentRecord, error)
	WithdrawAll(ctx context.Context, subjectID string) (*model.ErasureSchedule, error)
	GetConsentState(subjectID string) (map[string]bool, error)
}

// ConsentService is the default implementation of the ConsentServiceInterface.
type ConsentService struct{}

// GetConsentService creates a new instance of ConsentService.
func GetConsentService() ConsentServiceInterface {

	return &ConsentService{}
}

// HasConsent reports whether the subject currently grants the category.
// The result is never cached; every gating decision reads the store so a
// withdrawal takes effect immediately.
func (cs *ConsentService) HasConsent(subjectID, category string) (bool, error) {

	if !isKnownCategory(category) {
		return false, nil
	}
	record, err := store.GetLatestConsent(subjectID, category)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	return record.Granted && record.WithdrawnAt == 0, nil
}

// SetConsent appends a new consent record version for the category.
// Granting any category cancels a pending erasure for the subject.
func (cs *ConsentService) SetConsent(ctx context.Context, subjectID, category string,
	granted bool) (*model.ConsentRecord, error) {

	logger := log.GetLogger()
	if subjectID == "" {
		return nil, errors2.NewClientError(errors2.SUBJECT_ID_REQUIRED, 400)
	}
	if !isKnownCategory(category) {
		return nil, errors2.NewClientError(errors2.INVALID_CONSENT_CATEGORY, 400)
	}

	now := time.Now().Unix()
	record := model.ConsentRecord{
		RecordID:  uuid.New().String(),
		SubjectID: subjectID,
		Category:  category,
		Granted:   granted,
		GrantedAt: now,
	}
	if !granted {
		record.WithdrawnAt = now
	}

	added, err := store.AddConsentRecord(record)
	if err != nil {
		return nil, err
	}

	action := log.ActionGrantConsent
	if !granted {
		action = log.ActionWithdrawConsent
	}
	cs.recordAudit(ctx, subjectID, category, action)

	if granted {
		cancelled, err := store.CancelErasure(subjectID)
		if err != nil {
			logger.Warn("Failed to check pending erasure on consent grant.", log.Error(err))
		} else if cancelled {
			cs.recordAudit(ctx, subjectID, category, log.ActionCancelErase)
			logger.Info("Cancelled pending erasure on consent re-grant.")
		}
	}
	return added, nil
}

// WithdrawConsent withdraws a single category for the subject.
func (cs *ConsentService) WithdrawConsent(ctx context.Context, subjectID,
	category string) (*model.ConsentRecord, error) {

	return cs.SetConsent(ctx, subjectID, category, false)
}

// WithdrawAll withdraws every granted category and schedules erasure of the
// subject's data after the configured grace period.
func (cs *ConsentService) WithdrawAll(ctx context.Context, subjectID string) (*model.ErasureSchedule, error) {

	logger := log.GetLogger()
	if subjectID == "" {
		return nil, errors2.NewClientError(errors2.SUBJECT_ID_REQUIRED, 400)
	}

	records, err := store.GetLatestConsentPerCategory(subjectID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Granted && record.WithdrawnAt == 0 {
			if _, err := cs.SetConsent(ctx, subjectID, record.Category, false); err != nil {
				return nil, err
			}
		}
	}

	graceDays := config.GetUISRuntime().Config.Analytics.ErasureGraceDays
	now := time.Now().Unix()
	schedule := model.ErasureSchedule{
		SubjectID:   subjectID,
		ScheduledAt: now,
		DeleteAfter: now + int64(graceDays)*secondsPerDay,
	}
	if err := store.ScheduleErasure(subjectID, schedule.ScheduledAt, schedule.DeleteAfter); err != nil {
		return nil, err
	}
	cs.recordAudit(ctx, subjectID, "", log.ActionWithdrawAll)
	cs.recordAudit(ctx, subjectID, "", log.ActionScheduleErase)
	logger.Info(fmt.Sprintf("Scheduled erasure after %d day grace period.", graceDays))

	return &schedule, nil
}

// GetConsentState returns the effective granted flag for every known category.
// Categories with no record report false.
func (cs *ConsentService) GetConsentState(subjectID string) (map[string]bool, error) {

	if subjectID == "" {
		return nil, errors2.NewClientError(errors2.SUBJECT_ID_REQUIRED, 400)
	}
	records, err := store.GetLatestConsentPerCategory(subjectID)
	if err != nil {
		return nil, err
	}

	state := make(map[string]bool, len(constants.AllowedConsentCategories))
	for category := range constants.AllowedConsentCategories {
		state[category] = false
	}
	for _, record := range records {
		if _, known := state[record.Category]; known {
			state[record.Category] = record.Granted && record.WithdrawnAt == 0
		}
	}
	return state, nil
}

// recordAudit writes the decision to the application audit log and,
// best-effort, to the durable audit trail. Trail failures are logged and
// never surfaced to the caller.
func (cs *ConsentService) recordAudit(ctx context.Context, subjectID, category, action string) {

	logger := log.GetLogger()
	salt := config.GetUISRuntime().Config.Analytics.HashSalt
	subjectHash := identity.HashSubjectID(subjectID, salt)

	logger.Audit(log.AuditEvent{
		ActionID:      action,
		InitiatorType: log.InitiatorTypeSubject,
		InitiatorID:   subjectHash,
		TargetType:    log.TargetTypeConsentRecord,
		TargetID:      category,
	})

	repo, err := store.NewAuditRepository(ctx)
	if err != nil {
		logger.Warn("Audit trail unavailable; decision recorded in application log only.", log.Error(err))
		return
	}
	defer func() {
		if err := repo.Close(ctx); err != nil {
			logger.Debug("Failed to close audit trail client.", log.Error(err))
		}
	}()

	entry := model.AuditEntry{
		SubjectHash: subjectHash,
		Category:    category,
		Action:      action,
		RecordedAt:  time.Now().Unix(),
	}
	if err := repo.AddEntry(ctx, entry); err != nil {
		logger.Warn("Failed to append to the audit trail.", log.Error(err))
	}
}

func isKnownCategory(category string) bool {

	return constants.AllowedConsentCategories[category]
}
