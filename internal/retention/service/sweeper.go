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

// Package service runs the data lifecycle jobs: purpose-based retention
// deletion and subject erasure after the withdrawal grace period.
package service

import (
	"context"
	"fmt"
	"time"

	consentstore "github.com/postpulse/usage-insights-service/internal/consent/store"
	eventstore "github.com/postpulse/usage-insights-service/internal/events/store"
	"github.com/postpulse/usage-insights-service/internal/identity"
	"github.com/postpulse/usage-insights-service/internal/system/config"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	"github.com/postpulse/usage-insights-service/internal/system/database/lock"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

// SweepResult summarizes one retention sweep run.
type SweepResult struct {
	Skipped        bool             `json:"skipped"`
	DeletedEvents  map[string]int64 `json:"deleted_events"`
	ErasedSubjects int              `json:"erased_subjects"`
}

// RetentionServiceInterface defines the retention sweep and erasure operations.
type RetentionServiceInterface interface {
	RunRetentionSweep(ctx context.Context) (*SweepResult, error)
	EraseSubject(ctx context.Context, subjectID string, initiatorType string) (int64, error)
}

// RetentionService is the default implementation of the RetentionServiceInterface.
type RetentionService struct{}

// GetRetentionService creates a new instance of RetentionService.
func GetRetentionService() RetentionServiceInterface {

	return &RetentionService{}
}

// RunRetentionSweep deletes events past their retention window and processes
// due erasure schedules. An advisory lock keeps the sweep single-flight; when
// another instance holds the lock the run is skipped, not queued. The sweep is
// idempotent: a second run over unchanged data deletes nothing.
func (rs *RetentionService) RunRetentionSweep(ctx context.Context) (*SweepResult, error) {

	logger := log.GetLogger()
	sweepLock := lock.NewPostgresLock()
	acquired, err := sweepLock.Acquire(constants.RetentionSweepLockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		logger.Info("Retention sweep already running elsewhere; skipping this run.")
		return &SweepResult{Skipped: true}, nil
	}
	defer func() {
		if err := sweepLock.Release(constants.RetentionSweepLockKey); err != nil {
			logger.Warn("Failed to release the retention sweep lock.", log.Error(err))
		}
	}()

	now := time.Now().Unix()
	deleted, err := eventstore.DeleteExpired(now)
	if err != nil {
		return nil, err
	}

	dueSubjects, err := consentstore.DueErasures(now)
	if err != nil {
		return nil, err
	}
	erased := 0
	for _, subjectID := range dueSubjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := rs.EraseSubject(ctx, subjectID, log.InitiatorTypeSystem); err != nil {
			logger.Error("Failed to erase subject during sweep.", log.Error(err))
			continue
		}
		erased++
	}

	total := int64(0)
	for _, count := range deleted {
		total += count
	}
	logger.Audit(log.AuditEvent{
		ActionID:      log.ActionRetentionSweep,
		InitiatorType: log.InitiatorTypeSystem,
		TargetType:    log.TargetTypeEventRetention,
		Data: map[string]interface{}{
			"deleted_events":  deleted,
			"erased_subjects": erased,
		},
	})
	logger.Info(fmt.Sprintf("Retention sweep finished: %d events deleted, %d subjects erased.",
		total, erased))

	return &SweepResult{DeletedEvents: deleted, ErasedSubjects: erased}, nil
}

// EraseSubject removes every trace of a subject: events, consent history, and
// any pending erasure schedule entry. Returns the number of deleted events.
func (rs *RetentionService) EraseSubject(ctx context.Context, subjectID,
	initiatorType string) (int64, error) {

	logger := log.GetLogger()
	deletedEvents, err := eventstore.DeleteBySubject(subjectID)
	if err != nil {
		return 0, err
	}
	if _, err := consentstore.DeleteConsentBySubject(subjectID); err != nil {
		return deletedEvents, err
	}
	if _, err := consentstore.CancelErasure(subjectID); err != nil {
		return deletedEvents, err
	}

	salt := config.GetUISRuntime().Config.Analytics.HashSalt
	logger.Audit(log.AuditEvent{
		ActionID:      log.ActionEraseSubject,
		InitiatorType: initiatorType,
		TargetType:    log.TargetTypeSubject,
		TargetID:      identity.HashSubjectID(subjectID, salt),
		Data:          map[string]interface{}{"deleted_events": deletedEvents},
	})
	return deletedEvents, nil
}
