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

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consentservice "github.com/postpulse/usage-insights-service/internal/consent/service"
	consentstore "github.com/postpulse/usage-insights-service/internal/consent/store"
	eventmodel "github.com/postpulse/usage-insights-service/internal/events/model"
	eventstore "github.com/postpulse/usage-insights-service/internal/events/store"
	retentionservice "github.com/postpulse/usage-insights-service/internal/retention/service"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	"github.com/postpulse/usage-insights-service/internal/system/database/lock"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

const testSessionHash = "0123456789abcdef0123456789abcdef"

func addEventWithRetention(t *testing.T, subjectID, purpose string, retentionUntil int64) string {
	t.Helper()
	event := eventmodel.Event{
		ID:             uuid.New().String(),
		EventType:      "post_created",
		SessionHash:    testSessionHash,
		SubjectID:      subjectID,
		Platform:       "instagram",
		Purpose:        purpose,
		Payload:        map[string]interface{}{"platform": "instagram"},
		Timestamp:      time.Now().Unix() - 120,
		RetentionUntil: retentionUntil,
	}
	require.NoError(t, eventstore.AddEvent(event))
	return event.ID
}

func TestRetentionSweepDeletesExpiredEventsOnly(t *testing.T) {
	ctx := context.Background()
	service := retentionservice.GetRetentionService()
	subjectID := uuid.New().String()
	now := time.Now().Unix()

	addEventWithRetention(t, subjectID, constants.PurposeUsageAnalytics, now-3600)
	addEventWithRetention(t, subjectID, constants.PurposeUsageAnalytics, now-60)
	keptID := addEventWithRetention(t, subjectID, constants.PurposeUsageAnalytics, now+86400)

	result, err := service.RunRetentionSweep(ctx)
	require.NoError(t, err)
	require.False(t, result.Skipped)
	assert.GreaterOrEqual(t, result.DeletedEvents[constants.PurposeUsageAnalytics], int64(2))

	remaining, err := eventstore.FindEventsBySubject(subjectID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keptID, remaining[0].ID)
}

func TestRetentionSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service := retentionservice.GetRetentionService()
	subjectID := uuid.New().String()

	addEventWithRetention(t, subjectID, constants.PurposeFeatureImprovement, time.Now().Unix()-300)

	first, err := service.RunRetentionSweep(ctx)
	require.NoError(t, err)
	require.False(t, first.Skipped)
	assert.GreaterOrEqual(t, first.DeletedEvents[constants.PurposeFeatureImprovement], int64(1))

	second, err := service.RunRetentionSweep(ctx)
	require.NoError(t, err)
	require.False(t, second.Skipped)
	total := int64(0)
	for _, count := range second.DeletedEvents {
		total += count
	}
	assert.Zero(t, total, "a repeat sweep over unchanged data must delete nothing")
}

func TestRetentionSweepProcessesDueErasures(t *testing.T) {
	ctx := context.Background()
	consent := consentservice.GetConsentService()
	service := retentionservice.GetRetentionService()
	subjectID := uuid.New().String()
	now := time.Now().Unix()

	_, err := consent.SetConsent(ctx, subjectID, constants.CategoryBasicAnalytics, true)
	require.NoError(t, err)
	addEventWithRetention(t, subjectID, constants.PurposeUsageAnalytics, now+86400)

	// A schedule whose grace period has already elapsed is due immediately.
	require.NoError(t, consentstore.ScheduleErasure(subjectID, now-7200, now-3600))

	result, err := service.RunRetentionSweep(ctx)
	require.NoError(t, err)
	require.False(t, result.Skipped)
	assert.GreaterOrEqual(t, result.ErasedSubjects, 1)

	events, err := eventstore.FindEventsBySubject(subjectID)
	require.NoError(t, err)
	assert.Empty(t, events, "erasure must remove events regardless of retention_until")

	records, err := consentstore.GetLatestConsentPerCategory(subjectID)
	require.NoError(t, err)
	assert.Empty(t, records, "erasure must remove the consent history")

	due, err := consentstore.DueErasures(now + 1)
	require.NoError(t, err)
	assert.NotContains(t, due, subjectID, "a processed schedule must not fire twice")
}

func TestSweepLockHeldAcrossCalls(t *testing.T) {
	holder := lock.NewPostgresLock()
	acquired, err := holder.Acquire(constants.RetentionSweepLockKey)
	require.NoError(t, err)
	require.True(t, acquired)

	// The lock must survive between Acquire and Release on its own session,
	// so a second instance cannot take it.
	contender := lock.NewPostgresLock()
	acquired, err = contender.Acquire(constants.RetentionSweepLockKey)
	require.NoError(t, err)
	assert.False(t, acquired)

	result, err := retentionservice.GetRetentionService().RunRetentionSweep(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped, "a sweep must skip while the lock is held elsewhere")

	require.NoError(t, holder.Release(constants.RetentionSweepLockKey))

	reacquired := lock.NewPostgresLock()
	acquired, err = reacquired.Acquire(constants.RetentionSweepLockKey)
	require.NoError(t, err)
	assert.True(t, acquired, "release must free the key for the next holder")
	require.NoError(t, reacquired.Release(constants.RetentionSweepLockKey))
}

func TestEraseSubjectOnDemand(t *testing.T) {
	ctx := context.Background()
	consent := consentservice.GetConsentService()
	service := retentionservice.GetRetentionService()
	subjectID := uuid.New().String()
	now := time.Now().Unix()

	_, err := consent.SetConsent(ctx, subjectID, constants.CategoryHashtagTrends, true)
	require.NoError(t, err)
	addEventWithRetention(t, subjectID, constants.PurposeHashtagTrendAnalysis, now+86400)
	addEventWithRetention(t, subjectID, constants.PurposeHashtagTrendAnalysis, now+172800)

	deleted, err := service.EraseSubject(ctx, subjectID, log.InitiatorTypeSubject)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	granted, err := consent.HasConsent(subjectID, constants.CategoryHashtagTrends)
	require.NoError(t, err)
	assert.False(t, granted, "erasure leaves the subject back at default deny")
}
