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
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consentservice "github.com/postpulse/usage-insights-service/internal/consent/service"
	consentstore "github.com/postpulse/usage-insights-service/internal/consent/store"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
)

func TestConsentDefaultDeny(t *testing.T) {
	service := consentservice.GetConsentService()
	subjectID := uuid.New().String()

	granted, err := service.HasConsent(subjectID, constants.CategoryBasicAnalytics)
	require.NoError(t, err)
	assert.False(t, granted, "unknown subject must be denied")

	granted, err = service.HasConsent(subjectID, "marketing_emails")
	require.NoError(t, err)
	assert.False(t, granted, "unknown category must be denied")
}

func TestConsentGrantWithdrawCycle(t *testing.T) {
	ctx := context.Background()
	service := consentservice.GetConsentService()
	subjectID := uuid.New().String()

	record, err := service.SetConsent(ctx, subjectID, constants.CategoryBasicAnalytics, true)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Version)

	granted, err := service.HasConsent(subjectID, constants.CategoryBasicAnalytics)
	require.NoError(t, err)
	assert.True(t, granted)

	// Granting one category never implies another.
	granted, err = service.HasConsent(subjectID, constants.CategoryHashtagTrends)
	require.NoError(t, err)
	assert.False(t, granted)

	withdrawn, err := service.WithdrawConsent(ctx, subjectID, constants.CategoryBasicAnalytics)
	require.NoError(t, err)
	assert.Equal(t, 2, withdrawn.Version, "withdrawal appends a version, never rewrites")

	granted, err = service.HasConsent(subjectID, constants.CategoryBasicAnalytics)
	require.NoError(t, err)
	assert.False(t, granted, "withdrawal must be immediately visible")
}

func TestConsentStateReportsEveryCategory(t *testing.T) {
	ctx := context.Background()
	service := consentservice.GetConsentService()
	subjectID := uuid.New().String()

	_, err := service.SetConsent(ctx, subjectID, constants.CategoryPerformanceBenchmarking, true)
	require.NoError(t, err)

	state, err := service.GetConsentState(subjectID)
	require.NoError(t, err)
	require.Len(t, state, 4)
	assert.True(t, state[constants.CategoryPerformanceBenchmarking])
	assert.False(t, state[constants.CategoryBasicAnalytics])
	assert.False(t, state[constants.CategoryHashtagTrends])
	assert.False(t, state[constants.CategoryProductImprovement])
}

func TestConcurrentConsentWritesAssignUniqueVersions(t *testing.T) {
	ctx := context.Background()
	service := consentservice.GetConsentService()
	subjectID := uuid.New().String()

	const writers = 4
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(granted bool) {
			defer wg.Done()
			_, err := service.SetConsent(ctx, subjectID, constants.CategoryProductImprovement, granted)
			errs <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err, "racing writers must retry version collisions, not fail")
	}

	latest, err := consentstore.GetLatestConsent(subjectID, constants.CategoryProductImprovement)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, writers, latest.Version, "every write must land on its own version")
}

func TestWithdrawAllSchedulesErasureAndRegrantCancels(t *testing.T) {
	ctx := context.Background()
	service := consentservice.GetConsentService()
	subjectID := uuid.New().String()

	_, err := service.SetConsent(ctx, subjectID, constants.CategoryBasicAnalytics, true)
	require.NoError(t, err)
	_, err = service.SetConsent(ctx, subjectID, constants.CategoryHashtagTrends, true)
	require.NoError(t, err)

	schedule, err := service.WithdrawAll(ctx, subjectID)
	require.NoError(t, err)
	assert.Greater(t, schedule.DeleteAfter, schedule.ScheduledAt)

	granted, err := service.HasConsent(subjectID, constants.CategoryBasicAnalytics)
	require.NoError(t, err)
	assert.False(t, granted)

	due, err := consentstore.DueErasures(schedule.DeleteAfter + 1)
	require.NoError(t, err)
	assert.Contains(t, due, subjectID)

	// Re-granting any category inside the grace period undoes the erasure.
	_, err = service.SetConsent(ctx, subjectID, constants.CategoryBasicAnalytics, true)
	require.NoError(t, err)

	due, err = consentstore.DueErasures(schedule.DeleteAfter + 1)
	require.NoError(t, err)
	assert.NotContains(t, due, subjectID)
}
