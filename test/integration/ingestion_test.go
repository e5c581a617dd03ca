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
	eventmodel "github.com/postpulse/usage-insights-service/internal/events/model"
	eventservice "github.com/postpulse/usage-insights-service/internal/events/service"
	eventstore "github.com/postpulse/usage-insights-service/internal/events/store"
	"github.com/postpulse/usage-insights-service/internal/identity"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
)

func TestIngestionRejectedWithoutConsent(t *testing.T) {
	service := eventservice.GetIngestionService()
	subjectID := uuid.New().String()

	result, err := service.Ingest(eventmodel.IngestionRequest{
		EventType: "post_created",
		SubjectID: subjectID,
		Purpose:   constants.PurposeUsageAnalytics,
		UserAgent: "Mozilla/5.0",
		IPAddress: "203.0.113.7",
		Payload:   map[string]interface{}{"platform": "instagram"},
	})
	require.NoError(t, err, "a consent denial is a soft outcome, not an error")
	assert.False(t, result.Accepted)
	assert.Equal(t, eventmodel.RejectionConsentMissing, result.RejectionReason)

	events, err := eventstore.FindEventsBySubject(subjectID)
	require.NoError(t, err)
	assert.Empty(t, events, "rejected events must leave no trace in the store")
}

func TestIngestionConsentGatesPerPurpose(t *testing.T) {
	ctx := context.Background()
	consent := consentservice.GetConsentService()
	service := eventservice.GetIngestionService()
	subjectID := uuid.New().String()

	_, err := consent.SetConsent(ctx, subjectID, constants.CategoryBasicAnalytics, true)
	require.NoError(t, err)

	accepted, err := service.Ingest(eventmodel.IngestionRequest{
		EventType: "post_created",
		SubjectID: subjectID,
		Purpose:   constants.PurposeUsageAnalytics,
		UserAgent: "Mozilla/5.0",
		IPAddress: "203.0.113.7",
		Payload:   map[string]interface{}{"platform": "instagram"},
	})
	require.NoError(t, err)
	assert.True(t, accepted.Accepted)
	assert.NotEmpty(t, accepted.EventID)

	// The same subject without the hashtag_trends category gets the matching
	// purpose rejected while usage_analytics keeps flowing.
	rejected, err := service.Ingest(eventmodel.IngestionRequest{
		EventType: "hashtag_applied",
		SubjectID: subjectID,
		Purpose:   constants.PurposeHashtagTrendAnalysis,
		UserAgent: "Mozilla/5.0",
		IPAddress: "203.0.113.7",
		Payload:   map[string]interface{}{"hashtags": []string{"travel"}},
	})
	require.NoError(t, err)
	assert.False(t, rejected.Accepted)
	assert.Equal(t, eventmodel.RejectionConsentMissing, rejected.RejectionReason)
}

func TestIngestionStoresOnlyAllowedFields(t *testing.T) {
	ctx := context.Background()
	consent := consentservice.GetConsentService()
	service := eventservice.GetIngestionService()
	subjectID := uuid.New().String()

	_, err := consent.SetConsent(ctx, subjectID, constants.CategoryBasicAnalytics, true)
	require.NoError(t, err)

	result, err := service.Ingest(eventmodel.IngestionRequest{
		EventType: "post_created",
		SubjectID: subjectID,
		Purpose:   constants.PurposeUsageAnalytics,
		UserAgent: "Mozilla/5.0",
		IPAddress: "203.0.113.7",
		Payload: map[string]interface{}{
			"platform":     "instagram",
			"tone":         "casual",
			"device_model": "Pixel 9",
			"location":     "Berlin",
		},
	})
	require.NoError(t, err)
	require.True(t, result.Accepted)
	assert.ElementsMatch(t, []string{"device_model", "location"}, result.DroppedFields)

	events, err := eventstore.FindEventsBySubject(subjectID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	stored := events[0]
	allowed := constants.PurposePolicies[constants.PurposeUsageAnalytics].AllowedFields
	for key := range stored.Payload {
		assert.Contains(t, allowed, key, "stored payload key %q is outside the purpose allow-list", key)
	}
	assert.NotContains(t, stored.Payload, "device_model")
	assert.NotContains(t, stored.Payload, "location")
	assert.Equal(t, "instagram", stored.Platform)
	assert.Greater(t, stored.RetentionUntil, stored.Timestamp)
}

func TestIngestionHashesHashtagsAtRest(t *testing.T) {
	ctx := context.Background()
	consent := consentservice.GetConsentService()
	service := eventservice.GetIngestionService()
	subjectID := uuid.New().String()

	_, err := consent.SetConsent(ctx, subjectID, constants.CategoryHashtagTrends, true)
	require.NoError(t, err)

	result, err := service.Ingest(eventmodel.IngestionRequest{
		EventType: "hashtag_applied",
		SubjectID: subjectID,
		Purpose:   constants.PurposeHashtagTrendAnalysis,
		UserAgent: "Mozilla/5.0",
		IPAddress: "203.0.113.7",
		Payload:   map[string]interface{}{"hashtags": []string{"Travel", "foodie"}},
	})
	require.NoError(t, err)
	require.True(t, result.Accepted)

	events, err := eventstore.FindEventsBySubject(subjectID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	raw, ok := events[0].Payload["hashtags"].([]interface{})
	require.True(t, ok)
	require.Len(t, raw, 2)
	assert.Equal(t, identity.HashTag("Travel", "integration-salt"), raw[0])
	assert.Equal(t, identity.HashTag("foodie", "integration-salt"), raw[1])
	assert.NotContains(t, raw, "Travel")
	assert.NotContains(t, raw, "foodie")
}

func TestIngestionRejectsMalformedEvents(t *testing.T) {
	service := eventservice.GetIngestionService()

	unknown, err := service.Ingest(eventmodel.IngestionRequest{
		EventType: "page_scrolled",
		SubjectID: uuid.New().String(),
		Purpose:   constants.PurposeUsageAnalytics,
		Payload:   map[string]interface{}{},
	})
	require.NoError(t, err)
	assert.False(t, unknown.Accepted)
	assert.Equal(t, eventmodel.RejectionUnknownEventType, unknown.RejectionReason)

	missing, err := service.Ingest(eventmodel.IngestionRequest{
		EventType: "hashtag_applied",
		SubjectID: uuid.New().String(),
		Purpose:   constants.PurposeHashtagTrendAnalysis,
		Payload:   map[string]interface{}{"platform": "instagram"},
	})
	require.NoError(t, err)
	assert.False(t, missing.Accepted)
	assert.Equal(t, eventmodel.RejectionInvalidField, missing.RejectionReason)
}

func TestIngestionDerivesSessionHashFromSignals(t *testing.T) {
	ctx := context.Background()
	consent := consentservice.GetConsentService()
	service := eventservice.GetIngestionService()
	subjectID := uuid.New().String()

	_, err := consent.SetConsent(ctx, subjectID, constants.CategoryBasicAnalytics, true)
	require.NoError(t, err)

	// A malformed external token forces re-derivation from request signals.
	result, err := service.Ingest(eventmodel.IngestionRequest{
		EventType:    "session_started",
		SubjectID:    subjectID,
		Purpose:      constants.PurposeUsageAnalytics,
		SessionToken: "not-a-session-token",
		UserAgent:    "Mozilla/5.0",
		IPAddress:    "203.0.113.7",
		Payload:      map[string]interface{}{},
		Timestamp:    time.Now().Unix(),
	})
	require.NoError(t, err)
	require.True(t, result.Accepted)

	events, err := eventstore.FindEventsBySubject(subjectID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, identity.ValidSessionID(events[0].SessionHash))
	assert.NotEqual(t, "not-a-session-token", events[0].SessionHash)
}

func TestIngestionReturnsReplayableSessionHash(t *testing.T) {
	ctx := context.Background()
	consent := consentservice.GetConsentService()
	service := eventservice.GetIngestionService()
	subjectID := uuid.New().String()

	_, err := consent.SetConsent(ctx, subjectID, constants.CategoryBasicAnalytics, true)
	require.NoError(t, err)

	first, err := service.Ingest(eventmodel.IngestionRequest{
		EventType: "session_started",
		SubjectID: subjectID,
		Purpose:   constants.PurposeUsageAnalytics,
		UserAgent: "Mozilla/5.0",
		IPAddress: "203.0.113.7",
		Payload:   map[string]interface{}{},
	})
	require.NoError(t, err)
	require.True(t, first.Accepted)
	require.True(t, identity.ValidSessionID(first.SessionHash),
		"the result must hand back a token the client can persist")

	// Replaying the returned hash keeps both events in one session.
	second, err := service.Ingest(eventmodel.IngestionRequest{
		EventType:    "feature_used",
		SubjectID:    subjectID,
		Purpose:      constants.PurposeUsageAnalytics,
		SessionToken: first.SessionHash,
		Payload:      map[string]interface{}{"feature": "scheduler"},
	})
	require.NoError(t, err)
	require.True(t, second.Accepted)
	assert.Equal(t, first.SessionHash, second.SessionHash)

	events, err := eventstore.FindEventsBySubject(subjectID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, events[0].SessionHash, events[1].SessionHash)
}
