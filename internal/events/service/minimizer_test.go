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

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/postpulse/usage-insights-service/internal/events/model"
	"github.com/postpulse/usage-insights-service/internal/identity"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
)

const testSalt = "unit-test-salt"

func TestMinimizePayloadAppliesAllowList(t *testing.T) {
	payload := map[string]interface{}{
		"platform":       "instagram",
		"tone":           "casual",
		"content_length": 240,
		"hashtags":       []string{"summer"},
		"draft_text":     "never store this",
	}

	result, reason := MinimizePayload(constants.PurposeUsageAnalytics, testSalt, payload)
	require.Empty(t, reason)

	assert.Equal(t, "instagram", result.Payload["platform"])
	assert.Equal(t, "casual", result.Payload["tone"])
	assert.Equal(t, float64(240), result.Payload["content_length"])
	assert.NotContains(t, result.Payload, "hashtags")
	assert.NotContains(t, result.Payload, "draft_text")
	assert.ElementsMatch(t, []string{"hashtags", "draft_text"}, result.Dropped)
}

func TestMinimizePayloadUnknownPurposeDegradesToMinimalAllowList(t *testing.T) {
	payload := map[string]interface{}{
		"platform":         "twitter",
		"engagement_score": 4.2,
		"tone":             "casual",
	}

	result, reason := MinimizePayload("market_research", testSalt, payload)
	require.Empty(t, reason)

	assert.Equal(t, "twitter", result.Payload["platform"])
	assert.NotContains(t, result.Payload, "engagement_score")
	assert.NotContains(t, result.Payload, "tone")
}

func TestMinimizePayloadHashesHashtags(t *testing.T) {
	payload := map[string]interface{}{
		"platform": "instagram",
		"hashtags": []interface{}{"#Summer", "travel"},
	}

	result, reason := MinimizePayload(constants.PurposeHashtagTrendAnalysis, testSalt, payload)
	require.Empty(t, reason)

	hashed, ok := result.Payload["hashtags"].([]string)
	require.True(t, ok)
	require.Len(t, hashed, 2)
	assert.Equal(t, identity.HashTag("summer", testSalt), hashed[0])
	assert.Equal(t, identity.HashTag("travel", testSalt), hashed[1])
	for _, h := range hashed {
		assert.NotContains(t, h, "summer")
		assert.NotContains(t, h, "travel")
	}
}

func TestMinimizePayloadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name    string
		purpose string
		payload map[string]interface{}
	}{
		{
			name:    "unknown platform",
			purpose: constants.PurposeUsageAnalytics,
			payload: map[string]interface{}{"platform": "myspace"},
		},
		{
			name:    "ip shaped string",
			purpose: constants.PurposeFeatureImprovement,
			payload: map[string]interface{}{"feature": "192.168.1.20"},
		},
		{
			name:    "free text value",
			purpose: constants.PurposeFeatureImprovement,
			payload: map[string]interface{}{"feature": "clicked the big blue button"},
		},
		{
			name:    "posting hour out of range",
			purpose: constants.PurposeUsageAnalytics,
			payload: map[string]interface{}{"posting_hour": 24},
		},
		{
			name:    "negative engagement",
			purpose: constants.PurposePerformanceBenchmarking,
			payload: map[string]interface{}{"engagement_score": -1.0},
		},
		{
			name:    "hashtags wrong type",
			purpose: constants.PurposeHashtagTrendAnalysis,
			payload: map[string]interface{}{"hashtags": "summer"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, reason := MinimizePayload(tc.purpose, testSalt, tc.payload)
			assert.Equal(t, model.RejectionInvalidField, reason)
		})
	}
}

func TestValidateEvent(t *testing.T) {
	testCases := []struct {
		name      string
		eventType string
		payload   map[string]interface{}
		expected  string
	}{
		{
			name:      "known type with required fields",
			eventType: "post_created",
			payload:   map[string]interface{}{"platform": "instagram"},
			expected:  "",
		},
		{
			name:      "unknown type",
			eventType: "page_viewed",
			payload:   map[string]interface{}{},
			expected:  model.RejectionUnknownEventType,
		},
		{
			name:      "missing required field",
			eventType: "feature_used",
			payload:   map[string]interface{}{"platform": "instagram"},
			expected:  model.RejectionInvalidField,
		},
		{
			name:      "session start needs nothing",
			eventType: "session_started",
			payload:   map[string]interface{}{},
			expected:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ValidateEvent(tc.eventType, tc.payload))
		})
	}
}
