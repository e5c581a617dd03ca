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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/postpulse/usage-insights-service/internal/analytics/model"
	eventmodel "github.com/postpulse/usage-insights-service/internal/events/model"
)

func makeEvent(subject, session, platform string, timestamp int64,
	payload map[string]interface{}) eventmodel.Event {

	return eventmodel.Event{
		EventType:   "post_published",
		SubjectID:   subject,
		SessionHash: session,
		Platform:    platform,
		Payload:     payload,
		Timestamp:   timestamp,
	}
}

func TestAggregateEventsExcludesLowActivitySubjects(t *testing.T) {
	window := model.Window{Start: 0, End: 1000}
	events := []eventmodel.Event{
		makeEvent("active", "s1", "instagram", 10, map[string]interface{}{"engagement_score": 10.0}),
		makeEvent("active", "s1", "instagram", 20, map[string]interface{}{"engagement_score": 20.0}),
		makeEvent("active", "s2", "instagram", 30, map[string]interface{}{"engagement_score": 30.0}),
		// One event only; must not influence the averages.
		makeEvent("drive-by", "s9", "tiktok", 40, map[string]interface{}{"engagement_score": 1000.0}),
	}

	baseline, err := AggregateEvents(context.Background(), window, events, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, baseline.SubjectCount)
	assert.InDelta(t, 20.0, baseline.AverageEngagement, 0.001)
	assert.NotContains(t, baseline.PlatformAverages, "tiktok")
	assert.InDelta(t, 20.0, baseline.PlatformAverages["instagram"], 0.001)
	assert.InDelta(t, 2.0, baseline.AverageSessionCount, 0.001)
}

func TestAggregateEventsTopHashtagTieBreak(t *testing.T) {
	window := model.Window{Start: 0, End: 1000}
	payloadWith := func(tags ...string) map[string]interface{} {
		items := make([]interface{}, len(tags))
		for i, tag := range tags {
			items[i] = tag
		}
		return map[string]interface{}{"hashtags": items}
	}
	events := []eventmodel.Event{
		makeEvent("a", "s1", "instagram", 100, payloadWith("late")),
		makeEvent("a", "s1", "instagram", 10, payloadWith("early")),
		makeEvent("a", "s1", "instagram", 200, payloadWith("late", "early", "top")),
		makeEvent("a", "s1", "instagram", 300, payloadWith("top", "top")),
	}

	baseline, err := AggregateEvents(context.Background(), window, events, 1, 2)
	require.NoError(t, err)

	// "top" wins on count; "early" and "late" tie at 2 and the earlier
	// first-seen timestamp breaks the tie.
	require.Len(t, baseline.TopHashtags, 2)
	assert.Equal(t, "top", baseline.TopHashtags[0].Hash)
	assert.Equal(t, 3, baseline.TopHashtags[0].Count)
	assert.Equal(t, "early", baseline.TopHashtags[1].Hash)
	assert.Equal(t, 2, baseline.TopHashtags[1].Count)
}

func TestAggregateEventsEmptyStore(t *testing.T) {
	baseline, err := AggregateEvents(context.Background(), model.Window{Start: 0, End: 10}, nil, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, baseline.SubjectCount)
	assert.Zero(t, baseline.AverageEngagement)
	assert.Zero(t, baseline.AverageSessionCount)
	assert.Empty(t, baseline.TopHashtags)
}

func TestAggregateEventsHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := []eventmodel.Event{
		makeEvent("a", "s1", "instagram", 10, nil),
		makeEvent("a", "s1", "instagram", 20, nil),
		makeEvent("a", "s1", "instagram", 30, nil),
	}
	_, err := AggregateEvents(ctx, model.Window{Start: 0, End: 100}, events, 1, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
