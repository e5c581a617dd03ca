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

	eventmodel "github.com/postpulse/usage-insights-service/internal/events/model"
	model "github.com/postpulse/usage-insights-service/internal/trends/model"
)

func usageOf(counts map[string]int, subjects map[string]int) DimensionUsage {
	return DimensionUsage{Counts: counts, Subjects: subjects}
}

func TestScoreTrendsGrowthRate(t *testing.T) {
	current := usageOf(map[string]int{"travel": 30}, map[string]int{"travel": 4})
	previous := usageOf(map[string]int{"travel": 20}, nil)

	entries := ScoreTrends(model.DimensionHashtag, current, previous, 10)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.InDelta(t, 50.0, entry.GrowthRate, 0.001)
	// min(50, 60) + min(30, 15) + min(20, 8)
	assert.InDelta(t, 50+15+8, entry.TrendScore, 0.001)
}

func TestScoreTrendsNewEntrantNeverDividesByZero(t *testing.T) {
	// Used 12 times this window, never before: 100% growth by definition.
	current := usageOf(map[string]int{"sunset": 12}, map[string]int{"sunset": 3})
	previous := usageOf(map[string]int{}, nil)

	entries := ScoreTrends(model.DimensionHashtag, current, previous, 10)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.InDelta(t, 100.0, entry.GrowthRate, 0.001)
	// min(50, 24) + min(30, 30) + min(20, 6)
	assert.InDelta(t, 24+30+6, entry.TrendScore, 0.001)
}

func TestScoreTrendsBelowNewEntrantFloor(t *testing.T) {
	current := usageOf(map[string]int{"niche": 4}, map[string]int{"niche": 1})
	previous := usageOf(map[string]int{}, nil)

	entries := ScoreTrends(model.DimensionHashtag, current, previous, 10)
	assert.Empty(t, entries)
}

func TestScoreTrendsInclusionFilter(t *testing.T) {
	current := usageOf(
		map[string]int{"steady-high": 15, "slow-low": 6},
		map[string]int{"steady-high": 5, "slow-low": 2},
	)
	previous := usageOf(map[string]int{"steady-high": 14, "slow-low": 6}, nil)

	entries := ScoreTrends(model.DimensionHashtag, current, previous, 10)
	require.Len(t, entries, 1)
	// High volume keeps a flat key in; low volume with no growth drops out.
	assert.Equal(t, "steady-high", entries[0].Key)
}

func TestScoreTrendsTopNOrdering(t *testing.T) {
	current := usageOf(
		map[string]int{"a": 40, "b": 25, "c": 12},
		map[string]int{"a": 10, "b": 6, "c": 2},
	)
	previous := usageOf(map[string]int{"a": 10, "b": 10, "c": 10}, nil)

	entries := ScoreTrends(model.DimensionHashtag, current, previous, 2)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, "b", entries[1].Key)
	assert.GreaterOrEqual(t, entries[0].TrendScore, entries[1].TrendScore)
}

func TestCollectUsageDimensions(t *testing.T) {
	events := []eventmodel.Event{
		{
			SubjectID: "s1",
			Platform:  "instagram",
			Payload: map[string]interface{}{
				"hashtags": []interface{}{"h1", "h2"},
				"tone":     "casual",
			},
		},
		{
			SubjectID: "s1",
			Platform:  "instagram",
			Payload:   map[string]interface{}{"hashtags": []string{"h1"}},
		},
		{
			SubjectID: "s2",
			Platform:  "twitter",
			Payload:   map[string]interface{}{"tone": "casual"},
		},
	}

	hashtags := CollectUsage(events, model.DimensionHashtag)
	assert.Equal(t, 2, hashtags.Counts["h1"])
	assert.Equal(t, 1, hashtags.Subjects["h1"])

	platforms := CollectUsage(events, model.DimensionPlatform)
	assert.Equal(t, 2, platforms.Counts["instagram"])
	assert.Equal(t, 1, platforms.Counts["twitter"])

	tones := CollectUsage(events, model.DimensionTone)
	assert.Equal(t, 2, tones.Counts["casual"])
	assert.Equal(t, 2, tones.Subjects["casual"])
}

func TestClassifyGrowthPattern(t *testing.T) {
	testCases := []struct {
		name       string
		daily      []float64
		pattern    string
		confidence string
	}{
		{
			name:       "rising series",
			daily:      []float64{10, 12, 14, 16, 18, 20, 22},
			pattern:    model.PatternRising,
			confidence: model.ConfidenceHigh,
		},
		{
			name:       "declining series",
			daily:      []float64{22, 20, 18, 16, 14, 12, 10},
			pattern:    model.PatternDeclining,
			confidence: model.ConfidenceHigh,
		},
		{
			name:       "flat series",
			daily:      []float64{10, 10, 10, 10, 10},
			pattern:    model.PatternStable,
			confidence: model.ConfidenceHigh,
		},
		{
			name:       "volatile series is medium confidence",
			daily:      []float64{20, 8, 20, 8, 20, 8, 20},
			pattern:    model.PatternStable,
			confidence: model.ConfidenceMedium,
		},
		{
			name:       "empty series",
			daily:      nil,
			pattern:    model.PatternStable,
			confidence: model.ConfidenceMedium,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ClassifyGrowthPattern(tc.daily)
			assert.Equal(t, tc.pattern, result.Pattern)
			assert.Equal(t, tc.confidence, result.Confidence)
		})
	}
}
