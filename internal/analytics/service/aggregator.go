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

// Package service computes rolling community baselines. The aggregation is
// deliberately simple arithmetic: recomputable and auditable, no weighting,
// no decay.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	model "github.com/postpulse/usage-insights-service/internal/analytics/model"
	eventmodel "github.com/postpulse/usage-insights-service/internal/events/model"
	eventstore "github.com/postpulse/usage-insights-service/internal/events/store"
	"github.com/postpulse/usage-insights-service/internal/system/cache"
	"github.com/postpulse/usage-insights-service/internal/system/config"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
)

// TopHashtagCount bounds the hashtag distribution carried by a baseline.
const TopHashtagCount = 10

var (
	baselineCache     *cache.Cache
	baselineCacheOnce sync.Once
)

func getBaselineCache() *cache.Cache {

	baselineCacheOnce.Do(func() {
		ttl := config.GetUISRuntime().Config.Analytics.BaselineCacheTTLMinutes
		baselineCache = cache.NewCache(time.Duration(ttl) * time.Minute)
	})
	return baselineCache
}

// AggregatorServiceInterface defines community baseline computation.
type AggregatorServiceInterface interface {
	GetBaseline(ctx context.Context, windowDays int) (*model.CommunityBaseline, error)
	ComputeBaseline(ctx context.Context, window model.Window) (*model.CommunityBaseline, error)
	RefreshBaseline(ctx context.Context, windowDays int) error
}

// AggregatorService is the default implementation of the AggregatorServiceInterface.
type AggregatorService struct{}

// GetAggregatorService creates a new instance of AggregatorService.
func GetAggregatorService() AggregatorServiceInterface {

	return &AggregatorService{}
}

// GetBaseline returns the cached baseline for a trailing window, computing it
// on a miss. When recomputation fails and an expired entry survives, that
// entry is returned flagged stale rather than failing the caller.
func (as *AggregatorService) GetBaseline(ctx context.Context, windowDays int) (*model.CommunityBaseline, error) {

	logger := log.GetLogger()
	key := baselineCacheKey(windowDays)
	if cached, found := getBaselineCache().Get(key); found {
		if baseline, ok := cached.(*model.CommunityBaseline); ok {
			return baseline, nil
		}
	}

	baseline, err := as.ComputeBaseline(ctx, trailingWindow(windowDays))
	if err != nil {
		if stale, found := getBaselineCache().GetStale(key); found {
			if previous, ok := stale.(*model.CommunityBaseline); ok {
				logger.Warn("Baseline recomputation failed; serving stale baseline.", log.Error(err))
				staleCopy := *previous
				staleCopy.Stale = true
				return &staleCopy, nil
			}
		}
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AGGREGATION_INCOMPLETE.Code,
			Message:     errors2.AGGREGATION_INCOMPLETE.Message,
			Description: "Baseline computation failed and no previous baseline is cached.",
		}, err)
	}

	getBaselineCache().Set(key, baseline)
	return baseline, nil
}

// RefreshBaseline recomputes the baseline for the window and replaces the
// cache entry. A failed computation leaves the previous entry untouched.
func (as *AggregatorService) RefreshBaseline(ctx context.Context, windowDays int) error {

	baseline, err := as.ComputeBaseline(ctx, trailingWindow(windowDays))
	if err != nil {
		return err
	}
	getBaselineCache().Set(baselineCacheKey(windowDays), baseline)
	return nil
}

// ComputeBaseline aggregates event store rows within the window. Subjects
// with fewer events than the configured minimum are excluded so single-event
// noise cannot dominate the baseline.
func (as *AggregatorService) ComputeBaseline(ctx context.Context,
	window model.Window) (*model.CommunityBaseline, error) {

	events, err := eventstore.FindEventsInRange(window.Start, window.End)
	if err != nil {
		return nil, err
	}
	minActivity := config.GetUISRuntime().Config.Analytics.MinSubjectActivity
	return AggregateEvents(ctx, window, events, minActivity, TopHashtagCount)
}

// AggregateEvents is the pure aggregation core, separated from fetching for
// testability. It honors ctx cancellation between subjects.
func AggregateEvents(ctx context.Context, window model.Window, events []eventmodel.Event,
	minActivity, topN int) (*model.CommunityBaseline, error) {

	bySubject := make(map[string][]eventmodel.Event)
	for _, event := range events {
		bySubject[event.SubjectID] = append(bySubject[event.SubjectID], event)
	}

	subjects := make([]string, 0, len(bySubject))
	for subject, subjectEvents := range bySubject {
		if len(subjectEvents) >= minActivity {
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)

	var (
		engagementSum    float64
		engagementCount  int
		sessionCountSum  int
		platformSums     = make(map[string]float64)
		platformCounts   = make(map[string]int)
		hashtagCounts    = make(map[string]int)
		hashtagFirstSeen = make(map[string]int64)
	)

	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sessions := make(map[string]bool)
		for _, event := range bySubject[subject] {
			sessions[event.SessionHash] = true

			if raw, present := event.Payload[constants.FieldEngagementScore]; present {
				if score, err := utils.ToFloat(raw); err == nil {
					engagementSum += score
					engagementCount++
					if event.Platform != "" {
						platformSums[event.Platform] += score
						platformCounts[event.Platform]++
					}
				}
			}
			for _, hash := range eventmodel.PayloadHashtags(event.Payload) {
				hashtagCounts[hash]++
				if seen, ok := hashtagFirstSeen[hash]; !ok || event.Timestamp < seen {
					hashtagFirstSeen[hash] = event.Timestamp
				}
			}
		}
		sessionCountSum += len(sessions)
	}

	baseline := &model.CommunityBaseline{
		WindowStart:      window.Start,
		WindowEnd:        window.End,
		PlatformAverages: make(map[string]float64, len(platformSums)),
		TopHashtags:      topHashtags(hashtagCounts, hashtagFirstSeen, topN),
		SubjectCount:     len(subjects),
	}
	if engagementCount > 0 {
		baseline.AverageEngagement = engagementSum / float64(engagementCount)
	}
	if len(subjects) > 0 {
		baseline.AverageSessionCount = float64(sessionCountSum) / float64(len(subjects))
	}
	for platform, sum := range platformSums {
		baseline.PlatformAverages[platform] = sum / float64(platformCounts[platform])
	}
	return baseline, nil
}

// topHashtags ranks by raw count descending; ties broken by earliest
// first-seen timestamp, then lexicographically so the order is total.
func topHashtags(counts map[string]int, firstSeen map[string]int64, topN int) []model.HashtagCount {

	ranked := make([]model.HashtagCount, 0, len(counts))
	for hash, count := range counts {
		ranked = append(ranked, model.HashtagCount{Hash: hash, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		if firstSeen[ranked[i].Hash] != firstSeen[ranked[j].Hash] {
			return firstSeen[ranked[i].Hash] < firstSeen[ranked[j].Hash]
		}
		return ranked[i].Hash < ranked[j].Hash
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func trailingWindow(windowDays int) model.Window {

	end := time.Now().Unix()
	return model.Window{Start: end - int64(windowDays)*86400, End: end}
}

func baselineCacheKey(windowDays int) string {

	return fmt.Sprintf("community_baseline:%dd", windowDays)
}
