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
	"fmt"
	"regexp"
	"sort"
	"strings"

	model "github.com/postpulse/usage-insights-service/internal/events/model"
	"github.com/postpulse/usage-insights-service/internal/identity"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	"github.com/postpulse/usage-insights-service/internal/system/log"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
)

// maxStringValueLength caps every string payload value. Longer values are
// treated as free text, which the service never stores.
const maxStringValueLength = 64

const maxPostingHour = 23

var ipShapedPattern = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$|^[0-9a-fA-F:]{2,}::|:[0-9a-fA-F:]+:`)

// requiredPayloadFields lists the payload fields each event type must carry.
var requiredPayloadFields = map[string][]string{
	"post_created":    {constants.FieldPlatform},
	"post_published":  {constants.FieldPlatform},
	"hashtag_applied": {constants.FieldHashtags},
	"feature_used":    {constants.FieldFeature},
	"session_started": {},
}

// MinimizeResult is the outcome of payload minimization for an accepted event.
type MinimizeResult struct {
	Payload map[string]interface{}
	Dropped []string
}

// ValidateEvent checks the event type and its required payload fields.
// It returns a rejection reason, or empty when the event is well formed.
func ValidateEvent(eventType string, payload map[string]interface{}) string {

	logger := log.GetLogger()
	required, known := requiredPayloadFields[eventType]
	if !known || !constants.AllowedEventTypes[eventType] {
		logger.Warn(fmt.Sprintf("Rejected event with unknown type: %s", eventType))
		return model.RejectionUnknownEventType
	}
	for _, field := range required {
		if _, present := payload[field]; !present {
			return model.RejectionInvalidField
		}
	}
	return ""
}

// MinimizePayload applies the purpose allow-list and field sanitizers to a raw
// payload. Fields outside the allow-list are dropped silently; fields inside
// it that fail sanitization reject the event. The second return value is a
// rejection reason, or empty when the payload was accepted.
func MinimizePayload(purpose, hashSalt string, payload map[string]interface{}) (*MinimizeResult, string) {

	logger := log.GetLogger()
	policy, known := constants.PurposePolicies[purpose]
	allowed := policy.AllowedFields
	excluded := policy.ExcludedFields
	if !known {
		logger.Warn(fmt.Sprintf("Unknown collection purpose %q; applying minimal allow-list.", purpose))
		allowed = constants.DefaultAllowedFields
		excluded = nil
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	minimized := make(map[string]interface{}, len(payload))
	dropped := make([]string, 0)
	for _, key := range keys {
		if excluded[key] || !allowed[key] {
			dropped = append(dropped, key)
			continue
		}
		value, reason := sanitizeField(key, hashSalt, payload[key])
		if reason != "" {
			return nil, reason
		}
		minimized[key] = value
	}
	return &MinimizeResult{Payload: minimized, Dropped: dropped}, ""
}

// sanitizeField normalizes one allow-listed field value. Hashtags are replaced
// with salted hashes; anything that looks like an address or free text is
// rejected rather than stored.
func sanitizeField(key, hashSalt string, value interface{}) (interface{}, string) {

	switch key {
	case constants.FieldHashtags:
		tags, ok := toStringSlice(value)
		if !ok {
			return nil, model.RejectionInvalidField
		}
		hashed := make([]string, 0, len(tags))
		for _, tag := range tags {
			if strings.TrimSpace(tag) == "" {
				continue
			}
			hashed = append(hashed, identity.HashTag(tag, hashSalt))
		}
		return hashed, ""
	case constants.FieldPlatform:
		platform, ok := value.(string)
		if !ok || !constants.AllowedPlatforms[strings.ToLower(platform)] {
			return nil, model.RejectionInvalidField
		}
		return strings.ToLower(platform), ""
	case constants.FieldTone:
		tone, ok := value.(string)
		if !ok || !constants.AllowedTones[strings.ToLower(tone)] {
			return nil, model.RejectionInvalidField
		}
		return strings.ToLower(tone), ""
	case constants.FieldHashtagCount, constants.FieldContentLength,
		constants.FieldEngagementScore, constants.FieldDurationMs:
		number, err := utils.ToFloat(value)
		if err != nil || number < 0 {
			return nil, model.RejectionInvalidField
		}
		return number, ""
	case constants.FieldPostingHour:
		hour, err := utils.ToFloat(value)
		if err != nil || hour < 0 || hour > maxPostingHour {
			return nil, model.RejectionInvalidField
		}
		return int(hour), ""
	default:
		return sanitizeString(value)
	}
}

func sanitizeString(value interface{}) (interface{}, string) {

	text, ok := value.(string)
	if !ok {
		if _, err := utils.ToFloat(value); err == nil {
			return value, ""
		}
		return nil, model.RejectionInvalidField
	}
	text = strings.TrimSpace(text)
	if len(text) > maxStringValueLength || ipShapedPattern.MatchString(text) {
		return nil, model.RejectionInvalidField
	}
	// Multi-word strings are free text; identifiers and enum values are not.
	if strings.ContainsAny(text, " \t\n") {
		return nil, model.RejectionInvalidField
	}
	return text, ""
}

func toStringSlice(value interface{}) ([]string, bool) {

	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			tag, ok := item.(string)
			if !ok {
				return nil, false
			}
			tags = append(tags, tag)
		}
		return tags, true
	default:
		return nil, false
	}
}
