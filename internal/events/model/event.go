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

// Package model defines the usage event records stored by the service.
package model

import (
	"github.com/postpulse/usage-insights-service/internal/system/constants"
)

// Event is a minimized usage event. SessionHash is the salted session
// identifier; the payload holds only fields the purpose allow-list admits.
type Event struct {
	ID             string                 `json:"id"`
	EventType      string                 `json:"event_type"`
	SessionHash    string                 `json:"session_hash"`
	SubjectID      string                 `json:"subject_id,omitempty"`
	Platform       string                 `json:"platform,omitempty"`
	Purpose        string                 `json:"purpose"`
	Payload        map[string]interface{} `json:"payload"`
	Timestamp      int64                  `json:"timestamp"`
	RetentionUntil int64                  `json:"retention_until"`
}

// IngestionRequest is the raw event submitted by a client before consent
// gating and minimization.
type IngestionRequest struct {
	EventType    string                 `json:"event_type"`
	SubjectID    string                 `json:"subject_id"`
	Purpose      string                 `json:"purpose"`
	SessionToken string                 `json:"session_token,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	IPAddress    string                 `json:"ip_address,omitempty"`
	Payload      map[string]interface{} `json:"payload"`
	Timestamp    int64                  `json:"timestamp,omitempty"`
}

// Rejection reasons for events the gate refuses. A consent denial is a soft
// outcome for the client, never an error.
const (
	RejectionConsentMissing   = "consent_missing"
	RejectionInvalidField     = "invalid_field"
	RejectionUnknownEventType = "unknown_event_type"
)

// IngestionResult reports the outcome of one ingestion attempt. Accepted and
// rejected are mutually exclusive; DroppedFields lists payload keys the
// minimizer removed from an accepted event. SessionHash is the stored session
// identifier; clients persist it and replay it as SessionToken so one session
// does not fragment into many.
type IngestionResult struct {
	Accepted        bool     `json:"accepted"`
	EventID         string   `json:"event_id,omitempty"`
	SessionHash     string   `json:"session_hash,omitempty"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
	DroppedFields   []string `json:"dropped_fields,omitempty"`
}

// PayloadHashtags extracts the hashed hashtag list from an event payload.
// A jsonb round-trip turns the stored []string into []interface{}; both
// shapes are handled, anything else reads as no hashtags.
func PayloadHashtags(payload map[string]interface{}) []string {

	raw, present := payload[constants.FieldHashtags]
	if !present {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if tag, ok := item.(string); ok {
				tags = append(tags, tag)
			}
		}
		return tags
	default:
		return nil
	}
}
