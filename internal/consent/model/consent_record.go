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

package model

// ConsentRecord represents one version of a subject's consent state for a
// single category. Records are append-only; withdrawal is a new version, not
// a deletion, so the history trail survives until the subject requests
// erasure.
type ConsentRecord struct {
	RecordID    string `json:"record_id" bson:"record_id"`
	SubjectID   string `json:"subject_id" bson:"subject_id"`
	Category    string `json:"category" bson:"category"`
	Granted     bool   `json:"granted" bson:"granted"`
	Version     int    `json:"version" bson:"version"`
	GrantedAt   int64  `json:"granted_at" bson:"granted_at"`
	WithdrawnAt int64  `json:"withdrawn_at,omitempty" bson:"withdrawn_at,omitempty"`
}

// ErasureSchedule marks a subject whose data is due for deletion after the
// grace period following full consent withdrawal.
type ErasureSchedule struct {
	SubjectID   string `json:"subject_id"`
	ScheduledAt int64  `json:"scheduled_at"`
	DeleteAfter int64  `json:"delete_after"`
}

// AuditEntry is a compliance audit trail record. SubjectHash is a salted
// one-way hash; the raw subject identifier never reaches the trail.
type AuditEntry struct {
	SubjectHash string `json:"subject_hash" bson:"subject_hash"`
	Category    string `json:"category,omitempty" bson:"category,omitempty"`
	Action      string `json:"action" bson:"action"`
	RecordedAt  int64  `json:"recorded_at" bson:"recorded_at"`
}
