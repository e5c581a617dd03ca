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

// Package store persists minimized usage events. The table is append-only:
// rows are inserted and deleted, never updated.
package store

import (
	"encoding/json"
	"fmt"

	model "github.com/postpulse/usage-insights-service/internal/events/model"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	"github.com/postpulse/usage-insights-service/internal/system/database/provider"
	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

// AddEvent appends one minimized event.
func AddEvent(event model.Event) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding event of type: %s", event.EventType)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_EVENT.Code,
			Message:     errors2.ADD_EVENT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	payloadJSON, err := marshalJsonb(event.Payload)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(event_id, event_type, session_hash, subject_id, platform, purpose, payload, event_timestamp, retention_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, constants.EventTable)
	if _, err := dbClient.ExecuteStatement(query, event.ID, event.EventType, event.SessionHash,
		event.SubjectID, event.Platform, event.Purpose, payloadJSON, event.Timestamp,
		event.RetentionUntil); err != nil {
		errorMsg := fmt.Sprintf("Failed to insert event of type: %s", event.EventType)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_EVENT.Code,
			Message:     errors2.ADD_EVENT.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// FindEventsInRange returns events whose timestamp falls in [start, end).
func FindEventsInRange(start, end int64) ([]model.Event, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for fetching events."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_EVENTS.Code,
			Message:     errors2.GET_EVENTS.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf(`SELECT event_id, event_type, session_hash, subject_id, platform, purpose,
			payload, event_timestamp, retention_until
		FROM %s WHERE event_timestamp >= $1 AND event_timestamp < $2
		ORDER BY event_timestamp`, constants.EventTable)
	results, err := dbClient.ExecuteQuery(query, start, end)
	if err != nil {
		errorMsg := "Failed to execute query for fetching events."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_EVENTS.Code,
			Message:     errors2.GET_EVENTS.Message,
			Description: errorMsg,
		}, err)
	}
	return scanEventRows(results)
}

// FindEventsBySubject returns every stored event for the subject, newest first.
func FindEventsBySubject(subjectID string) ([]model.Event, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for fetching subject events."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_EVENTS.Code,
			Message:     errors2.GET_EVENTS.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf(`SELECT event_id, event_type, session_hash, subject_id, platform, purpose,
			payload, event_timestamp, retention_until
		FROM %s WHERE subject_id = $1 ORDER BY event_timestamp DESC`, constants.EventTable)
	results, err := dbClient.ExecuteQuery(query, subjectID)
	if err != nil {
		errorMsg := "Failed to execute query for fetching subject events."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_EVENTS.Code,
			Message:     errors2.GET_EVENTS.Message,
			Description: errorMsg,
		}, err)
	}
	return scanEventRows(results)
}

// DeleteExpired removes events whose retention window has passed and reports
// the number of deletions per purpose.
func DeleteExpired(now int64) (map[string]int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for deleting expired events."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_EVENTS.Code,
			Message:     errors2.DELETE_EVENTS.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf(`DELETE FROM %s WHERE retention_until <= $1 RETURNING purpose`, constants.EventTable)
	results, err := dbClient.ExecuteQuery(query, now)
	if err != nil {
		errorMsg := "Failed to delete expired events."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_EVENTS.Code,
			Message:     errors2.DELETE_EVENTS.Message,
			Description: errorMsg,
		}, err)
	}

	counts := make(map[string]int64)
	for _, row := range results {
		if purpose, ok := row["purpose"].(string); ok {
			counts[purpose]++
		}
	}
	return counts, nil
}

// DeleteBySubject removes every event for the subject and returns the count.
// This is the erasure primitive.
func DeleteBySubject(subjectID string) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for deleting subject events."
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_EVENTS.Code,
			Message:     errors2.DELETE_EVENTS.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf("DELETE FROM %s WHERE subject_id = $1", constants.EventTable)
	affected, err := dbClient.ExecuteStatement(query, subjectID)
	if err != nil {
		errorMsg := "Failed to delete subject events."
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_EVENTS.Code,
			Message:     errors2.DELETE_EVENTS.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
}

func marshalJsonb(payload map[string]interface{}) ([]byte, error) {

	if payload == nil {
		payload = map[string]interface{}{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.MARSHAL_JSON.Code,
			Message:     errors2.MARSHAL_JSON.Message,
			Description: "Failed to marshal event payload.",
		}, err)
	}
	return data, nil
}

func scanEventRows(results []map[string]interface{}) ([]model.Event, error) {

	events := make([]model.Event, 0, len(results))
	for _, row := range results {
		event := model.Event{}
		if v, ok := row["event_id"].(string); ok {
			event.ID = v
		}
		if v, ok := row["event_type"].(string); ok {
			event.EventType = v
		}
		if v, ok := row["session_hash"].(string); ok {
			event.SessionHash = v
		}
		if v, ok := row["subject_id"].(string); ok {
			event.SubjectID = v
		}
		if v, ok := row["platform"].(string); ok {
			event.Platform = v
		}
		if v, ok := row["purpose"].(string); ok {
			event.Purpose = v
		}
		if v, ok := row["event_timestamp"].(int64); ok {
			event.Timestamp = v
		}
		if v, ok := row["retention_until"].(int64); ok {
			event.RetentionUntil = v
		}
		payload, err := unmarshalPayload(row["payload"])
		if err != nil {
			return nil, err
		}
		event.Payload = payload
		events = append(events, event)
	}
	return events, nil
}

func unmarshalPayload(raw interface{}) (map[string]interface{}, error) {

	var data []byte
	switch v := raw.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNMARSHAL_JSON.Code,
			Message:     errors2.UNMARSHAL_JSON.Message,
			Description: "Unexpected payload column type.",
		}, nil)
	}

	payload := map[string]interface{}{}
	if len(data) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNMARSHAL_JSON.Code,
			Message:     errors2.UNMARSHAL_JSON.Message,
			Description: "Failed to unmarshal event payload.",
		}, err)
	}
	return payload, nil
}
