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

package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	model "github.com/postpulse/usage-insights-service/internal/consent/model"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	"github.com/postpulse/usage-insights-service/internal/system/database/provider"
	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

// maxVersionRetries bounds the retries when concurrent writers race to the
// same (subject, category, version) slot.
const maxVersionRetries = 5

// uniqueViolationCode is the Postgres error class for unique constraint hits.
const uniqueViolationCode = pq.ErrorCode("23505")

// AddConsentRecord appends a new consent record version. The version number
// is assigned inside the insert; a unique-constraint hit means another writer
// took the slot first, so the insert retries with a fresh MAX(version).
func AddConsentRecord(record model.ConsentRecord) (*model.ConsentRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for recording consent for category: %s", record.Category)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_CONSENT.Code,
			Message:     errors2.ADD_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf(`INSERT INTO %s (record_id, subject_id, category, granted, version, granted_at, withdrawn_at)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM %s WHERE subject_id = $2 AND category = $3),
			$5, $6)
		RETURNING version`, constants.ConsentTable, constants.ConsentTable)

	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		results, err := dbClient.ExecuteQuery(query, record.RecordID, record.SubjectID, record.Category,
			record.Granted, record.GrantedAt, record.WithdrawnAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
				logger.Debug(fmt.Sprintf("Consent version collision for category: %s; retrying.",
					record.Category))
				lastErr = err
				continue
			}
			errorMsg := fmt.Sprintf("Failed to execute query for recording consent for category: %s", record.Category)
			logger.Debug(errorMsg, log.Error(err))
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.ADD_CONSENT.Code,
				Message:     errors2.ADD_CONSENT.Message,
				Description: errorMsg,
			}, err)
		}
		if len(results) > 0 {
			if v, ok := results[0]["version"].(int64); ok {
				record.Version = int(v)
			}
		}
		logger.Debug(fmt.Sprintf("Recorded consent version %d for category: %s", record.Version, record.Category))
		return &record, nil
	}

	errorMsg := fmt.Sprintf("Consent version contention persisted for category: %s", record.Category)
	logger.Debug(errorMsg, log.Error(lastErr))
	return nil, errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.ADD_CONSENT.Code,
		Message:     errors2.ADD_CONSENT.Message,
		Description: errorMsg,
	}, lastErr)
}

// GetLatestConsent returns the newest consent record version for the subject
// and category, or nil when no record exists (default-deny).
func GetLatestConsent(subjectID, category string) (*model.ConsentRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for fetching consent state."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONSENT.Code,
			Message:     errors2.FETCH_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf(`SELECT record_id, subject_id, category, granted, version, granted_at, withdrawn_at
		FROM %s WHERE subject_id = $1 AND category = $2 ORDER BY version DESC LIMIT 1`, constants.ConsentTable)
	results, err := dbClient.ExecuteQuery(query, subjectID, category)
	if err != nil {
		errorMsg := "Failed to execute query for fetching consent state."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONSENT.Code,
			Message:     errors2.FETCH_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}

	if len(results) == 0 {
		return nil, nil
	}
	record := scanConsentRow(results[0])
	return &record, nil
}

// GetLatestConsentPerCategory returns the newest record version for every
// category the subject has ever touched.
func GetLatestConsentPerCategory(subjectID string) ([]model.ConsentRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for fetching consent records."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONSENT.Code,
			Message:     errors2.FETCH_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf(`SELECT DISTINCT ON (category)
			record_id, subject_id, category, granted, version, granted_at, withdrawn_at
		FROM %s WHERE subject_id = $1 ORDER BY category, version DESC`, constants.ConsentTable)
	results, err := dbClient.ExecuteQuery(query, subjectID)
	if err != nil {
		errorMsg := "Failed to execute query for fetching consent records."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONSENT.Code,
			Message:     errors2.FETCH_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}

	records := make([]model.ConsentRecord, 0, len(results))
	for _, row := range results {
		records = append(records, scanConsentRow(row))
	}
	return records, nil
}

// DeleteConsentBySubject removes the full consent history for a subject.
// Erasure path only; routine withdrawal keeps the trail.
func DeleteConsentBySubject(subjectID string) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for deleting consent history."
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.WITHDRAW_CONSENT.Code,
			Message:     errors2.WITHDRAW_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf("DELETE FROM %s WHERE subject_id = $1", constants.ConsentTable)
	affected, err := dbClient.ExecuteStatement(query, subjectID)
	if err != nil {
		errorMsg := "Failed to delete consent history."
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.WITHDRAW_CONSENT.Code,
			Message:     errors2.WITHDRAW_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
}

// ScheduleErasure upserts the pending erasure entry for a subject.
func ScheduleErasure(subjectID string, scheduledAt, deleteAfter int64) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for scheduling erasure."
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ERASURE_SCHEDULE.Code,
			Message:     errors2.ERASURE_SCHEDULE.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf(`INSERT INTO %s (subject_id, scheduled_at, delete_after)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject_id) DO UPDATE SET scheduled_at = $2, delete_after = $3`, constants.ErasureTable)
	if _, err := dbClient.ExecuteStatement(query, subjectID, scheduledAt, deleteAfter); err != nil {
		errorMsg := "Failed to schedule erasure."
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ERASURE_SCHEDULE.Code,
			Message:     errors2.ERASURE_SCHEDULE.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// CancelErasure removes a pending erasure entry. Called when the subject
// re-grants any category inside the grace period.
func CancelErasure(subjectID string) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for cancelling erasure."
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ERASURE_SCHEDULE.Code,
			Message:     errors2.ERASURE_SCHEDULE.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf("DELETE FROM %s WHERE subject_id = $1", constants.ErasureTable)
	affected, err := dbClient.ExecuteStatement(query, subjectID)
	if err != nil {
		errorMsg := "Failed to cancel erasure."
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ERASURE_SCHEDULE.Code,
			Message:     errors2.ERASURE_SCHEDULE.Message,
			Description: errorMsg,
		}, err)
	}
	return affected > 0, nil
}

// DueErasures lists subjects whose erasure grace period has elapsed.
func DueErasures(now int64) ([]string, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for listing due erasures."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ERASURE_SCHEDULE.Code,
			Message:     errors2.ERASURE_SCHEDULE.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf("SELECT subject_id FROM %s WHERE delete_after <= $1", constants.ErasureTable)
	results, err := dbClient.ExecuteQuery(query, now)
	if err != nil {
		errorMsg := "Failed to list due erasures."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ERASURE_SCHEDULE.Code,
			Message:     errors2.ERASURE_SCHEDULE.Message,
			Description: errorMsg,
		}, err)
	}

	subjects := make([]string, 0, len(results))
	for _, row := range results {
		if id, ok := row["subject_id"].(string); ok {
			subjects = append(subjects, id)
		}
	}
	return subjects, nil
}

func scanConsentRow(row map[string]interface{}) model.ConsentRecord {

	record := model.ConsentRecord{}
	if v, ok := row["record_id"].(string); ok {
		record.RecordID = v
	}
	if v, ok := row["subject_id"].(string); ok {
		record.SubjectID = v
	}
	if v, ok := row["category"].(string); ok {
		record.Category = v
	}
	if v, ok := row["granted"].(bool); ok {
		record.Granted = v
	}
	if v, ok := row["version"].(int64); ok {
		record.Version = int(v)
	}
	if v, ok := row["granted_at"].(int64); ok {
		record.GrantedAt = v
	}
	if v, ok := row["withdrawn_at"].(int64); ok {
		record.WithdrawnAt = v
	}
	return record
}
