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
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	model "github.com/postpulse/usage-insights-service/internal/consent/model"
	"github.com/postpulse/usage-insights-service/internal/system/config"
	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

const auditConnectTimeout = 10 * time.Second

// AuditRepository persists the compliance trail of consent decisions.
// Entries carry the hashed subject identifier only.
type AuditRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewAuditRepository connects to the audit store configured in the runtime.
func NewAuditRepository(ctx context.Context) (*AuditRepository, error) {

	cfg := config.GetUISRuntime().Config.AuditStore
	logger := log.GetLogger()

	connectCtx, cancel := context.WithTimeout(ctx, auditConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		errorMsg := "Failed to connect to the consent audit store."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_TRAIL.Code,
			Message:     errors2.AUDIT_TRAIL.Message,
			Description: errorMsg,
		}, err)
	}

	return &AuditRepository{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// AddEntry appends one audit entry to the trail.
func (r *AuditRepository) AddEntry(ctx context.Context, entry model.AuditEntry) error {

	logger := log.GetLogger()
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		errorMsg := fmt.Sprintf("Failed to record audit entry for action: %s", entry.Action)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_TRAIL.Code,
			Message:     errors2.AUDIT_TRAIL.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// ListEntries returns the audit trail for a hashed subject identifier,
// newest first.
func (r *AuditRepository) ListEntries(ctx context.Context, subjectHash string) ([]model.AuditEntry, error) {

	logger := log.GetLogger()
	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"subject_hash": subjectHash}, opts)
	if err != nil {
		errorMsg := "Failed to query the consent audit trail."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_TRAIL.Code,
			Message:     errors2.AUDIT_TRAIL.Message,
			Description: errorMsg,
		}, err)
	}
	defer cursor.Close(ctx)

	var entries []model.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		errorMsg := "Failed to decode consent audit entries."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_TRAIL.Code,
			Message:     errors2.AUDIT_TRAIL.Message,
			Description: errorMsg,
		}, err)
	}
	return entries, nil
}

// Close releases the underlying client.
func (r *AuditRepository) Close(ctx context.Context) error {

	return r.client.Disconnect(ctx)
}
