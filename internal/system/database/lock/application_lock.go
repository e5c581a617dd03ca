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

package lock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/postpulse/usage-insights-service/internal/system/database/client"
	"github.com/postpulse/usage-insights-service/internal/system/database/provider"
	"github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

// DistributedLock keeps singleton jobs (the retention sweep) from running
// concurrently across instances.
type DistributedLock interface {
	Acquire(key string) (bool, error)
	Release(key string) error
}

// PostgresLock implements DistributedLock using PostgreSQL advisory locks.
// Advisory locks are session-scoped, so the lock pins one connection out of
// the pool on Acquire and holds it until Release; acquiring and releasing on
// pooled statements would drop the lock as soon as the session rotates.
type PostgresLock struct {
	dbClient client.DBClientInterface
	conn     *sql.Conn
}

func NewPostgresLock() *PostgresLock {
	return &PostgresLock{}
}

// PostgreSQL advisory locks use bigint or two integers. We'll use a single bigint.
func (l *PostgresLock) generateLockKey(key string) (int64, error) {

	logger := log.GetLogger()
	h := fnv.New64a()
	_, err := h.Write([]byte(key))
	if err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
		return 0, serverError
	}
	return int64(h.Sum64()), nil
}

// Acquire tries to take the advisory lock for the key. On success the pinned
// connection stays held by the lock until Release is called.
func (l *PostgresLock) Acquire(key string) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
		return false, serverError
	}

	lockID, err := l.generateLockKey(key)
	if err != nil {
		dbClient.Close()
		errorMsg := "Could not create advisory lock key from input."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
	}
	logger.Debug(fmt.Sprintf("Generated lock id: %d", lockID))

	conn, err := dbClient.Conn(context.Background())
	if err != nil {
		dbClient.Close()
		errorMsg := "Failed to pin a connection for the advisory lock."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}

	var acquired bool
	err = conn.QueryRowContext(context.Background(),
		"SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired)
	if err != nil {
		conn.Close()
		dbClient.Close()
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}

	if !acquired {
		conn.Close()
		dbClient.Close()
		return false, nil
	}

	l.dbClient = dbClient
	l.conn = conn
	return true, nil
}

// Release unlocks the key on the pinned connection and returns it to the pool.
func (l *PostgresLock) Release(key string) error {

	logger := log.GetLogger()
	if l.conn == nil {
		errorMsg := "Release called on a lock that was never acquired."
		logger.Error(errorMsg)
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, nil)
	}
	defer func() {
		l.conn.Close()
		l.dbClient.Close()
		l.conn = nil
		l.dbClient = nil
	}()

	lockID, err := l.generateLockKey(key)
	if err != nil {
		errorMsg := "Could not create advisory lock key from input."
		logger.Error(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
		return serverError
	}

	var released bool
	err = l.conn.QueryRowContext(context.Background(),
		"SELECT pg_advisory_unlock($1)", lockID).Scan(&released)
	if err != nil {
		errorMsg := "pg_advisory_unlock failed"
		logger.Error(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, err)
		return serverError
	}
	if !released {
		errorMsg := "pg_advisory_unlock reported the lock was not held"
		logger.Error(errorMsg)
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, nil)
	}
	logger.Debug(fmt.Sprintf("Advisory lock released for lock id: %d", lockID))
	return nil
}
