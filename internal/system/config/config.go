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

package config

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	AdminJWTSecret     string   `yaml:"admin_jwt_secret"`
	AdminJWTAudience   string   `yaml:"admin_jwt_audience"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// AuditStoreConfig points at the MongoDB deployment holding the long-lived
// compliance audit trail. Kept separate from the analytics datasource so the
// trail can outlive the analytics data.
type AuditStoreConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type AnalyticsConfig struct {
	// HashSalt is the per-install secret salt for session and hashtag hashing.
	HashSalt string `yaml:"hash_salt"`
	// BaselineCacheTTLMinutes controls how long a computed community baseline
	// is served from cache before recomputation. Default 60.
	BaselineCacheTTLMinutes int `yaml:"baseline_cache_ttl_minutes"`
	// MinSubjectActivity excludes low-activity subjects from baselines.
	MinSubjectActivity int `yaml:"min_subject_activity"`
	// ErasureGraceDays is the undo window after full consent withdrawal.
	ErasureGraceDays int `yaml:"erasure_grace_days"`
}

type SchedulerConfig struct {
	RetentionSweepHours    int `yaml:"retention_sweep_hours"`
	BaselineRefreshMinutes int `yaml:"baseline_refresh_minutes"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	DataSource DataSourceConfig `yaml:"datasource"`
	AuditStore AuditStoreConfig `yaml:"audit_store"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}
