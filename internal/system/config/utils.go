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

import (
	"gopkg.in/yaml.v2"
	"os"
	"path"
)

// LoadConfig loads the deployment configuration from the given path, with
// environment variable expansion applied to the raw file contents.
func LoadConfig(uisHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(uisHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// OverrideUISRuntime replaces the runtime configuration. Test use only.
func OverrideUISRuntime(conf Config) {
	applyDefaults(&conf)
	runtimeConfig = &UISRuntime{
		Config: conf,
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Analytics.BaselineCacheTTLMinutes <= 0 {
		cfg.Analytics.BaselineCacheTTLMinutes = 60
	}
	if cfg.Analytics.MinSubjectActivity <= 0 {
		cfg.Analytics.MinSubjectActivity = 3
	}
	if cfg.Analytics.ErasureGraceDays <= 0 {
		cfg.Analytics.ErasureGraceDays = 30
	}
	if cfg.Scheduler.RetentionSweepHours <= 0 {
		cfg.Scheduler.RetentionSweepHours = 24
	}
	if cfg.Scheduler.BaselineRefreshMinutes <= 0 {
		cfg.Scheduler.BaselineRefreshMinutes = 60
	}
}
