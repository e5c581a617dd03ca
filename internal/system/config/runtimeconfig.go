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

import "sync"

// UISRuntime holds the runtime configuration for the usage insights server.
type UISRuntime struct {
	UISHome string `yaml:"uis_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *UISRuntime
	once          sync.Once
)

// InitializeUISRuntime initializes the UISRuntime configuration.
func InitializeUISRuntime(uisHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &UISRuntime{
			UISHome: uisHome,
			Config:  *config,
		}
	})

	return nil
}

// GetUISRuntime returns the UISRuntime configuration.
func GetUISRuntime() *UISRuntime {

	if runtimeConfig == nil {
		panic("UISRuntime is not initialized")
	}
	return runtimeConfig
}
