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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadHashtags(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		want    []string
	}{
		{
			name:    "string slice as written by the minimizer",
			payload: map[string]interface{}{"hashtags": []string{"a1b2", "c3d4"}},
			want:    []string{"a1b2", "c3d4"},
		},
		{
			name:    "interface slice after a jsonb round-trip",
			payload: map[string]interface{}{"hashtags": []interface{}{"a1b2", 7, "c3d4"}},
			want:    []string{"a1b2", "c3d4"},
		},
		{
			name:    "absent field",
			payload: map[string]interface{}{"platform": "instagram"},
			want:    nil,
		},
		{
			name:    "wrong type",
			payload: map[string]interface{}{"hashtags": "a1b2"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PayloadHashtags(tt.payload))
		})
	}
}
