/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package keys

import "github.com/dchest/siphash"

const (
	hashK0 = 0x67726f7570616767
	hashK1 = 0x6b65797369706861
)

// Hash returns a 64-bit siphash fingerprint of an encoded key. Equal keys
// encoded by the same Encoder always share a fingerprint.
func Hash(encoded []byte) uint64 {
	return siphash.Hash(hashK0, hashK1, encoded)
}
