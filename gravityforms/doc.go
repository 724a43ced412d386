// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package gravityforms defines the Gravity Forms data contract: forms and
// their field definitions, entries, and draft entries, along with the Store
// that owns them.
//
// Field definitions are decoded from the JSON Gravity Forms stores as a
// form's display meta. That JSON is loosely typed, so settings use the
// lenient Flag, FlexInt, FlexString, and NullFloat types.
package gravityforms
