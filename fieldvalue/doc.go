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

/*
Package fieldvalue converts stored Gravity Forms entry data into GraphQL-shaped
Go values.

Every adapter is a pure function of an entry's values and a field definition.
Adapters never fail: a missing or malformed value yields nil for scalars and a
nil-populated structure for composites. A stored value is missing when it is
absent, nil, the empty string, or an empty array. The string "0" is a value.

Some field types store a JSON array encoded as a string while others have
already been decoded by the time they reach an adapter. List adapters accept
both forms.
*/
package fieldvalue
