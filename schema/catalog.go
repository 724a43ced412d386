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

package schema

// catalog registers types on a registry, keeping the first error.
type catalog struct {
	reg *TypeRegistry
	res *resolver
	err error
}

func (c *catalog) enum(name string, config EnumConfig) {
	if c.err == nil {
		c.err = c.reg.RegisterEnum(name, config)
	}
}

func (c *catalog) object(name string, config ObjectConfig) {
	if c.err == nil {
		c.err = c.reg.RegisterObject(name, config)
	}
}

func (c *catalog) iface(name string, config InterfaceConfig) {
	if c.err == nil {
		c.err = c.reg.RegisterInterface(name, config)
	}
}

func (c *catalog) input(name string, config InputObjectConfig) {
	if c.err == nil {
		c.err = c.reg.RegisterInputObject(name, config)
	}
}

func (c *catalog) fields(typeName string, fields map[string]FieldConfig) {
	if c.err == nil {
		c.err = c.reg.RegisterFields(typeName, fields)
	}
}
