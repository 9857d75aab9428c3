/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package config

// Validator describes any structure which can check its own entries.
type Validator interface {
	// Validate validates configuration entries.
	Validate() error
}

// IServiceConfiguration defines a configuration which can be loaded from the environment.
type IServiceConfiguration interface {
	Validator
}
